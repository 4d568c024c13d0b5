// Package browser provides the shared chromedp configuration used to render
// the canteen's page.
package browser

import (
	"context"

	"github.com/chromedp/chromedp"
)

// DefaultUserAgent is a realistic desktop Chrome user agent
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options returns chromedp allocator options. Facebook serves a stripped
// page to clients that look automated, so the webdriver flag is hidden.
func Options(headless bool) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),

		// Prevent navigator.webdriver = true detection
		chromedp.Flag("disable-blink-features", "AutomationControlled"),

		chromedp.UserAgent(DefaultUserAgent),
		chromedp.WindowSize(1280, 2000),

		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("lang", "nb-NO"),
	)

	if headless {
		opts = append(opts, chromedp.Flag("disable-gpu", true))
	}

	return opts
}

// NewContext starts a browser and returns a tab context. cancel tears down
// both the tab and the browser process.
func NewContext(parent context.Context, headless bool) (ctx context.Context, cancel context.CancelFunc) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, Options(headless)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	return tabCtx, func() {
		tabCancel()
		allocCancel()
	}
}

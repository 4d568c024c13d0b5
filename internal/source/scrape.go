package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/ibeckermayer/lunchbot/internal/browser"
	"github.com/ibeckermayer/lunchbot/internal/types"
)

// ScrapeSource renders the page's public post listing in a browser and
// parses the posts out of the HTML. It needs no credentials.
type ScrapeSource struct {
	page     string
	headless bool
	baseURL  string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewScrapeSource creates a scraper for page
func NewScrapeSource(page string, headless bool, logger *slog.Logger) *ScrapeSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ScrapeSource{
		page:     page,
		headless: headless,
		baseURL:  "https://facebook.com",
		timeout:  2 * time.Minute,
		logger:   logger,
	}
}

// URL returns the address of the page's post listing
func (s *ScrapeSource) URL() string {
	return fmt.Sprintf("%s/%s/posts", strings.TrimRight(s.baseURL, "/"), s.page)
}

// Posts renders the listing and parses the posts on it
func (s *ScrapeSource) Posts(ctx context.Context) ([]types.Post, error) {
	browserCtx, cancel := browser.NewContext(ctx, s.headless)
	defer cancel()

	// Set timeout for the entire scrape operation
	browserCtx, timeoutCancel := context.WithTimeout(browserCtx, s.timeout)
	defer timeoutCancel()

	var html string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "nb-NO,nb;q=0.9,en;q=0.8"}),
		chromedp.Navigate(s.URL()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.URL(), err)
	}

	posts, err := ParsePosts(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("scraped posts", "url", s.URL(), "count", len(posts))
	return posts, nil
}

package source

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ibeckermayer/lunchbot/internal/types"
)

// Facebook DOM selectors. Isolated here because the markup changes.
const (
	PostWrapper   = ".userContentWrapper"
	PostTimestamp = ".timestampContent"
	PostContent   = ".userContent"
	PostCollapsed = ".text_exposed_hide"
	UnixTimeAttr  = "data-utime"
)

// ErrNoPosts is returned when the page holds no recognisable posts.
var ErrNoPosts = errors.New("couldn't find posts, did the Facebook HTML change?")

// ParsePosts extracts posts from a rendered page listing, in page order.
func ParsePosts(r io.Reader) ([]types.Post, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	wrappers := doc.Find(PostWrapper)
	if wrappers.Length() == 0 {
		return nil, ErrNoPosts
	}

	posts := make([]types.Post, 0, wrappers.Length())
	var parseErr error
	wrappers.EachWithBreak(func(_ int, w *goquery.Selection) bool {
		p, err := parsePost(w)
		if err != nil {
			parseErr = err
			return false
		}
		posts = append(posts, p)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return posts, nil
}

func parsePost(w *goquery.Selection) (types.Post, error) {
	utime, ok := w.Find(PostTimestamp).First().Parent().Attr(UnixTimeAttr)
	if !ok {
		return types.Post{}, fmt.Errorf("post without %s", UnixTimeAttr)
	}
	secs, err := strconv.ParseInt(utime, 10, 64)
	if err != nil {
		return types.Post{}, fmt.Errorf("invalid %s %q: %w", UnixTimeAttr, utime, err)
	}

	content := w.Find(PostContent).First()
	content.Find(PostCollapsed).Remove()

	return types.Post{
		Message:     postText(content),
		CreatedTime: time.Unix(secs, 0).UTC(),
	}, nil
}

// postText flattens an element to text. Text nodes are trimmed and joined
// by spaces; <br> and <p> start a new line.
func postText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(strings.TrimSpace(c.Data))
				b.WriteByte(' ')
			case html.ElementNode:
				if c.Data == "br" || c.Data == "p" {
					b.WriteByte('\n')
				}
				walk(c)
			}
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.TrimSpace(b.String())
}

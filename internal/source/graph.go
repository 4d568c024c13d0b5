package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ibeckermayer/lunchbot/internal/types"
)

// Graph API timestamps carry a numeric offset without a colon.
const graphTimeLayout = "2006-01-02T15:04:05-0700"

// GraphConfig addresses a page on the Graph API.
type GraphConfig struct {
	BaseURL      string
	Version      string
	Page         string
	ClientID     string
	ClientSecret string
	Limit        int
}

// GraphSource reads a page's posts from the Graph API with an app access
// token obtained through the client credentials grant.
type GraphSource struct {
	cfg      GraphConfig
	client   *http.Client
	logger   *slog.Logger
	maxTries uint
	initial  time.Duration
}

// GraphOption configures a GraphSource.
type GraphOption func(*GraphSource)

// WithGraphLogger sets the logger.
func WithGraphLogger(l *slog.Logger) GraphOption {
	return func(s *GraphSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRetry overrides how often and how soon failed requests are retried.
func WithRetry(maxTries uint, initial time.Duration) GraphOption {
	return func(s *GraphSource) {
		s.maxTries = maxTries
		s.initial = initial
	}
}

// NewGraphSource creates a Graph API source. ctx scopes token refreshes.
func NewGraphSource(ctx context.Context, cfg GraphConfig, opts ...GraphOption) *GraphSource {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     strings.TrimRight(cfg.BaseURL, "/") + "/oauth/access_token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	s := &GraphSource{
		cfg:      cfg,
		client:   cc.Client(ctx),
		logger:   slog.New(slog.DiscardHandler),
		maxTries: 4,
		initial:  time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type graphPost struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	CreatedTime string `json:"created_time"`
}

type graphPage struct {
	Data   []graphPost `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// Posts returns the first page of posts.
func (s *GraphSource) Posts(ctx context.Context) ([]types.Post, error) {
	return s.History(ctx, 1)
}

// History follows the paging links for up to maxPages pages.
func (s *GraphSource) History(ctx context.Context, maxPages int) ([]types.Post, error) {
	next := s.firstPageURL()
	var posts []types.Post
	for page := 0; page < maxPages && next != ""; page++ {
		p, err := s.fetch(ctx, next)
		if err != nil {
			return posts, err
		}
		for _, gp := range p.Data {
			post, err := gp.post()
			if err != nil {
				s.logger.Warn("skipping post with bad timestamp", "id", gp.ID, "error", err)
				continue
			}
			posts = append(posts, post)
		}
		s.logger.Debug("fetched page of posts", "page", page, "count", len(p.Data))
		next = p.Paging.Next
	}
	return posts, nil
}

func (s *GraphSource) firstPageURL() string {
	u := strings.TrimRight(s.cfg.BaseURL, "/")
	if s.cfg.Version != "" {
		u += "/" + s.cfg.Version
	}
	q := url.Values{}
	q.Set("fields", "message,created_time")
	if s.cfg.Limit > 0 {
		q.Set("limit", strconv.Itoa(s.cfg.Limit))
	}
	return u + "/" + url.PathEscape(s.cfg.Page) + "/posts?" + q.Encode()
}

// fetch retrieves one page, retrying server errors and transport failures.
func (s *GraphSource) fetch(ctx context.Context, pageURL string) (graphPage, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.initial
	bo.MaxInterval = 30 * time.Second

	page, err := backoff.Retry(ctx, func() (graphPage, error) {
		return s.fetchOnce(ctx, pageURL)
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(s.maxTries),
		backoff.WithNotify(func(err error, d time.Duration) {
			s.logger.Warn("graph request failed, retrying", "error", err, "retry_in", d)
		}),
	)
	if err != nil {
		return graphPage{}, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return page, nil
}

func (s *GraphSource) fetchOnce(ctx context.Context, pageURL string) (graphPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return graphPage{}, backoff.Permanent(err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return graphPage{}, backoff.Permanent(fmt.Errorf("failed to get access token: %w", err))
		}
		return graphPage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("graph API returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return graphPage{}, err
		}
		return graphPage{}, backoff.Permanent(err)
	}

	var page graphPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return graphPage{}, backoff.Permanent(fmt.Errorf("failed to decode posts: %w", err))
	}
	return page, nil
}

func (gp graphPost) post() (types.Post, error) {
	t, err := ParseGraphTime(gp.CreatedTime)
	if err != nil {
		return types.Post{}, err
	}
	return types.Post{Message: gp.Message, CreatedTime: t}, nil
}

// ParseGraphTime parses a Graph API timestamp, accepting RFC 3339 as well.
func ParseGraphTime(s string) (time.Time, error) {
	if t, err := time.Parse(graphTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_time %q: %w", s, err)
	}
	return t, nil
}

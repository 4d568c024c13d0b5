// Package source fetches the canteen's posts, most recent first.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ibeckermayer/lunchbot/internal/config"
	"github.com/ibeckermayer/lunchbot/internal/types"
)

// Source yields posts, most recent first.
type Source interface {
	Posts(ctx context.Context) ([]types.Post, error)
}

// Pager is implemented by sources that can walk further back than the
// first page of posts.
type Pager interface {
	Source
	History(ctx context.Context, maxPages int) ([]types.Post, error)
}

// History fetches up to maxPages pages from src when it supports paging,
// and the first page otherwise.
func History(ctx context.Context, src Source, maxPages int) ([]types.Post, error) {
	if p, ok := src.(Pager); ok {
		return p.History(ctx, maxPages)
	}
	return src.Posts(ctx)
}

// New builds the source selected by cfg.Source.
func New(ctx context.Context, cfg config.FacebookConfig, logger *slog.Logger) (Source, error) {
	switch cfg.Source {
	case config.SourceGraph:
		return NewGraphSource(ctx, GraphConfig{
			BaseURL:      cfg.GraphURL,
			Version:      cfg.GraphVersion,
			Page:         cfg.Page,
			ClientID:     cfg.ID,
			ClientSecret: cfg.Secret,
			Limit:        cfg.Limit,
		}, WithGraphLogger(logger)), nil
	case config.SourceScrape:
		return NewScrapeSource(cfg.Page, cfg.Headless, logger), nil
	default:
		return nil, fmt.Errorf("unknown post source: %s", cfg.Source)
	}
}

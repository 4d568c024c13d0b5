package menu

import (
	"log/slog"
	"time"

	"github.com/ibeckermayer/lunchbot/internal/types"
)

const day = 24 * time.Hour

// DayDistance is the number of whole days between t and ref, ignoring sign.
func DayDistance(t, ref time.Time) int {
	d := t.Sub(ref)
	if d < 0 {
		d = -d
	}
	return int(d / day)
}

// Filter returns the posts that have text and were created at most window
// days away from ref. Order is preserved.
func Filter(logger *slog.Logger, posts []types.Post, ref time.Time, window int) []types.Post {
	var kept []types.Post
	for _, p := range posts {
		if !p.HasText() {
			continue
		}
		if dist := DayDistance(p.CreatedTime, ref); dist > window {
			logger.Debug("dropping post outside window",
				"created", p.CreatedTime.Format(time.RFC3339), "days", dist, "window", window)
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// Package menu extracts the day's lunch menu for the first and third floor
// from the venue's posts.
//
// Extraction is a fixed cascade of patterns. A daily post for the reference
// date wins outright; otherwise the weekly menu posts are located, split by
// floor, split by weekday, and the reference weekday is picked out.
package menu

import (
	"log/slog"
	"time"

	"github.com/ibeckermayer/lunchbot/internal/types"
)

// Menu is the extraction result. Combined is only set when the weekly post
// could not be split by floor; it is never set together with First or Third.
type Menu struct {
	First    *string `json:"first,omitempty"`
	Third    *string `json:"third,omitempty"`
	Combined *string `json:"combined,omitempty"`
}

// Empty reports whether nothing was found.
func (m Menu) Empty() bool {
	return m.First == nil && m.Third == nil && m.Combined == nil
}

// Weekday counts from Monday = 0. Only 0 through 4 have menus.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf returns the weekday of t in its own location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// Workday reports whether the canteen serves lunch on w.
func (w Weekday) Workday() bool {
	return w >= Monday && w <= Friday
}

// Week is the weekly lookup result. First and Third are nil when the floor
// was not found; Combined is set only when neither was.
type Week struct {
	First    *Days
	Third    *Days
	Combined *Days
}

// Defaults for the post filter windows, in days.
const (
	DefaultDailyWindow  = 10
	DefaultWeeklyWindow = 14
)

// Extractor runs the extraction cascade. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	patterns     *Patterns
	logger       *slog.Logger
	dailyWindow  int
	weeklyWindow int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithWindows overrides the daily and weekly post filter windows.
func WithWindows(daily, weekly int) Option {
	return func(e *Extractor) {
		e.dailyWindow = daily
		e.weeklyWindow = weekly
	}
}

// NewExtractor creates an extractor over the given pattern tables.
func NewExtractor(p *Patterns, opts ...Option) *Extractor {
	e := &Extractor{
		patterns:     p,
		logger:       slog.New(slog.DiscardHandler),
		dailyWindow:  DefaultDailyWindow,
		weeklyWindow: DefaultWeeklyWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Patterns returns the pattern tables in use.
func (e *Extractor) Patterns() *Patterns {
	return e.patterns
}

// Get returns the menu for the day of ref. posts are expected most recent
// first.
func (e *Extractor) Get(posts []types.Post, ref time.Time) Menu {
	weekday := WeekdayOf(ref)
	if !weekday.Workday() {
		e.logger.Info("no menu on weekends", "date", ref.Format(time.DateOnly))
		return Menu{}
	}

	if m, ok := e.Daily(posts, ref); ok {
		return m
	}

	_, week := ref.ISOWeek()
	return Assemble(e.Weekly(posts, ref, week), weekday)
}

// Assemble picks weekday out of a weekly result.
func Assemble(w Week, weekday Weekday) Menu {
	if !weekday.Workday() {
		return Menu{}
	}
	var m Menu
	if w.First != nil {
		m.First = w.First[weekday]
	}
	if w.Third != nil {
		m.Third = w.Third[weekday]
	}
	if w.First == nil && w.Third == nil && w.Combined != nil {
		m.Combined = w.Combined[weekday]
	}
	return m
}

// Package rating collects 0-100 ratings for archived daily menus, one per
// floor and day.
package rating

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ibeckermayer/lunchbot/internal/menu"
	"github.com/ibeckermayer/lunchbot/internal/store"
)

// Floor selects the canteen.
type Floor int

const (
	First Floor = iota
	Third
)

func (f Floor) String() string {
	if f == Third {
		return "third"
	}
	return "first"
}

var (
	// Epoch is day zero for rating keys.
	Epoch = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	// Cutoff excludes menus from before the archive format settled.
	Cutoff = time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC)
)

// Entry is the menu of one floor on one day.
type Entry struct {
	Menu  string
	Date  time.Time
	Floor Floor
}

// Key identifies the entry in the rating table.
func (e Entry) Key() int64 {
	days := int64(e.Date.Sub(Epoch) / (24 * time.Hour))
	return 10*days + int64(e.Floor)
}

// Entries splits archived weekly menu posts into per-day entries dated after
// Cutoff. posts are expected most recent first; when two posts cover the same
// floor and day the more recent one wins.
func Entries(ex *menu.Extractor, posts []store.ArchivedPost) []Entry {
	seen := make(map[int64]bool)
	var entries []Entry
	for _, p := range posts {
		seg, ok := ex.Segment(p.Post.Message)
		if !ok {
			continue
		}
		year, week := isoWeekFor(p.Post.CreatedTime, seg.Week)
		monday := isoMonday(year, week)

		for floor, days := range map[Floor]*menu.Days{First: seg.Days.First, Third: seg.Days.Third} {
			if days == nil {
				continue
			}
			for d, text := range days {
				if text == nil {
					continue
				}
				e := Entry{Menu: *text, Date: monday.AddDate(0, 0, d), Floor: floor}
				if !e.Date.After(Cutoff) || seen[e.Key()] {
					continue
				}
				seen[e.Key()] = true
				entries = append(entries, e)
			}
		}
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Key(), b.Key())
	})
	return entries
}

// isoWeekFor resolves the ISO year of a stated week number from the post
// date. Menus are posted up to a few days before their week starts, which
// crosses the year boundary around new year. A zero stated week falls back
// to the week of the post itself.
func isoWeekFor(created time.Time, stated int) (year, week int) {
	year, week = created.ISOWeek()
	if stated == 0 {
		return year, week
	}
	switch {
	case stated-week > 26:
		year--
	case week-stated > 26:
		year++
	}
	return year, stated
}

func isoMonday(year, week int) time.Time {
	jan4 := time.Date(year, 1, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -int(menu.WeekdayOf(jan4)))
	return monday.AddDate(0, 0, 7*(week-1))
}

// Store persists ratings.
type Store interface {
	Rating(ctx context.Context, key int64) (int, bool, error)
	SaveRating(ctx context.Context, key int64, rating int) error
}

// Rater prompts for ratings on a line based terminal.
type Rater struct {
	store Store
	in    *bufio.Scanner
	out   io.Writer
}

// NewRater creates a rater reading answers from in and prompting on out.
func NewRater(s Store, in io.Reader, out io.Writer) *Rater {
	return &Rater{store: s, in: bufio.NewScanner(in), out: out}
}

// Rate returns the stored rating of e, prompting for one when there is none.
// Input that is not a number from 0 to 100 is asked again. io.EOF is
// returned when input runs out.
func (r *Rater) Rate(ctx context.Context, e Entry) (int, error) {
	if prev, ok, err := r.store.Rating(ctx, e.Key()); err != nil || ok {
		return prev, err
	}

	fmt.Fprintf(r.out, "Rate the menu (%s floor, %s):\n", e.Floor, e.Date.Format("Mon 2006-01-02"))
	fmt.Fprintln(r.out, e.Menu)
	fmt.Fprintln(r.out, strings.Repeat("-", 60))

	for {
		fmt.Fprint(r.out, "[0-100]:")
		if !r.in.Scan() {
			if err := r.in.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		n, err := strconv.Atoi(strings.TrimSpace(r.in.Text()))
		if err != nil || n < 0 || n > 100 {
			continue
		}
		if err := r.store.SaveRating(ctx, e.Key(), n); err != nil {
			return 0, err
		}
		return n, nil
	}
}

// RateAll rates every entry in turn. Running out of input ends the session
// early without error. It returns how many entries carry a rating.
func (r *Rater) RateAll(ctx context.Context, entries []Entry) (int, error) {
	rated := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return rated, err
		}
		if _, err := r.Rate(ctx, e); err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return rated, nil
			}
			return rated, err
		}
		rated++
	}
	fmt.Fprintln(r.out, "All menus are rated!")
	return rated, nil
}

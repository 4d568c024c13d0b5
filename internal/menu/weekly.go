package menu

import (
	"strconv"
	"time"

	"github.com/ibeckermayer/lunchbot/internal/types"
)

// Anchor returns the index of the first post that plausibly carries a weekly
// menu. The week it announces is not checked here.
func (e *Extractor) Anchor(posts []types.Post) (int, bool) {
	for i, p := range posts {
		if m, ok := e.patterns.Anchor.First(p.Message); ok {
			e.logger.Debug("anchor post", "pattern", m.Pattern.Name, "created", p.CreatedTime.Format(time.RFC3339))
			return i, true
		}
	}
	return 0, false
}

// Weekly looks up the menu for ISO week number week, starting from the
// anchor post. A combined post for the week anywhere in the window wins
// outright. Otherwise the single floor posts are collected until both floors
// are found.
func (e *Extractor) Weekly(posts []types.Post, ref time.Time, week int) Week {
	posts = Filter(e.logger, posts, ref, e.weeklyWindow)
	start, ok := e.Anchor(posts)
	if !ok {
		e.logger.Warn("no posts look like a weekly menu", "week", week)
		return Week{}
	}
	candidates := posts[start:]

	for _, post := range candidates {
		if m, ok := e.patterns.Combined.FirstWhere(post.Message, weekIs(week)); ok {
			e.logger.Info("found post that matches a combined menu for this week",
				"week", week, "pattern", m.Pattern.Name)
			first, third := e.splitFloors(m)
			return Week{First: &first, Third: &third}
		}
	}
	e.logger.Debug("no combined menu for this week", "week", week)

	var w Week
	for _, post := range candidates {
		msg := post.Message
		switch {
		case w.First == nil && e.matchesWeek(e.patterns.FirstFloor, msg, week):
			e.logger.Info("found post that matches first floor menu for this week", "week", week)
			days := e.SplitDays(msg)
			w.First = &days
		case w.Third == nil && e.matchesWeek(e.patterns.ThirdFloor, msg, week):
			e.logger.Info("found post that matches third floor menu for this week", "week", week)
			days := e.SplitDays(msg)
			w.Third = &days
		case w.First == nil && w.Third == nil:
			if first, third, ok := e.headerless(post, ref); ok {
				e.logger.Info("found headerless combined menu", "week", week)
				return Week{First: &first, Third: &third}
			}
			e.logger.Debug("not a menu for this week", "week", week)
		}

		if w.First != nil && w.Third != nil {
			break
		}
	}

	if w.First == nil && w.Third == nil {
		if days, ok := e.undivided(candidates[0], week); ok {
			e.logger.Info("using undivided anchor post", "week", week)
			w.Combined = &days
		}
	}
	return w
}

func (e *Extractor) matchesWeek(set PatternSet, text string, week int) bool {
	_, ok := set.FirstWhere(text, weekIs(week))
	return ok
}

func (e *Extractor) splitFloors(m Match) (first, third Days) {
	firstText, _ := m.Group("first")
	thirdText, _ := m.Group("third")
	return e.SplitDays(firstText), e.SplitDays(thirdText)
}

// headerless accepts a post split by floor headers alone, but only if it is
// recent enough to belong to the current week and both floors are complete.
// A partial split could mix two different weeks.
func (e *Extractor) headerless(post types.Post, ref time.Time) (first, third Days, ok bool) {
	if !e.inCurrentWeek(post, ref) {
		return first, third, false
	}
	_, ok = e.patterns.Headerless.FirstWhere(post.Message, func(m Match) bool {
		first, third = e.splitFloors(m)
		if first.Complete() && third.Complete() {
			return true
		}
		e.logger.Debug("discarding partial headerless match", "pattern", m.Pattern.Name)
		return false
	})
	return first, third, ok
}

// undivided splits the anchor post by weekday without splitting it by
// floor. Only anchors with a week header for the target week qualify.
func (e *Extractor) undivided(anchor types.Post, week int) (Days, bool) {
	m, ok := e.patterns.Anchor.First(anchor.Message)
	if !ok || m.Pattern.Name != anchorWeekHeader || !weekIs(week)(m) {
		return Days{}, false
	}
	days := e.SplitDays(anchor.Message)
	return days, days.Any()
}

func (e *Extractor) inCurrentWeek(post types.Post, ref time.Time) bool {
	return DayDistance(post.CreatedTime, ref) <= 5+int(WeekdayOf(ref))
}

func weekIs(week int) func(Match) bool {
	return func(m Match) bool {
		s, ok := m.Group("weeknum")
		if !ok {
			return false
		}
		n, err := strconv.Atoi(s)
		return err == nil && n == week
	}
}

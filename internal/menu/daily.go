package menu

import (
	"strconv"
	"strings"
	"time"

	"github.com/ibeckermayer/lunchbot/internal/types"
)

// Daily looks for a combined post announcing the menu for the date of ref.
func (e *Extractor) Daily(posts []types.Post, ref time.Time) (Menu, bool) {
	for _, post := range Filter(e.logger, posts, ref, e.dailyWindow) {
		m, ok := e.patterns.Daily.FirstWhere(post.Message, func(m Match) bool {
			return sameDate(m, ref)
		})
		if !ok {
			continue
		}
		e.logger.Info("found post that matches a combined menu for this day", "pattern", m.Pattern.Name)
		e.logger.Debug("daily post", "message", post.Message)
		return floorsOf(m), true
	}
	return Menu{}, false
}

func sameDate(m Match, ref time.Time) bool {
	monthName, _ := m.Group("month")
	month, ok := ResolveMonth(monthName)
	if !ok || month != ref.Month() {
		return false
	}
	dayStr, _ := m.Group("day")
	day, err := strconv.Atoi(dayStr)
	return err == nil && day == ref.Day()
}

func floorsOf(m Match) Menu {
	var out Menu
	out.First = trimmedGroup(m, "first")
	out.Third = trimmedGroup(m, "third")
	return out
}

func trimmedGroup(m Match, name string) *string {
	s, ok := m.Group(name)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(TrimMultiline(s))
	if s == "" {
		return nil
	}
	return &s
}

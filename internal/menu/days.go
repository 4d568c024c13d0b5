package menu

import "strings"

// Days holds one fragment per weekday, Monday first. A nil entry means the
// day could not be found.
type Days [5]*string

// Complete reports whether every weekday has a fragment.
func (d Days) Complete() bool {
	for _, f := range d {
		if f == nil {
			return false
		}
	}
	return true
}

// Any reports whether at least one weekday has a fragment.
func (d Days) Any() bool {
	for _, f := range d {
		if f != nil {
			return true
		}
	}
	return false
}

// TrimMultiline strips surrounding whitespace from every line of text.
func TrimMultiline(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

// SplitDays cuts one floor's text into weekday fragments.
func (e *Extractor) SplitDays(text string) Days {
	var days Days
	for day := range days {
		body, ok := e.dayFragment(day, text)
		if !ok {
			e.logger.Warn("could not find menu for day", "day", day)
			e.logger.Debug("unmatched day text", "day", day, "text", text)
			continue
		}
		e.logger.Debug("found menu for day", "day", day)
		days[day] = &body
	}
	return days
}

func (e *Extractor) dayFragment(day int, text string) (string, bool) {
	m, ok := e.patterns.Days[day].match(text)
	if !ok {
		// The last day present in a post has no following weekday to stop
		// at, so it runs to the end unless a later weekday shows up anyway.
		m, ok = e.patterns.DaysToEnd[day].match(text)
		if !ok {
			return "", false
		}
		if body, _ := m.Group("body"); e.laterDayIn(day, body) {
			return "", false
		}
	}
	body, _ := m.Group("body")
	body = strings.TrimSpace(TrimMultiline(body))
	if body == "" {
		return "", false
	}
	if e.patterns.DayName.MatchString(body) {
		e.logger.Warn("day fragment starts with another weekday", "day", day, "fragment", firstLine(body))
		return "", false
	}
	return body, true
}

func (e *Extractor) laterDayIn(day int, text string) bool {
	upper := strings.ToUpper(text)
	for _, names := range dayNames[day+1:] {
		for _, n := range names {
			if strings.Contains(upper, n) {
				return true
			}
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Package digest turns an extracted menu into the announcement messages.
package digest

import (
	"github.com/ibeckermayer/lunchbot/internal/menu"
)

// Message headers and the fixed "not found" messages, in Slack markup.
const (
	FirstHeader    = "*First floor menu:*\n"
	ThirdHeader    = "*Third floor menu:*\n"
	CombinedHeader = "*Menu:*\n"

	FirstNotFound = "_Could not find a menu for the first floor today_ :disappointed:"
	ThirdNotFound = "_Could not find a menu for the third floor today_ :disappointed:"
)

// Build returns the messages to announce for weekday, first floor first.
// Weekends yield nothing. A floor without a menu gets its "not found"
// message, unless an undivided menu covers both floors.
func Build(m menu.Menu, weekday menu.Weekday) []string {
	if !weekday.Workday() {
		return nil
	}

	if m.First == nil && m.Third == nil && m.Combined != nil {
		return []string{CombinedHeader + *m.Combined}
	}

	messages := make([]string, 0, 2)
	if m.First != nil {
		messages = append(messages, FirstHeader+*m.First)
	} else {
		messages = append(messages, FirstNotFound)
	}
	if m.Third != nil {
		messages = append(messages, ThirdHeader+*m.Third)
	} else {
		messages = append(messages, ThirdNotFound)
	}
	return messages
}

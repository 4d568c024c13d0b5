package menu

import (
	"strings"
	"time"
)

var monthNames = map[string]time.Month{
	"januar":    time.January,
	"january":   time.January,
	"februar":   time.February,
	"february":  time.February,
	"mars":      time.March,
	"march":     time.March,
	"april":     time.April,
	"mai":       time.May,
	"may":       time.May,
	"juni":      time.June,
	"june":      time.June,
	"juli":      time.July,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"oktober":   time.October,
	"october":   time.October,
	"november":  time.November,
	"desember":  time.December,
	"december":  time.December,
}

// ResolveMonth maps a Norwegian or English month name to its month. ok is
// false for anything it does not recognise.
func ResolveMonth(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

package menu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternSet_FirstMatchWins(t *testing.T) {
	set := PatternSet{
		newPattern(GroupDay, "a", `(?P<x>foo)`),
		newPattern(GroupDay, "b", `(?P<x>fo+)`),
	}

	m, ok := set.First("xfooo")
	require.True(t, ok)
	assert.Equal(t, "a", m.Pattern.Name)
	x, ok := m.Group("x")
	assert.True(t, ok)
	assert.Equal(t, "foo", x)

	_, ok = set.First("bar")
	assert.False(t, ok)
}

func TestPatternSet_FirstWhereContinuesCascade(t *testing.T) {
	set := PatternSet{
		newPattern(GroupDay, "a", `(?P<n>\d+)`),
		newPattern(GroupDay, "b", `x(?P<n>\d+)`),
	}

	m, ok := set.FirstWhere("12 x34", func(m Match) bool {
		n, _ := m.Group("n")
		return n == "34"
	})
	require.True(t, ok)
	assert.Equal(t, "b", m.Pattern.Name)
}

func TestMatch_OptionalGroupAbsent(t *testing.T) {
	p := newPattern(GroupDay, "opt", `a(?P<opt>b)?c`)

	m, ok := p.match("ac")
	require.True(t, ok)
	_, ok = m.Group("opt")
	assert.False(t, ok)
}

func TestResolveMonth(t *testing.T) {
	tests := []struct {
		name string
		want time.Month
		ok   bool
	}{
		{"mai", time.May, true},
		{"May", time.May, true},
		{"DESEMBER", time.December, true},
		{" oktober ", time.October, true},
		{"mars", time.March, true},
		{"uke", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveMonth(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDailyHeader(t *testing.T) {
	p := DefaultPatterns()

	m, ok := p.Daily.First("Meny fredag 4. mai\n\nTRANSIT 1. etg:\nFisk\n\nEXPEDITION 3. etg:\nSuppe")
	require.True(t, ok)

	weekday, _ := m.Group("weekday")
	day, _ := m.Group("day")
	month, _ := m.Group("month")
	first, _ := m.Group("first")
	third, _ := m.Group("third")
	assert.Equal(t, "fredag", weekday)
	assert.Equal(t, "4", day)
	assert.Equal(t, "mai", month)
	assert.Equal(t, "Fisk", first)
	assert.Equal(t, "Suppe", third)
}

func TestClassify(t *testing.T) {
	p := DefaultPatterns()

	assert.Equal(t, KindFirst, p.Classify(firstFloorWeek12))
	assert.Equal(t, KindThird, p.Classify("Menu Expeditionen week 51:\nMonday\nSoup"))
	assert.Equal(t, KindCombined, p.Classify(
		"Meny uke 12\n\nTRANSIT:\nMANDAG\nA\n\nEXPEDITION:\nMANDAG\nB"))
	assert.Equal(t, KindDailyComb, p.Classify(
		"Meny fredag 4. mai\n\nTRANSIT 1. etg:\nFisk\n\nEXPEDITION 3. etg:\nSuppe"))
	assert.Equal(t, KindHeaderless, p.Classify(
		"TRANSIT:\nMANDAG\nA\n\nEXPEDITION:\nMANDAG\nB"))
	assert.Equal(t, KindNone, p.Classify("Husk quiz på fredag!"))
}

func TestDayName(t *testing.T) {
	p := DefaultPatterns()

	assert.True(t, p.DayName.MatchString("onsdag: fisk"))
	assert.True(t, p.DayName.MatchString("WEDNESAY"))
	assert.False(t, p.DayName.MatchString("Fisk på mandag"))
}

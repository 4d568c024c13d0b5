package menu

import (
	"regexp"
	"strings"
)

// Group tags a pattern with the family it belongs to.
type Group string

const (
	GroupDaily      Group = "daily"
	GroupCombined   Group = "combined"
	GroupHeaderless Group = "headerless"
	GroupFirstFloor Group = "first"
	GroupThirdFloor Group = "third"
	GroupAnchor     Group = "anchor"
	GroupDay        Group = "day"
)

// Header fragments. Posts have been written by hand since 2016, so every
// variant here was seen at least once in a real post.
const (
	combinedHeader = `((Meny(er)?|Menus?) (uke|week)|Week|Uke) (?P<weeknum>\d+)[^\n]*`
	dailyHeader    = `(Meny(er)?|Menus?) (?P<weekday>\pL+)?\s?((?P<day>\d+)\.?)\s?(?P<month>\pL+)[^\n]*`

	firstHeaderA = `GATE 1 & 2 \(TRANSIT,? 1st FLOOR\):?`
	firstHeaderB = `.{0,5}?TRANSIT(.*?1.*?(etg|etasje|etage))?:?`
	thirdHeaderA = `[^\n]*(EXPEDITI?ON(EN)?|EXPEDISJON(EN)?|Ekspedisjon(en)?) \(3rd FLOOR\):?`
	thirdHeaderB = `[^\n]*(EXPEDITI?ON(EN)?|EXPEDISJON(EN)?|Ekspedisjon(en)?)(.*?3.*?(etg|etasje|etage))?:?`

	// Flags: floor patterns are line oriented, combined patterns span lines.
	floorFlags    = `(?i)`
	combinedFlags = `(?is)`
)

const anchorWeekHeader = "week-header"

// Weekday spellings, Norwegian first. WENDSDAY and WEDNESAY are typos that
// made it into published menus.
var dayNames = [5][]string{
	{"MANDAG", "MONDAY"},
	{"TIRSDAG", "TUESDAY"},
	{"ONSDAG", "WEDNESDAY", "WENDSDAY", "WEDNESAY"},
	{"TORSDAG", "THURSDAY"},
	{"FREDAG", "FRIDAY"},
}

// Pattern is a compiled regular expression tagged with its group.
type Pattern struct {
	Group Group
	Name  string
	re    *regexp.Regexp
}

func newPattern(group Group, name, expr string) Pattern {
	return Pattern{Group: group, Name: name, re: regexp.MustCompile(expr)}
}

// String returns the source expression.
func (p Pattern) String() string {
	return p.re.String()
}

// Match holds the named groups captured by a successful pattern.
type Match struct {
	Pattern Pattern
	groups  map[string]string
}

// Group returns the text captured by the named group. ok is false when the
// group did not participate in the match.
func (m Match) Group(name string) (string, bool) {
	s, ok := m.groups[name]
	return s, ok
}

// match tries the pattern against text. Patterns carry their own anchoring.
func (p Pattern) match(text string) (Match, bool) {
	loc := p.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return Match{}, false
	}
	groups := make(map[string]string)
	for i, name := range p.re.SubexpNames() {
		if name == "" || loc[2*i] < 0 {
			continue
		}
		groups[name] = text[loc[2*i]:loc[2*i+1]]
	}
	return Match{Pattern: p, groups: groups}, true
}

// PatternSet is an ordered cascade: the first pattern that matches wins.
type PatternSet []Pattern

// First returns the match of the first pattern in the set that matches text.
func (s PatternSet) First(text string) (Match, bool) {
	return s.FirstWhere(text, nil)
}

// FirstWhere is First restricted to matches accepted by keep. A rejected
// match does not stop the cascade.
func (s PatternSet) FirstWhere(text string, keep func(Match) bool) (Match, bool) {
	for _, p := range s {
		m, ok := p.match(text)
		if !ok {
			continue
		}
		if keep == nil || keep(m) {
			return m, true
		}
	}
	return Match{}, false
}

// Matches reports whether any pattern in the set matches text.
func (s PatternSet) Matches(text string) bool {
	_, ok := s.First(text)
	return ok
}

// Patterns is the full, immutable table used by the extractor. Build it once
// with DefaultPatterns and share it.
type Patterns struct {
	Daily      PatternSet
	Combined   PatternSet
	Headerless PatternSet
	FirstFloor PatternSet
	ThirdFloor PatternSet
	Anchor     PatternSet

	// Days holds one boundary pattern per weekday, Monday first. DaysToEnd
	// holds the fallback used when no later weekday follows.
	Days      [5]Pattern
	DaysToEnd [5]Pattern

	// DayName matches a weekday token at the start of a fragment.
	DayName *regexp.Regexp
}

// floorPairs builds the four header orderings in priority order: first then
// third with variant A, then B, then third then first with A, then B.
func floorPairs(group Group, flags, header string) PatternSet {
	prefix := flags + `^`
	if header != "" {
		prefix += header + `\s+`
	}
	return PatternSet{
		newPattern(group, "first-third-a", prefix+
			firstHeaderA+`\s*(?P<first>.*?)\s+`+
			thirdHeaderA+`\s*(?P<third>.*)`),
		newPattern(group, "first-third-b", prefix+
			firstHeaderB+`\s*(?P<first>.*?)\s+`+
			thirdHeaderB+`\s*(?P<third>.*)`),
		newPattern(group, "third-first-a", prefix+
			thirdHeaderA+`\s*(?P<third>.*?)\s+`+
			firstHeaderA+`\s*(?P<first>.*)`),
		newPattern(group, "third-first-b", prefix+
			thirdHeaderB+`\s*(?P<third>.*?)\s+`+
			firstHeaderB+`\s*(?P<first>.*)`),
	}
}

func alternation(days [][]string) string {
	var names []string
	for _, d := range days {
		names = append(names, d...)
	}
	return "(" + strings.Join(names, "|") + ")"
}

// DefaultPatterns compiles the pattern tables.
func DefaultPatterns() *Patterns {
	p := &Patterns{
		Daily:      floorPairs(GroupDaily, combinedFlags, dailyHeader),
		Combined:   floorPairs(GroupCombined, combinedFlags, combinedHeader),
		Headerless: floorPairs(GroupHeaderless, combinedFlags, ""),
		FirstFloor: PatternSet{
			newPattern(GroupFirstFloor, "week-1-etg", floorFlags+
				`^(Meny|Menu) (uke|week) (?P<weeknum>\d+)(\D|\n)(.|\n)*?1.*?(etg|etasje|etage):?`),
			newPattern(GroupFirstFloor, "transit-week", floorFlags+
				`^(Meny|Menu) Transit (uke|week) (?P<weeknum>\d+):?`),
		},
		ThirdFloor: PatternSet{
			newPattern(GroupThirdFloor, "week-3-etg", floorFlags+
				`^Meny (uke|week) (?P<weeknum>\d+)(\D|\n)(.|\n)*?3.*?(etg|etasje|etage):?`),
			newPattern(GroupThirdFloor, "expeditionen-week", floorFlags+
				`^(Meny|Menu) Expeditionen (uke|week) (?P<weeknum>\d+):?`),
		},
		Anchor: PatternSet{
			newPattern(GroupAnchor, anchorWeekHeader, floorFlags+
				`^\s*((Meny(er)?|Menus?) ((Transit|Expeditionen) )?(uke|week)|Week|Uke) (?P<weeknum>\d+)`),
			newPattern(GroupAnchor, "first-floor-header", combinedFlags+`^\s*(`+firstHeaderA+`|`+firstHeaderB+`)`),
			newPattern(GroupAnchor, "third-floor-header", floorFlags+`^\s*`+thirdHeaderB),
		},
	}

	for day := range dayNames {
		name := alternation(dayNames[day : day+1])
		body := `[\s:.\-–]*(?P<body>.*?)`
		if day < 4 {
			next := alternation(dayNames[day+1:])
			p.Days[day] = newPattern(GroupDay, strings.ToLower(dayNames[day][0]),
				combinedFlags+name+body+`\s*\n\s*[^\n]*`+next)
		} else {
			p.Days[day] = newPattern(GroupDay, strings.ToLower(dayNames[day][0]),
				combinedFlags+name+body+`\s*$`)
		}
		p.DaysToEnd[day] = newPattern(GroupDay, strings.ToLower(dayNames[day][0])+"-to-end",
			combinedFlags+name+body+`\s*$`)
	}
	p.DayName = regexp.MustCompile(`(?i)^` + alternation(dayNames[:]))

	return p
}

// Kind names the shape of a menu post, as used for the archive and the
// regression corpus file names.
type Kind string

const (
	KindNone       Kind = ""
	KindCombined   Kind = "combined"
	KindFirst      Kind = "first"
	KindThird      Kind = "third"
	KindDailyComb  Kind = "dailycomb"
	KindHeaderless Kind = "headerless"
)

// Classify reports which kind of menu post text looks like.
func (p *Patterns) Classify(text string) Kind {
	switch {
	case p.Combined.Matches(text):
		return KindCombined
	case p.FirstFloor.Matches(text):
		return KindFirst
	case p.ThirdFloor.Matches(text):
		return KindThird
	case p.Daily.Matches(text):
		return KindDailyComb
	case p.Headerless.Matches(text):
		return KindHeaderless
	}
	return KindNone
}

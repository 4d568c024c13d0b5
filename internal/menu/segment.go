package menu

import "strconv"

// Segment is one weekly menu post taken apart on its own, without a
// reference date. Week is zero when the post does not state its week.
type Segment struct {
	Kind Kind
	Week int
	Days Week
}

// Segment splits a single weekly menu post by floor and weekday. Daily posts
// and posts that are not menus report ok == false.
func (e *Extractor) Segment(text string) (Segment, bool) {
	kind := e.patterns.Classify(text)
	seg := Segment{Kind: kind}

	switch kind {
	case KindCombined, KindHeaderless:
		set := e.patterns.Combined
		if kind == KindHeaderless {
			set = e.patterns.Headerless
		}
		m, _ := set.First(text)
		first, third := e.splitFloors(m)
		seg.Week = weekOf(m)
		seg.Days = Week{First: &first, Third: &third}
	case KindFirst:
		m, _ := e.patterns.FirstFloor.First(text)
		days := e.SplitDays(text)
		seg.Week = weekOf(m)
		seg.Days = Week{First: &days}
	case KindThird:
		m, _ := e.patterns.ThirdFloor.First(text)
		days := e.SplitDays(text)
		seg.Week = weekOf(m)
		seg.Days = Week{Third: &days}
	default:
		return seg, false
	}
	return seg, true
}

func weekOf(m Match) int {
	s, ok := m.Group("weeknum")
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	e := NewExtractor(DefaultPatterns())

	tests := []struct {
		file  string
		kind  Kind
		week  int
		first bool
		third bool
	}{
		{"170320-first.txt", KindFirst, 12, true, false},
		{"170320-third.txt", KindThird, 12, false, true},
		{"180108-combined.txt", KindCombined, 2, true, true},
		{"180514-combined.txt", KindCombined, 20, true, true},
		{"161216-third.txt", KindThird, 51, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			seg, ok := e.Segment(historicalMessage(t, tt.file))
			require.True(t, ok)
			assert.Equal(t, tt.kind, seg.Kind)
			assert.Equal(t, tt.week, seg.Week)
			assert.Equal(t, tt.first, seg.Days.First != nil)
			assert.Equal(t, tt.third, seg.Days.Third != nil)
			assert.Nil(t, seg.Days.Combined)
		})
	}
}

func TestSegment_Headerless(t *testing.T) {
	e := NewExtractor(DefaultPatterns())

	seg, ok := e.Segment(headerlessWeek)
	require.True(t, ok)
	assert.Equal(t, KindHeaderless, seg.Kind)
	assert.Zero(t, seg.Week)
	require.NotNil(t, seg.Days.Third)
	assert.Equal(t, "H", *seg.Days.Third[Wednesday])
}

func TestSegment_NotWeekly(t *testing.T) {
	e := NewExtractor(DefaultPatterns())

	_, ok := e.Segment(historicalMessage(t, "180503-dailycomb.txt"))
	assert.False(t, ok)

	_, ok = e.Segment("Husk quiz på fredag!")
	assert.False(t, ok)
}

func historicalMessage(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "historical", name))
	require.NoError(t, err)
	return string(data)
}

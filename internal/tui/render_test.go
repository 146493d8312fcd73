package tui

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/core/annotate"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestLineHelpers(t *testing.T) {
	text := "one\ntwo\nthree"
	starts := lineStarts(text)
	require.Equal(t, []int{0, 4, 8}, starts)

	assert.Equal(t, 0, lineOf(starts, 0))
	assert.Equal(t, 0, lineOf(starts, 3)) // the newline belongs to line 0
	assert.Equal(t, 1, lineOf(starts, 4))
	assert.Equal(t, 2, lineOf(starts, 12))
}

func TestMoveByLine(t *testing.T) {
	text := "one\ntwo\nthree"

	t.Run("down preserves column", func(t *testing.T) {
		assert.Equal(t, 6, moveByLine(text, 2, 1)) // "e" in one -> "o" in two
	})

	t.Run("up preserves column", func(t *testing.T) {
		assert.Equal(t, 2, moveByLine(text, 6, -1))
	})

	t.Run("clamps at short line", func(t *testing.T) {
		// Column 4 does not exist on line "two"; land on its newline.
		assert.Equal(t, 7, moveByLine(text, 12, -1))
	})

	t.Run("clamps at boundaries", func(t *testing.T) {
		assert.Equal(t, 0, moveByLine(text, 0, -5))
		got := moveByLine(text, 0, 99)
		assert.Equal(t, 8, got, "lands at column 0 of the last line")
	})
}

func TestRuneMovement(t *testing.T) {
	text := "a→b"

	next := nextRune(text, 1)
	assert.Equal(t, 4, next, "arrow is three bytes")
	assert.Equal(t, 1, prevRune(text, 4))

	assert.Equal(t, len(text), nextRune(text, len(text)))
	assert.Equal(t, 0, prevRune(text, 0))
}

func TestRenderAnnotated_PreservesText(t *testing.T) {
	text := "Risk A. Risk B."
	set := annotate.NewSet()
	_, err := set.AddRejection(annotate.Range{Start: 0, End: 6}, "Risk A")
	require.NoError(t, err)
	id, err := set.AddComment(annotate.Range{Start: 8, End: 14}, "Risk B", "check")
	require.NoError(t, err)

	got := renderAnnotated(text, set, id, 3, 10, 5)
	assert.Equal(t, text, stripANSI(got), "styling must not alter the text")

	plain := renderAnnotated(text, annotate.NewSet(), "", -1, -1, 0)
	assert.Equal(t, text, stripANSI(plain))
}

func TestRenderAnnotated_EmptyText(t *testing.T) {
	got := renderAnnotated("", annotate.NewSet(), "", -1, -1, 0)
	assert.NotEmpty(t, got, "empty document still renders a cursor cell")
}

func TestSelectionBounds(t *testing.T) {
	m := New(Options{})
	m.content.SetText("hello world")
	m.visual = true
	m.anchor = 6
	m.cursors[tabContent] = 2

	lo, hi := m.selectionBounds()
	assert.Equal(t, 2, lo, "reversed selection is normalized")
	assert.Equal(t, 7, hi, "cursor rune is included")

	raw, ok := m.captureSelection()
	require.True(t, ok)
	assert.Equal(t, "llo w", raw)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "longer...", truncate("longer text here", 9))
}

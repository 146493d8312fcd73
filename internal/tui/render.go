package tui

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/redlinehq/redline/internal/core/annotate"
	"github.com/redlinehq/redline/internal/core/styles"
)

// lineStarts returns the byte offset of the first character of each line.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i+1 <= len(text) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf returns the index of the line containing the given offset.
func lineOf(starts []int, offset int) int {
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
	return i - 1
}

// moveByLine returns the offset one line up or down from the given offset,
// preserving the column where possible.
func moveByLine(text string, offset, delta int) int {
	starts := lineStarts(text)
	line := lineOf(starts, offset)
	col := offset - starts[line]

	target := line + delta
	if target < 0 {
		target = 0
	}
	if target >= len(starts) {
		target = len(starts) - 1
	}

	lineEnd := len(text)
	if target+1 < len(starts) {
		lineEnd = starts[target+1] - 1 // offset of the newline
	}

	moved := starts[target] + col
	if moved > lineEnd {
		moved = lineEnd
	}
	return clampOffset(text, moved)
}

// nextRune returns the offset just past the rune at the given offset.
func nextRune(text string, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	_, size := utf8.DecodeRuneInString(text[offset:])
	return offset + size
}

// prevRune returns the offset of the rune before the given offset.
func prevRune(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(text[:offset])
	return offset - size
}

func clampOffset(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	return offset
}

// renderAnnotated renders the canonical text with annotation, selection, and
// cursor styling. Runs from the interval partition keep terminal styles flat;
// selection and cursor boundaries are added as extra cuts so every segment
// carries exactly one style.
func renderAnnotated(text string, set *annotate.Set, hoveredID string, selLo, selHi, cursor int) string {
	if text == "" {
		// Empty document still shows a cursor cell.
		return styles.CursorStyle.Render(" ")
	}

	runs := annotate.Partition(text, set)

	cuts := map[int]struct{}{0: {}, len(text): {}}
	for _, run := range runs {
		cuts[run.Range.Start] = struct{}{}
		cuts[run.Range.End] = struct{}{}
	}
	if selLo < selHi {
		cuts[clampOffset(text, selLo)] = struct{}{}
		cuts[clampOffset(text, selHi)] = struct{}{}
	}
	if cursor >= 0 && cursor < len(text) {
		cuts[cursor] = struct{}{}
		cuts[nextRune(text, cursor)] = struct{}{}
	}

	offsets := make([]int, 0, len(cuts))
	for off := range cuts {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)

	var b strings.Builder
	for i := 0; i+1 < len(offsets); i++ {
		start, end := offsets[i], offsets[i+1]
		segment := text[start:end]
		b.WriteString(styleSegment(segment, runAt(runs, start), hoveredID, selLo, selHi, cursor, start))
	}
	return b.String()
}

// runAt returns the partition run containing the given offset.
func runAt(runs []annotate.Run, offset int) annotate.Run {
	for _, run := range runs {
		if run.Range.Contains(offset) {
			return run
		}
	}
	return annotate.Run{}
}

// styleSegment picks a single style for a segment. Selection wins over the
// cursor, which wins over annotation styling.
func styleSegment(segment string, run annotate.Run, hoveredID string, selLo, selHi, cursor, start int) string {
	switch {
	case selLo < selHi && start >= selLo && start < selHi:
		return renderLines(styles.SelectionStyle, segment)
	case start == cursor:
		return renderLines(styles.CursorStyle, segment)
	case len(run.Active) > 1:
		return renderLines(styles.OverlapStyle, segment)
	case run.HasKind(annotate.KindRejection):
		if run.Hovered(hoveredID) {
			return renderLines(styles.RejectionEmphasized, segment)
		}
		return renderLines(styles.RejectionStyle, segment)
	case run.HasKind(annotate.KindComment):
		if run.Hovered(hoveredID) {
			return renderLines(styles.CommentEmphasized, segment)
		}
		return renderLines(styles.CommentStyle, segment)
	default:
		return segment
	}
}

// renderLines styles each line of a segment separately so escape sequences
// never span a newline; viewports clip by line.
func renderLines(style lipgloss.Style, segment string) string {
	if !strings.Contains(segment, "\n") {
		return style.Render(segment)
	}
	lines := strings.Split(segment, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

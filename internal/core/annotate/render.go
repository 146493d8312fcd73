package annotate

import (
	"sort"
	"strings"
)

// marker is one endpoint of an annotated range prepared for splicing.
type marker struct {
	offset int
	close  bool
	seq    int // insertion order of the owning annotation
	tag    string
}

// Render produces the canonical text with every annotated range wrapped in
// tagger-produced open/close tags. Output is pure and deterministic for a
// given (text, set, hoveredID) triple.
//
// Markers at the same offset emit close tags before open tags, so adjacent
// ranges (one ending exactly where the next begins) produce non-crossing
// markup. Genuinely crossing ranges produce improperly nested tags; the
// visual result is still correct because styling is additive per character
// run. Use RenderPartitioned for strictly well-formed output.
func Render(canonical string, set *Set, hoveredID string, tagger Tagger) string {
	markers := collectMarkers(canonical, set, hoveredID, tagger)
	if len(markers) == 0 {
		return tagger.Escape(canonical)
	}

	sort.SliceStable(markers, func(i, j int) bool {
		a, b := markers[i], markers[j]
		if a.offset != b.offset {
			return a.offset < b.offset
		}
		if a.close != b.close {
			return a.close
		}
		// Closes unwind in reverse insertion order so that identical
		// ranges nest rather than interleave.
		if a.close {
			return a.seq > b.seq
		}
		return a.seq < b.seq
	})

	var b strings.Builder
	pos := 0
	for _, m := range markers {
		if m.offset > pos {
			b.WriteString(tagger.Escape(canonical[pos:m.offset]))
			pos = m.offset
		}
		b.WriteString(m.tag)
	}
	if pos < len(canonical) {
		b.WriteString(tagger.Escape(canonical[pos:]))
	}
	return b.String()
}

// RenderHTML renders with the default HTML tagger. This is the markup
// handed to a web presentation layer.
func RenderHTML(canonical string, set *Set, hoveredID string) string {
	return Render(canonical, set, hoveredID, HTMLTagger{})
}

// RenderANSI renders with the terminal tagger for styled plain-text output.
func RenderANSI(canonical string, set *Set, hoveredID string) string {
	return Render(canonical, set, hoveredID, ANSITagger{})
}

func collectMarkers(canonical string, set *Set, hoveredID string, tagger Tagger) []marker {
	if set == nil || set.Len() == 0 {
		return nil
	}
	markers := make([]marker, 0, set.Len()*2)
	for seq, a := range set.List() {
		if a.Range.Validate(len(canonical)) != nil {
			continue // stale range from a replaced text, nothing sane to draw
		}
		markers = append(markers,
			marker{offset: a.Range.Start, seq: seq, tag: tagger.Open(a.Kind, a.ID, a.ID == hoveredID)},
			marker{offset: a.Range.End, close: true, seq: seq, tag: tagger.Close(a.Kind, a.ID)},
		)
	}
	return markers
}

// Run is a maximal stretch of canonical text covered by a constant set of
// annotations. Runs partition the text: concatenating Run.Text over all runs
// reproduces the canonical text exactly.
type Run struct {
	Range  Range
	Text   string
	Active []Annotation // annotations covering this run, insertion order
}

// Hovered reports whether any active annotation matches the hovered id.
func (r Run) Hovered(hoveredID string) bool {
	if hoveredID == "" {
		return false
	}
	for _, a := range r.Active {
		if a.ID == hoveredID {
			return true
		}
	}
	return false
}

// HasKind reports whether any active annotation is of the given kind.
func (r Run) HasKind(kind Kind) bool {
	for _, a := range r.Active {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// Partition splits the canonical text into non-overlapping runs, each
// carrying the set of annotations active over it. Overlapping and nested
// ranges are flattened into disjoint intervals, which is what a renderer
// needs to emit strictly well-formed markup or non-nesting terminal styles.
func Partition(canonical string, set *Set) []Run {
	offsets := map[int]struct{}{0: {}, len(canonical): {}}
	var valid []Annotation
	if set != nil {
		for _, a := range set.List() {
			if a.Range.Validate(len(canonical)) != nil || a.Range.Len() == 0 {
				continue
			}
			valid = append(valid, a)
			offsets[a.Range.Start] = struct{}{}
			offsets[a.Range.End] = struct{}{}
		}
	}

	cuts := make([]int, 0, len(offsets))
	for off := range offsets {
		cuts = append(cuts, off)
	}
	sort.Ints(cuts)

	runs := make([]Run, 0, len(cuts))
	for i := 0; i+1 < len(cuts); i++ {
		start, end := cuts[i], cuts[i+1]
		if start == end {
			continue
		}
		run := Run{
			Range: Range{Start: start, End: end},
			Text:  canonical[start:end],
		}
		for _, a := range valid {
			if a.Range.Start <= start && end <= a.Range.End {
				run.Active = append(run.Active, a)
			}
		}
		runs = append(runs, run)
	}
	return runs
}

// RenderPartitionedHTML emits strictly well-formed markup: each run with at
// least one active annotation is wrapped in a single span carrying the union
// of active classes and ids. This is the opt-in alternative to Render for
// callers that cannot tolerate improperly nested tags.
func RenderPartitionedHTML(canonical string, set *Set, hoveredID string) string {
	var b strings.Builder
	tagger := HTMLTagger{}
	for _, run := range Partition(canonical, set) {
		if len(run.Active) == 0 {
			b.WriteString(tagger.Escape(run.Text))
			continue
		}
		classes := make([]string, 0, 3)
		if run.HasKind(KindComment) {
			classes = append(classes, ClassComment)
		}
		if run.HasKind(KindRejection) {
			classes = append(classes, ClassRejection)
		}
		if run.Hovered(hoveredID) {
			classes = append(classes, ClassHover)
		}
		ids := make([]string, 0, len(run.Active))
		for _, a := range run.Active {
			ids = append(ids, a.ID)
		}
		b.WriteString(`<span class="` + strings.Join(classes, " ") + `" data-ids="`)
		b.WriteString(tagger.Escape(strings.Join(ids, ",")))
		b.WriteString(`">`)
		b.WriteString(tagger.Escape(run.Text))
		b.WriteString(`</span>`)
	}
	return b.String()
}

package annotate

import "strings"

// Resolve maps a raw selected string back to a range in the canonical text
// using a left-to-right first-match substring search.
//
// The raw string comes from the UI's live selection, which operates over
// rendered (possibly already span-wrapped) text. When the selected text
// occurs more than once in the document, the range of the first occurrence
// is returned even if the user selected a later one. When the string is not
// found at all - for example the selection crossed a highlight boundary so
// the visible text differs from the canonical text - Resolve reports false
// and the caller discards the attempted annotation.
func Resolve(rawSelected, canonical string) (Range, bool) {
	if rawSelected == "" {
		return Range{}, false
	}
	idx := strings.Index(canonical, rawSelected)
	if idx < 0 {
		return Range{}, false
	}
	return Range{Start: idx, End: idx + len(rawSelected)}, true
}

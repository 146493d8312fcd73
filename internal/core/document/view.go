// Package document holds per-view review state: one canonical text, its
// annotation set, the transient selection, and the hover focus. Two views
// exist at runtime (content and report); each owns an isolated instance.
package document

import (
	"github.com/rs/zerolog/log"

	"github.com/redlinehq/redline/internal/core/annotate"
)

// View is the mutable state of a single document view. All mutation is
// single-threaded; callers drive it from UI events.
type View struct {
	Name string // "content" or "report", used for logging only

	text  string
	set   *annotate.Set
	hover string

	// Transient active selection, cleared after a successful add.
	selRange annotate.Range
	selText  string
	selected bool
}

// NewView creates an empty view.
func NewView(name string) *View {
	return &View{Name: name, set: annotate.NewSet()}
}

// Text returns the canonical text.
func (v *View) Text() string {
	return v.text
}

// Annotations returns the view's annotation set.
func (v *View) Annotations() *annotate.Set {
	return v.set
}

// SetText wholesale-replaces the canonical text. Existing annotations are
// cleared: their offsets index the old text and would be meaningless against
// the new one. The active selection and hover state are cleared too.
func (v *View) SetText(text string) {
	v.text = text
	v.set.Clear()
	v.ClearSelection()
	v.hover = ""

	log.Debug().
		Str("view", v.Name).
		Int("length", len(text)).
		Msg("document: replaced canonical text")
}

// Select resolves a raw selected string against the canonical text and, on
// success, holds it as the active selection. A failed resolution clears any
// previous selection and reports false; no error surfaces to the user.
func (v *View) Select(rawSelected string) bool {
	r, ok := annotate.Resolve(rawSelected, v.text)
	if !ok {
		v.ClearSelection()
		return false
	}
	v.selRange = r
	v.selText = v.text[r.Start:r.End]
	v.selected = true
	return true
}

// Selection returns the active selection range and text.
func (v *View) Selection() (annotate.Range, string, bool) {
	return v.selRange, v.selText, v.selected
}

// ClearSelection drops the active selection.
func (v *View) ClearSelection() {
	v.selRange = annotate.Range{}
	v.selText = ""
	v.selected = false
}

// Comment adds a comment annotation over the active selection and clears
// the selection on success.
func (v *View) Comment(note string) (string, error) {
	if !v.selected {
		return "", annotate.ErrNoSelection
	}
	r := v.selRange
	id, err := v.set.AddComment(r, v.selText, note)
	if err != nil {
		return "", err
	}
	v.ClearSelection()

	log.Debug().
		Str("view", v.Name).
		Str("id", id).
		Int("start", r.Start).
		Int("end", r.End).
		Msg("document: added comment")
	return id, nil
}

// Reject adds a rejection annotation over the active selection and clears
// the selection on success.
func (v *View) Reject() (string, error) {
	if !v.selected {
		return "", annotate.ErrNoSelection
	}
	id, err := v.set.AddRejection(v.selRange, v.selText)
	if err != nil {
		return "", err
	}
	v.ClearSelection()

	log.Debug().
		Str("view", v.Name).
		Str("id", id).
		Msg("document: added rejection")
	return id, nil
}

// Remove deletes an annotation by id; unknown ids are a no-op.
func (v *View) Remove(id string) {
	v.set.Remove(id)
}

// Hover marks the annotation under pointer/cursor focus. At most one
// annotation is hovered at a time.
func (v *View) Hover(id string) {
	v.hover = id
}

// Unhover clears the hover focus.
func (v *View) Unhover() {
	v.hover = ""
}

// Hovered returns the hovered annotation id, or empty.
func (v *View) Hovered() string {
	return v.hover
}

// Markup renders the canonical text with annotation overlays through the
// given tagger.
func (v *View) Markup(tagger annotate.Tagger) string {
	return annotate.Render(v.text, v.set, v.hover, tagger)
}

// MarkupHTML renders with the default HTML tagger.
func (v *View) MarkupHTML() string {
	return annotate.RenderHTML(v.text, v.set, v.hover)
}

// Runs partitions the canonical text into disjoint annotated runs for
// presenters that cannot nest styles.
func (v *View) Runs() []annotate.Run {
	return annotate.Partition(v.text, v.set)
}

// AnnotationAt returns the id of the first annotation (insertion order)
// whose range contains the byte offset, or empty. Used to map a cursor
// position back to an annotation for hover focus.
func (v *View) AnnotationAt(offset int) string {
	for _, a := range v.set.List() {
		if a.Range.Contains(offset) {
			return a.ID
		}
	}
	return ""
}

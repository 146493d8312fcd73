// Package annotate implements the range-annotation engine: resolving text
// selections to offsets, storing annotated ranges, and rendering canonical
// text with overlay markup.
package annotate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for annotation operations.
var (
	ErrEmptyNote   = errors.New("comment note is empty")
	ErrNoSelection = errors.New("no active selection")
)

// Kind discriminates annotation variants.
type Kind int

const (
	KindComment Kind = iota
	KindRejection
)

// String returns the string representation of the annotation kind.
func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindRejection:
		return "rejection"
	default:
		return "unknown"
	}
}

// Range is a half-open interval [Start, End) of byte offsets into a
// canonical text. Offsets always index the canonical string, never any
// rendered derivative.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsZero reports whether the range is the zero value (no selection).
func (r Range) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// Contains reports whether the byte offset falls inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Validate checks the range invariants against a canonical text length.
func (r Range) Validate(textLen int) error {
	if r.Start < 0 || r.End < r.Start || r.End > textLen {
		return fmt.Errorf("invalid range [%d, %d) for text of length %d", r.Start, r.End, textLen)
	}
	return nil
}

// Annotation is a single annotated span of the canonical text. Kind selects
// the variant; Note is only meaningful for comments.
type Annotation struct {
	ID           string
	Kind         Kind
	Range        Range
	SelectedText string // canonical text at Range, cached at creation time
	Note         string // comment payload, empty for rejections
}

// Set is an insertion-ordered collection of annotations keyed by id.
// Overlapping and nested ranges are permitted.
type Set struct {
	byID  map[string]int // id -> index into order
	order []Annotation
}

// NewSet returns an empty annotation set.
func NewSet() *Set {
	return &Set{byID: make(map[string]int)}
}

// AddComment appends a new comment annotation and returns its id.
// The note must be non-empty after trimming and the selection must be
// present (non-zero range with its selected text).
func (s *Set) AddComment(r Range, selected, note string) (string, error) {
	if strings.TrimSpace(note) == "" {
		return "", ErrEmptyNote
	}
	if err := s.checkSelection(r, selected); err != nil {
		return "", err
	}
	return s.append(Annotation{
		ID:           uuid.NewString(),
		Kind:         KindComment,
		Range:        r,
		SelectedText: selected,
		Note:         note,
	}), nil
}

// AddRejection appends a new rejection annotation and returns its id.
func (s *Set) AddRejection(r Range, selected string) (string, error) {
	if err := s.checkSelection(r, selected); err != nil {
		return "", err
	}
	return s.append(Annotation{
		ID:           uuid.NewString(),
		Kind:         KindRejection,
		Range:        r,
		SelectedText: selected,
	}), nil
}

// Remove deletes the annotation with the given id. Removing an unknown id
// is a no-op; both kinds share this single removal path.
func (s *Set) Remove(id string) {
	idx, ok := s.byID[id]
	if !ok {
		return
	}
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	delete(s.byID, id)
	for i := idx; i < len(s.order); i++ {
		s.byID[s.order[i].ID] = i
	}
}

// Get returns the annotation with the given id.
func (s *Set) Get(id string) (Annotation, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return Annotation{}, false
	}
	return s.order[idx], true
}

// List returns all annotations in insertion order.
func (s *Set) List() []Annotation {
	out := make([]Annotation, len(s.order))
	copy(out, s.order)
	return out
}

// Comments returns the comment annotations in insertion order.
func (s *Set) Comments() []Annotation {
	return s.filter(KindComment)
}

// Rejections returns the rejection annotations in insertion order.
func (s *Set) Rejections() []Annotation {
	return s.filter(KindRejection)
}

// Len returns the number of annotations in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// Clear removes all annotations.
func (s *Set) Clear() {
	s.order = nil
	s.byID = make(map[string]int)
}

func (s *Set) filter(kind Kind) []Annotation {
	var out []Annotation
	for _, a := range s.order {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func (s *Set) checkSelection(r Range, selected string) error {
	if selected == "" || r.Len() != len(selected) {
		return ErrNoSelection
	}
	return nil
}

func (s *Set) append(a Annotation) string {
	s.byID[a.ID] = len(s.order)
	s.order = append(s.order, a)
	return a.ID
}

package annotate

import (
	"html"
	"strings"
)

// Tagger produces the tag text spliced around annotated ranges and escapes
// the literal segments between them. Escaping happens per segment, before
// the tags are interleaved, so inserted tag text is never corrupted.
type Tagger interface {
	Open(kind Kind, id string, emphasized bool) string
	Close(kind Kind, id string) string
	Escape(segment string) string
}

var (
	_ Tagger = HTMLTagger{}
	_ Tagger = ANSITagger{}
)

// CSS class hooks exposed by the HTML tagger. A presentation layer styles
// annotated spans through these classes and maps pointer events back to an
// annotation via the data-id attribute.
const (
	ClassComment   = "rl-comment"
	ClassRejection = "rl-rejection"
	ClassHover     = "rl-hover"
)

// HTMLTagger wraps annotated ranges in styled, identifiable spans.
type HTMLTagger struct{}

// Open returns the opening span for an annotation.
func (HTMLTagger) Open(kind Kind, id string, emphasized bool) string {
	var b strings.Builder
	b.WriteString(`<span class="`)
	switch kind {
	case KindRejection:
		b.WriteString(ClassRejection)
	default:
		b.WriteString(ClassComment)
	}
	if emphasized {
		b.WriteString(" " + ClassHover)
	}
	b.WriteString(`" data-id="`)
	b.WriteString(html.EscapeString(id))
	b.WriteString(`">`)
	return b.String()
}

// Close returns the closing span tag.
func (HTMLTagger) Close(Kind, string) string {
	return "</span>"
}

// Escape HTML-escapes a literal text segment.
func (HTMLTagger) Escape(segment string) string {
	return html.EscapeString(segment)
}

// ANSITagger styles annotated ranges with terminal escape sequences:
// comments are underlined, rejections struck through, and the hovered
// annotation is shown in reverse video. SGR codes do not nest, so output
// for overlapping ranges loses the outer style at the first close; use
// Partition-based rendering when that matters.
type ANSITagger struct{}

// Open returns the SGR sequence that starts the annotation style.
func (ANSITagger) Open(kind Kind, _ string, emphasized bool) string {
	code := "4" // underline
	if kind == KindRejection {
		code = "9" // strikethrough
	}
	if emphasized {
		code += ";7" // reverse video
	}
	return "\x1b[" + code + "m"
}

// Close resets terminal attributes.
func (ANSITagger) Close(Kind, string) string {
	return "\x1b[0m"
}

// Escape is the identity; terminal output needs no escaping.
func (ANSITagger) Escape(segment string) string {
	return segment
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/redlinehq/redline/internal/core/styles"
)

const pickerMaxVisible = 12

// DocumentPicker is a fuzzy-search modal for selecting a document to review.
type DocumentPicker struct {
	documents []SourceDoc
	filtered  []SourceDoc
	input     textinput.Model
	index     int
	selected  *SourceDoc
	cancelled bool
}

// NewDocumentPicker creates a picker over the discovered documents.
func NewDocumentPicker(documents []SourceDoc) *DocumentPicker {
	ti := textinput.New()
	ti.Placeholder = "Type to filter documents..."
	ti.CharLimit = 100
	ti.Focus()

	return &DocumentPicker{
		documents: documents,
		filtered:  documents,
		input:     ti,
	}
}

// Update handles messages.
func (p *DocumentPicker) Update(msg tea.Msg) (*DocumentPicker, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.cancelled = true
			return p, nil
		case "enter":
			if p.index < len(p.filtered) {
				doc := p.filtered[p.index]
				p.selected = &doc
			}
			return p, nil
		case "up", "ctrl+k":
			if p.index > 0 {
				p.index--
			}
			return p, nil
		case "down", "ctrl+j":
			if p.index < len(p.filtered)-1 {
				p.index++
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.applyFilter()
	return p, cmd
}

// applyFilter narrows the document list by fuzzy-matching the query against
// relative paths. Match order is preserved so best matches come first.
func (p *DocumentPicker) applyFilter() {
	query := strings.TrimSpace(p.input.Value())
	if query == "" {
		p.filtered = p.documents
		p.index = 0
		return
	}

	paths := make([]string, len(p.documents))
	for i, doc := range p.documents {
		paths[i] = doc.RelPath
	}

	matches := fuzzy.Find(query, paths)
	filtered := make([]SourceDoc, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, p.documents[m.Index])
	}

	p.filtered = filtered
	if p.index >= len(p.filtered) {
		p.index = 0
	}
}

// View renders the picker.
func (p *DocumentPicker) View() string {
	var b strings.Builder
	b.WriteString(styles.PanelTitleStyle.Render("Open Document"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	if len(p.filtered) == 0 {
		b.WriteString(styles.PanelMutedStyle.Render("No matching documents"))
	}

	visible := p.filtered
	offset := 0
	if len(visible) > pickerMaxVisible {
		// Keep the highlighted row in view
		offset = min(max(p.index-pickerMaxVisible/2, 0), len(visible)-pickerMaxVisible)
		visible = visible[offset : offset+pickerMaxVisible]
	}

	for i, doc := range visible {
		line := doc.RelPath
		if offset+i == p.index {
			line = styles.StageActiveStyle.Render("┃ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("%d/%d • enter: open • esc: cancel", len(p.filtered), len(p.documents))))
	return b.String()
}

// Selected returns the chosen document, or nil.
func (p *DocumentPicker) Selected() *SourceDoc {
	return p.selected
}

// Cancelled returns true if the picker was dismissed.
func (p *DocumentPicker) Cancelled() bool {
	return p.cancelled
}

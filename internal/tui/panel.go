package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/redlinehq/redline/internal/core/document"
	"github.com/redlinehq/redline/internal/core/styles"
)

// panelWidth sizes the annotations panel to roughly a third of the screen.
func panelWidth(total int) int {
	w := total / 3
	if w < 24 {
		w = 24
	}
	if w > 60 {
		w = 60
	}
	return w
}

// renderPanel lists the view's rejections and comments, hovered one marked.
func renderPanel(view *document.View, width, height int) string {
	var b strings.Builder
	hovered := view.Hovered()
	set := view.Annotations()

	b.WriteString(styles.PanelTitleStyle.Render("Rejections"))
	b.WriteString("\n")
	rejections := set.Rejections()
	if len(rejections) == 0 {
		b.WriteString(styles.PanelMutedStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, a := range rejections {
		b.WriteString(panelEntry(a.SelectedText, "", a.ID == hovered, width))
	}

	b.WriteString("\n")
	b.WriteString(styles.PanelTitleStyle.Render("Comments"))
	b.WriteString("\n")
	comments := set.Comments()
	if len(comments) == 0 {
		b.WriteString(styles.PanelMutedStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, a := range comments {
		b.WriteString(panelEntry(a.SelectedText, a.Note, a.ID == hovered, width))
	}

	return lipgloss.NewStyle().Width(width).MaxHeight(height).Render(b.String())
}

func panelEntry(selected, note string, hovered bool, width int) string {
	selected = truncate(strings.ReplaceAll(selected, "\n", " "), width-4)

	marker := "  "
	style := styles.PanelMutedStyle
	if hovered {
		marker = "┃ "
		style = styles.PanelTitleStyle
	}

	var b strings.Builder
	b.WriteString(style.Render(marker + "\"" + selected + "\""))
	b.WriteString("\n")
	if note != "" {
		b.WriteString("    " + truncate(strings.ReplaceAll(note, "\n", " "), width-6))
		b.WriteString("\n")
	}
	return b.String()
}

// annotationSummary describes an annotation for the delete confirm modal.
func (m Model) annotationSummary(id string) string {
	a, ok := m.activeView().Annotations().Get(id)
	if !ok {
		return ""
	}
	summary := a.Kind.String() + ": \"" + truncate(strings.ReplaceAll(a.SelectedText, "\n", " "), 60) + "\""
	if a.Note != "" {
		summary += " · " + truncate(a.Note, 40)
	}
	return summary
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

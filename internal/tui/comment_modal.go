package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/redlinehq/redline/internal/core/styles"
)

// CommentModal handles note entry for the active selection.
type CommentModal struct {
	textInput       textinput.Model
	selectedPreview string
	submitted       bool
	cancelled       bool
}

// NewCommentModal creates a comment modal for the given selected text.
func NewCommentModal(selectedText string, width int) CommentModal {
	ti := textinput.New()
	ti.Placeholder = "Enter your review comment..."
	ti.CharLimit = 500
	ti.Width = max(width-10, 20)
	ti.Focus()

	preview := strings.ReplaceAll(selectedText, "\n", " ")
	if len(preview) > 100 {
		preview = preview[:97] + "..."
	}

	return CommentModal{
		textInput:       ti,
		selectedPreview: preview,
	}
}

// Update handles messages.
func (m CommentModal) Update(msg tea.Msg) (CommentModal, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if strings.TrimSpace(m.textInput.Value()) != "" {
				m.submitted = true
				return m, nil
			}
		case "esc":
			m.cancelled = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View renders the modal content.
func (m CommentModal) View() string {
	return strings.Join([]string{
		styles.PanelTitleStyle.Render("Add Comment"),
		styles.PanelMutedStyle.Render("\"" + m.selectedPreview + "\""),
		m.textInput.View(),
		styles.HelpStyle.Render("enter: submit • esc: cancel"),
	}, "\n")
}

// Submitted returns true if the note was submitted.
func (m CommentModal) Submitted() bool {
	return m.submitted
}

// Cancelled returns true if the modal was cancelled.
func (m CommentModal) Cancelled() bool {
	return m.cancelled
}

// Value returns the entered note text.
func (m CommentModal) Value() string {
	return m.textInput.Value()
}

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/redlinehq/redline/internal/core/styles"
)

// ConfirmModal asks a yes/no question before a destructive action.
type ConfirmModal struct {
	title     string
	detail    string
	confirmed bool
	cancelled bool
}

// NewConfirmModal creates a confirm modal with a title and detail line.
func NewConfirmModal(title, detail string) ConfirmModal {
	return ConfirmModal{title: title, detail: detail}
}

// Update handles messages.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirmed = true
		case "n", "N", "esc":
			m.cancelled = true
		}
	}
	return m, nil
}

// View renders the modal content.
func (m ConfirmModal) View() string {
	lines := []string{styles.PanelTitleStyle.Render(m.title)}
	if m.detail != "" {
		lines = append(lines, styles.PanelMutedStyle.Render(m.detail))
	}
	lines = append(lines, styles.HelpStyle.Render("y: confirm • n: cancel"))
	return strings.Join(lines, "\n")
}

// Confirmed returns true if the action was confirmed.
func (m ConfirmModal) Confirmed() bool {
	return m.confirmed
}

// Cancelled returns true if the modal was dismissed.
func (m ConfirmModal) Cancelled() bool {
	return m.cancelled
}

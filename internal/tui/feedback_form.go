package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// FeedbackForm collects an optional overall message and a final confirmation
// before feedback is submitted to the backend.
type FeedbackForm struct {
	form    *huh.Form
	message string
	confirm bool
}

// NewFeedbackForm creates the submit form. The counts are shown so the
// reviewer knows what is about to be sent.
func NewFeedbackForm(comments, rejections, width int) *FeedbackForm {
	f := &FeedbackForm{}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Overall message (optional)").
				Placeholder("Anything that doesn't fit a single annotation...").
				Value(&f.message),
			huh.NewConfirm().
				Title(fmt.Sprintf("Submit %d comment(s) and %d rejection(s)?", comments, rejections)).
				Affirmative("Submit").
				Negative("Cancel").
				Value(&f.confirm),
		),
	).WithWidth(max(width-8, 40)).WithShowHelp(true)

	return f
}

// Init starts the form.
func (f *FeedbackForm) Init() tea.Cmd {
	return f.form.Init()
}

// Update forwards messages to the form.
func (f *FeedbackForm) Update(msg tea.Msg) tea.Cmd {
	model, cmd := f.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		f.form = form
	}
	return cmd
}

// View renders the form.
func (f *FeedbackForm) View() string {
	return f.form.View()
}

// Done returns true once the form has been completed.
func (f *FeedbackForm) Done() bool {
	return f.form.State == huh.StateCompleted
}

// Aborted returns true if the form was dismissed.
func (f *FeedbackForm) Aborted() bool {
	return f.form.State == huh.StateAborted
}

// Confirmed returns true if the reviewer confirmed submission.
func (f *FeedbackForm) Confirmed() bool {
	return f.confirm
}

// Message returns the optional overall message.
func (f *FeedbackForm) Message() string {
	return f.message
}

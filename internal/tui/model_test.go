package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/backend"
	"github.com/redlinehq/redline/internal/core/workflow"
	"github.com/redlinehq/redline/pkg/tuitest"
)

type stubBackend struct {
	artifacts backend.Artifacts
	report    string
}

func (s stubBackend) Extract(_ context.Context, _ string, _ []byte) (backend.Artifacts, error) {
	return s.artifacts, nil
}

func (s stubBackend) Analyze(_ context.Context, _ string) (string, error) {
	return s.report, nil
}

func (s stubBackend) SubmitFeedback(_ context.Context, _ string, _ workflow.FeedbackPayload) (backend.Revision, error) {
	return backend.Revision{Acknowledged: true}, nil
}

// step feeds one message into the model, discarding any returned command.
func step(m tea.Model, msg tea.Msg) tea.Model {
	m, _ = m.Update(msg)
	return m
}

// stepRun feeds one message, runs the returned command once, and feeds its
// result back in. Backend calls resolve synchronously against the stub.
func stepRun(m tea.Model, msg tea.Msg) tea.Model {
	m, cmd := m.Update(msg)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		m, _ = m.Update(out)
	}
	return m
}

func newTestModel(t *testing.T) tea.Model {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Source"), 0o644))

	doc := SourceDoc{Path: path, RelPath: "doc.md"}
	stub := stubBackend{
		artifacts: backend.Artifacts{Content: "the cat sat", Report: "initial report"},
		report:    "final report",
	}

	var m tea.Model = New(Options{
		Documents:  []SourceDoc{doc},
		InitialDoc: &doc,
		Source:     stub,
		Sink:       stub,
	})
	return step(m, tuitest.WindowSize(100, 30))
}

func TestModel_ExtractPopulatesContent(t *testing.T) {
	m := newTestModel(t)

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Press e to extract for review.")

	m = stepRun(m, tuitest.KeyPress('e'))

	model := m.(Model)
	assert.Equal(t, workflow.StageFeedback, model.machine.Stage())
	assert.Equal(t, "the cat sat", model.content.Text())
	assert.Equal(t, "initial report", model.report.Text())
	assert.Contains(t, tuitest.StripANSI(m.View()), "the cat sat")
}

func TestModel_VisualSelectionComment(t *testing.T) {
	m := newTestModel(t)
	m = stepRun(m, tuitest.KeyPress('e'))

	// Select "the" and attach a comment.
	m = step(m, tuitest.KeyPress('v'))
	m = step(m, tuitest.KeyPress('l'))
	m = step(m, tuitest.KeyPress('l'))
	m = step(m, tuitest.KeyPress('c'))

	require.NotNil(t, m.(Model).commentModal)
	for _, msg := range tuitest.KeyPressString("too vague") {
		m = step(m, msg)
	}
	m = step(m, tuitest.KeyEnter())

	model := m.(Model)
	assert.Nil(t, model.commentModal)
	comments := model.content.Annotations().Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "the", comments[0].SelectedText)
	assert.Equal(t, "too vague", comments[0].Note)
	assert.False(t, model.visual)
}

func TestModel_SelectionMissIsSilent(t *testing.T) {
	m := stepRun(newTestModel(t), tuitest.KeyPress('e'))

	model := m.(Model)
	model.visual = true
	ok := model.resolveSelection("not in the document")

	assert.False(t, ok)
	assert.False(t, model.visual, "visual mode drops on a miss")
	assert.Empty(t, model.errMsg, "a selection miss must not surface an error")
	assert.Nil(t, model.commentModal)
}

func TestModel_RejectAndDelete(t *testing.T) {
	m := newTestModel(t)
	m = stepRun(m, tuitest.KeyPress('e'))

	// Reject "the" then delete the annotation under the cursor.
	m = step(m, tuitest.KeyPress('v'))
	m = step(m, tuitest.KeyPress('l'))
	m = step(m, tuitest.KeyPress('l'))
	m = step(m, tuitest.KeyPress('x'))

	model := m.(Model)
	require.Len(t, model.content.Annotations().Rejections(), 1)

	m = step(m, tuitest.KeyPress('g'))
	m = step(m, tuitest.KeyPress('d'))
	require.NotNil(t, m.(Model).confirmModal)

	m = step(m, tuitest.KeyPress('y'))
	model = m.(Model)
	assert.Nil(t, model.confirmModal)
	assert.Empty(t, model.content.Annotations().Rejections())
}

func TestModel_PickerOpensWithoutInitialDoc(t *testing.T) {
	var m tea.Model = New(Options{
		Documents: []SourceDoc{
			{Path: "/tmp/a.md", RelPath: "a.md"},
			{Path: "/tmp/b.md", RelPath: "b.md"},
		},
	})
	m = step(m, tuitest.WindowSize(100, 30))

	require.NotNil(t, m.(Model).picker)
	assert.Contains(t, tuitest.StripANSI(m.View()), "a.md")
}

func TestModel_TabSwitchesView(t *testing.T) {
	m := newTestModel(t)
	m = stepRun(m, tuitest.KeyPress('e'))

	m = step(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, tuitest.StripANSI(m.View()), "initial report")

	m = step(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, tuitest.StripANSI(m.View()), "the cat sat")
}

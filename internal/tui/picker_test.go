package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickerDocs() []SourceDoc {
	return []SourceDoc{
		{RelPath: "reports/q1-summary.md"},
		{RelPath: "reports/q2-summary.md"},
		{RelPath: "notes/meeting.txt"},
	}
}

func TestDocumentPicker_Filter(t *testing.T) {
	p := NewDocumentPicker(pickerDocs())

	p.input.SetValue("meeting")
	p.applyFilter()
	require.Len(t, p.filtered, 1)
	assert.Equal(t, "notes/meeting.txt", p.filtered[0].RelPath)

	p.input.SetValue("q2sum")
	p.applyFilter()
	require.NotEmpty(t, p.filtered)
	assert.Equal(t, "reports/q2-summary.md", p.filtered[0].RelPath, "fuzzy match ranks q2 first")

	p.input.SetValue("")
	p.applyFilter()
	assert.Len(t, p.filtered, 3, "empty query shows everything")
}

func TestDocumentPicker_FilterResetsIndex(t *testing.T) {
	p := NewDocumentPicker(pickerDocs())
	p.index = 2

	p.input.SetValue("summary")
	p.applyFilter()
	assert.Equal(t, 0, p.index, "index snaps back when it falls off the list")
}

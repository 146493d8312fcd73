package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/core/annotate"
)

func TestMachine_HappyPath(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, StageExtract, m.Stage())

	require.NoError(t, m.Begin(StageExtract))
	m.Complete()
	assert.Equal(t, StageFeedback, m.Stage())

	require.NoError(t, m.Begin(StageFeedback))
	m.Complete()
	assert.Equal(t, StageApprove, m.Stage())

	require.NoError(t, m.Begin(StageApprove))
	m.Complete()
	assert.Equal(t, StageAnalyze, m.Stage())

	require.NoError(t, m.Begin(StageAnalyze))
	m.Complete()
	assert.Equal(t, StageDone, m.Stage())
}

func TestMachine_RejectsConcurrentCalls(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin(StageExtract))

	err := m.Begin(StageExtract)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestMachine_FailureLeavesStage(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin(StageExtract))

	m.Fail()
	assert.Equal(t, StageExtract, m.Stage(), "failed call must not advance")
	assert.False(t, m.InFlight())

	// The operation is user-retriable.
	assert.NoError(t, m.Begin(StageExtract))
}

func TestMachine_WrongStage(t *testing.T) {
	m := NewMachine()
	err := m.Begin(StageAnalyze)
	assert.ErrorIs(t, err, ErrWrongStage)
}

func TestMachine_Approve(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin(StageExtract))
	m.Complete()

	require.NoError(t, m.Approve())
	assert.Equal(t, StageApprove, m.Stage())

	assert.ErrorIs(t, m.Approve(), ErrWrongStage)
}

func TestBuildFeedback(t *testing.T) {
	const text = "Risk A. Risk B."

	set := annotate.NewSet()
	_, err := set.AddRejection(annotate.Range{Start: 0, End: 6}, "Risk A")
	require.NoError(t, err)
	_, err = set.AddComment(annotate.Range{Start: 8, End: 14}, "Risk B", "check this")
	require.NoError(t, err)

	payload := BuildFeedback(set, "overall looks rough")

	require.Len(t, payload.Comments, 1)
	assert.Equal(t, CommentEntry{
		Text:         "check this",
		SelectedText: "Risk B",
		StartIndex:   8,
		EndIndex:     14,
	}, payload.Comments[0])

	require.Len(t, payload.Rejections, 1)
	assert.Equal(t, RejectionEntry{
		SelectedText: "Risk A",
		StartIndex:   0,
		EndIndex:     6,
	}, payload.Rejections[0])

	assert.Equal(t, "overall looks rough", payload.Message)
	assert.False(t, payload.IsEmpty())
}

func TestBuildFeedback_WireShape(t *testing.T) {
	set := annotate.NewSet()
	_, err := set.AddComment(annotate.Range{Start: 0, End: 3}, "abc", "note")
	require.NoError(t, err)

	data, err := json.Marshal(BuildFeedback(set, ""))
	require.NoError(t, err)

	want := `{"comments":[{"text":"note","selected_text":"abc","start_index":0,"end_index":3}],"rejections":[]}`
	assert.JSONEq(t, want, string(data))
}

func TestBuildFeedback_Empty(t *testing.T) {
	payload := BuildFeedback(annotate.NewSet(), "")
	assert.True(t, payload.IsEmpty())

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"comments":[],"rejections":[]}`, string(data), "arrays stay present when empty")

	assert.True(t, BuildFeedback(nil, "").IsEmpty())
	assert.False(t, BuildFeedback(nil, "just a message").IsEmpty())
}

func TestParseStage(t *testing.T) {
	for _, stage := range []Stage{StageExtract, StageFeedback, StageApprove, StageAnalyze, StageDone} {
		got, err := ParseStage(stage.String())
		require.NoError(t, err, "ParseStage(%q)", stage.String())
		assert.Equal(t, stage, got)
	}

	_, err := ParseStage("bogus")
	assert.Error(t, err)
}

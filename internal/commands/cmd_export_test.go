package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/core/annotate"
	"github.com/redlinehq/redline/internal/core/session"
	"github.com/redlinehq/redline/internal/core/workflow"
	"github.com/redlinehq/redline/internal/data/db"
	"github.com/redlinehq/redline/internal/data/stores"
)

func TestRangeMatches(t *testing.T) {
	canonical := "the cat sat"

	assert.True(t, rangeMatches(canonical, annotate.Range{Start: 4, End: 7}, "cat"))
	assert.False(t, rangeMatches(canonical, annotate.Range{Start: 4, End: 7}, "sat"))
	assert.False(t, rangeMatches(canonical, annotate.Range{Start: 8, End: 50}, "sat"))
	assert.False(t, rangeMatches(canonical, annotate.Range{Start: -1, End: 3}, "the"))
}

func TestReplayFeedback(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	store := stores.NewSessionStore(database)

	raw := []byte("# source")
	canonical := "the cat sat on the mat"
	sum := sha256.Sum256(raw)
	sess, err := store.CreateSession(ctx, "/tmp/doc.md", hex.EncodeToString(sum[:]))
	require.NoError(t, err)

	payload := workflow.FeedbackPayload{
		Comments: []workflow.CommentEntry{
			{Text: "which cat?", SelectedText: "cat", StartIndex: 4, EndIndex: 7},
		},
		Rejections: []workflow.RejectionEntry{
			{SelectedText: "mat", StartIndex: 19, EndIndex: 22},
			// Stale: offsets no longer address this text.
			{SelectedText: "dog", StartIndex: 0, EndIndex: 3},
		},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, store.SaveFeedback(ctx, session.FeedbackRecord{
		SessionID: sess.ID,
		View:      "content",
		Payload:   string(data),
	}))

	cmd := &ExportCmd{flags: &Flags{Sessions: store}, view: "content"}
	set := annotate.NewSet()
	require.NoError(t, cmd.replayFeedback(ctx, "/tmp/doc.md", raw, canonical, set))

	assert.Len(t, set.Comments(), 1)
	assert.Len(t, set.Rejections(), 1)
	assert.Equal(t, "mat", set.Rejections()[0].SelectedText)
}

func TestReplayFeedback_NoSession(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cmd := &ExportCmd{flags: &Flags{Sessions: stores.NewSessionStore(database)}, view: "content"}
	set := annotate.NewSet()

	require.NoError(t, cmd.replayFeedback(ctx, "/tmp/doc.md", []byte("x"), "y", set))
	assert.Zero(t, set.Len())
}

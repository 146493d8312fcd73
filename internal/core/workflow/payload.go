package workflow

import (
	"github.com/redlinehq/redline/internal/core/annotate"
)

// CommentEntry is one comment annotation in the feedback wire shape.
type CommentEntry struct {
	Text         string `json:"text"`
	SelectedText string `json:"selected_text"`
	StartIndex   int    `json:"start_index"`
	EndIndex     int    `json:"end_index"`
}

// RejectionEntry is one rejection annotation in the feedback wire shape.
type RejectionEntry struct {
	SelectedText string `json:"selected_text"`
	StartIndex   int    `json:"start_index"`
	EndIndex     int    `json:"end_index"`
}

// FeedbackPayload is the stable wire shape accepted by the feedback sink.
type FeedbackPayload struct {
	Comments   []CommentEntry   `json:"comments"`
	Rejections []RejectionEntry `json:"rejections"`
	Message    string           `json:"message,omitempty"`
}

// IsEmpty reports whether the payload carries no feedback at all.
func (p FeedbackPayload) IsEmpty() bool {
	return len(p.Comments) == 0 && len(p.Rejections) == 0 && p.Message == ""
}

// BuildFeedback translates the unified annotation set into the wire shape,
// partitioned by kind in insertion order, plus an optional overall message.
func BuildFeedback(set *annotate.Set, message string) FeedbackPayload {
	payload := FeedbackPayload{
		Comments:   []CommentEntry{},
		Rejections: []RejectionEntry{},
		Message:    message,
	}
	if set == nil {
		return payload
	}
	for _, a := range set.List() {
		switch a.Kind {
		case annotate.KindComment:
			payload.Comments = append(payload.Comments, CommentEntry{
				Text:         a.Note,
				SelectedText: a.SelectedText,
				StartIndex:   a.Range.Start,
				EndIndex:     a.Range.End,
			})
		case annotate.KindRejection:
			payload.Rejections = append(payload.Rejections, RejectionEntry{
				SelectedText: a.SelectedText,
				StartIndex:   a.Range.Start,
				EndIndex:     a.Range.End,
			})
		}
	}
	return payload
}

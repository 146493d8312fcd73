// Package backend defines the contract with the external analyst service:
// a content source that derives canonical artifacts from an uploaded
// document, and a feedback sink that accepts the review payload and may
// return revised text. The core never talks to the network itself; callers
// pass results in as plain values, and on any failure no local state is
// touched.
package backend

import (
	"context"
	"fmt"

	"github.com/redlinehq/redline/internal/core/workflow"
)

// Artifacts are the canonical texts derived from a source document. All
// annotation offsets index into these strings.
type Artifacts struct {
	Content string `json:"content"` // extracted feature list / structured content
	Summary string `json:"summary"`
	Report  string `json:"report"` // risk report for the secondary view
}

// Revision is the feedback sink's response. RevisedText, when non-empty,
// wholesale-replaces the view's canonical text.
type Revision struct {
	Acknowledged bool   `json:"acknowledged"`
	RevisedText  string `json:"revised_text,omitempty"`
}

// ContentSource supplies canonical texts on demand.
type ContentSource interface {
	// Extract uploads the source document and returns the derived
	// artifacts.
	Extract(ctx context.Context, filename string, content []byte) (Artifacts, error)

	// Analyze runs the final analysis over the approved content and
	// returns the risk report text.
	Analyze(ctx context.Context, content string) (string, error)
}

// FeedbackSink accepts the review feedback for one view.
type FeedbackSink interface {
	SubmitFeedback(ctx context.Context, view string, payload workflow.FeedbackPayload) (Revision, error)
}

// APIError is a non-success response from the backend. It is surfaced to
// the user as a visible message; the operation is retried manually.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

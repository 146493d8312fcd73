// Package session defines review-session bookkeeping: which document is
// under review, at which workflow stage, and what feedback was submitted.
// Annotations themselves are never persisted; they live only in memory for
// the lifetime of a view.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redlinehq/redline/internal/core/workflow"
)

// ErrNotFound is returned when no matching session exists.
var ErrNotFound = errors.New("review session not found")

// Session represents one review pass over a source document.
type Session struct {
	ID           string
	DocumentPath string
	ContentHash  string // SHA256 hash of the source document content
	Stage        workflow.Stage
	CreatedAt    time.Time
	FinalizedAt  *time.Time // nil if not finalized
}

// IsFinalized returns true if the review session has been finalized.
func (s Session) IsFinalized() bool {
	return s.FinalizedAt != nil
}

// FeedbackRecord is one submitted feedback payload, kept for audit.
type FeedbackRecord struct {
	ID          string
	SessionID   string
	View        string // "content" or "report"
	Payload     string // feedback wire shape, JSON-encoded
	SubmittedAt time.Time
}

// Store defines persistence operations for review sessions.
type Store interface {
	// CreateSession creates a new session for a document with content hash.
	CreateSession(ctx context.Context, documentPath, contentHash string) (Session, error)

	// GetSession returns the most recent session for the given document.
	// Returns ErrNotFound if none exists.
	GetSession(ctx context.Context, documentPath string) (Session, error)

	// GetSessionByHash returns the session for a document and content hash.
	// Returns ErrNotFound if none exists.
	GetSessionByHash(ctx context.Context, documentPath, contentHash string) (Session, error)

	// ListSessions returns all sessions, newest first.
	ListSessions(ctx context.Context) ([]Session, error)

	// SetStage records a workflow stage transition.
	SetStage(ctx context.Context, sessionID string, stage workflow.Stage) error

	// FinalizeSession marks a session as finalized.
	FinalizeSession(ctx context.Context, sessionID string) error

	// DeleteSession removes a session and its feedback records.
	DeleteSession(ctx context.Context, sessionID string) error

	// CleanupStaleSessions removes sessions for a document whose content
	// hash no longer matches.
	CleanupStaleSessions(ctx context.Context, documentPath, currentHash string) error

	// SaveFeedback records a submitted feedback payload.
	SaveFeedback(ctx context.Context, record FeedbackRecord) error

	// ListFeedback returns feedback records for a session, oldest first.
	ListFeedback(ctx context.Context, sessionID string) ([]FeedbackRecord, error)
}

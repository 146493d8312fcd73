// Package stores provides SQLite-backed implementations of the core store
// interfaces.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redlinehq/redline/internal/core/session"
	"github.com/redlinehq/redline/internal/core/workflow"
	"github.com/redlinehq/redline/internal/data/db"
)

// SessionStore implements session.Store using SQLite.
type SessionStore struct {
	db *db.DB
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates a new SQLite-backed session store.
func NewSessionStore(db *db.DB) *SessionStore {
	return &SessionStore{db: db}
}

// CreateSession creates a new review session for a document with content hash.
func (s *SessionStore) CreateSession(ctx context.Context, documentPath, contentHash string) (session.Session, error) {
	sessionID := uuid.NewString()
	now := time.Now()

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO review_sessions (id, document_path, content_hash, stage, created_at, finalized_at)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		sessionID, documentPath, contentHash, workflow.StageExtract.String(), now.UnixNano(),
	)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to create review session: %w", err)
	}

	return session.Session{
		ID:           sessionID,
		DocumentPath: documentPath,
		ContentHash:  contentHash,
		Stage:        workflow.StageExtract,
		CreatedAt:    now,
		FinalizedAt:  nil,
	}, nil
}

// GetSession returns the most recent review session for the given document.
func (s *SessionStore) GetSession(ctx context.Context, documentPath string) (session.Session, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, document_path, content_hash, stage, created_at, finalized_at
		FROM review_sessions
		WHERE document_path = ?
		ORDER BY created_at DESC
		LIMIT 1`,
		documentPath,
	)

	sess, err := scanSession(row)
	if IsNotFoundError(err) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to get review session: %w", err)
	}
	return sess, nil
}

// GetSessionByHash returns a review session for the given document and content hash.
func (s *SessionStore) GetSessionByHash(ctx context.Context, documentPath, contentHash string) (session.Session, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, document_path, content_hash, stage, created_at, finalized_at
		FROM review_sessions
		WHERE document_path = ? AND content_hash = ?
		ORDER BY created_at DESC
		LIMIT 1`,
		documentPath, contentHash,
	)

	sess, err := scanSession(row)
	if IsNotFoundError(err) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to get review session by hash: %w", err)
	}
	return sess, nil
}

// ListSessions returns all review sessions, newest first.
func (s *SessionStore) ListSessions(ctx context.Context) ([]session.Session, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, document_path, content_hash, stage, created_at, finalized_at
		FROM review_sessions
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list review sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sessions := []session.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review sessions: %w", err)
	}

	return sessions, nil
}

// SetStage records a workflow stage transition for a session.
func (s *SessionStore) SetStage(ctx context.Context, sessionID string, stage workflow.Stage) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		UPDATE review_sessions SET stage = ? WHERE id = ?`,
		stage.String(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to set session stage: %w", err)
	}
	return nil
}

// FinalizeSession marks a review session as finalized.
func (s *SessionStore) FinalizeSession(ctx context.Context, sessionID string) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		UPDATE review_sessions SET finalized_at = ? WHERE id = ?`,
		time.Now().UnixNano(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize review session: %w", err)
	}
	return nil
}

// DeleteSession removes a review session and its feedback records.
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM feedback_records WHERE session_id = ?`, sessionID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM review_sessions WHERE id = ?`, sessionID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete review session: %w", err)
	}
	return nil
}

// CleanupStaleSessions removes review sessions for a document with a different content hash.
func (s *SessionStore) CleanupStaleSessions(ctx context.Context, documentPath, currentHash string) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		DELETE FROM review_sessions
		WHERE document_path = ? AND content_hash != ?`,
		documentPath, currentHash,
	)
	if err != nil {
		return fmt.Errorf("failed to cleanup stale sessions: %w", err)
	}
	return nil
}

// SaveFeedback records a submitted feedback payload for a session.
func (s *SessionStore) SaveFeedback(ctx context.Context, record session.FeedbackRecord) error {
	id := record.ID
	if id == "" {
		id = uuid.NewString()
	}
	submittedAt := record.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO feedback_records (id, session_id, view, payload, submitted_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, record.SessionID, record.View, record.Payload, submittedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save feedback record: %w", err)
	}
	return nil
}

// ListFeedback returns feedback records for a session, oldest first.
func (s *SessionStore) ListFeedback(ctx context.Context, sessionID string) ([]session.FeedbackRecord, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, session_id, view, payload, submitted_at
		FROM feedback_records
		WHERE session_id = ?
		ORDER BY submitted_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []session.FeedbackRecord{}
	for rows.Next() {
		var rec session.FeedbackRecord
		var submittedAt int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.View, &rec.Payload, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback record: %w", err)
		}
		rec.SubmittedAt = time.Unix(0, submittedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback records: %w", err)
	}

	return records, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (session.Session, error) {
	var sess session.Session
	var stage string
	var createdAt int64
	var finalizedAt sql.NullInt64

	if err := row.Scan(&sess.ID, &sess.DocumentPath, &sess.ContentHash, &stage, &createdAt, &finalizedAt); err != nil {
		return session.Session{}, err
	}

	parsed, err := workflow.ParseStage(stage)
	if err != nil {
		return session.Session{}, err
	}
	sess.Stage = parsed

	sess.CreatedAt = time.Unix(0, createdAt)
	if finalizedAt.Valid {
		t := time.Unix(0, finalizedAt.Int64)
		sess.FinalizedAt = &t
	}

	return sess, nil
}

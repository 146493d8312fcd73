package logging

import (
	"context"
	"testing"
)

func TestWithSessionID(t *testing.T) {
	ctx := context.Background()
	sessionID := "test-session-123"

	ctx = WithSessionID(ctx, sessionID)
	got := GetSessionID(ctx)

	if got != sessionID {
		t.Errorf("GetSessionID() = %q, want %q", got, sessionID)
	}
}

func TestWithDocument(t *testing.T) {
	ctx := context.Background()
	document := "notes/q2-summary.md"

	ctx = WithDocument(ctx, document)
	got := GetDocument(ctx)

	if got != document {
		t.Errorf("GetDocument() = %q, want %q", got, document)
	}
}

func TestGetSessionID_NotPresent(t *testing.T) {
	ctx := context.Background()
	got := GetSessionID(ctx)

	if got != "" {
		t.Errorf("GetSessionID() = %q, want empty string", got)
	}
}

func TestGetDocument_NotPresent(t *testing.T) {
	ctx := context.Background()
	got := GetDocument(ctx)

	if got != "" {
		t.Errorf("GetDocument() = %q, want empty string", got)
	}
}

func TestBothValues(t *testing.T) {
	ctx := context.Background()
	sessionID := "session-1"
	document := "doc.md"

	ctx = WithSessionID(ctx, sessionID)
	ctx = WithDocument(ctx, document)

	if got := GetSessionID(ctx); got != sessionID {
		t.Errorf("GetSessionID() = %q, want %q", got, sessionID)
	}

	if got := GetDocument(ctx); got != document {
		t.Errorf("GetDocument() = %q, want %q", got, document)
	}
}

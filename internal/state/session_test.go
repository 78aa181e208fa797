// internal/state/session_test.go
package state

import (
	"context"
	"testing"

	"github.com/user/mindwell/internal/types"
)

func TestSessionStore(t *testing.T) {
	dir := t.TempDir()
	store := NewSessionStore(dir)
	ctx := context.Background()

	// Test resolve or create
	key := types.NewSessionKey("webhook", "stu-123")
	id, err := store.ResolveOrCreate(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Error("expected non-empty session ID")
	}

	// Test get
	session, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if session.SessionKey != key {
		t.Errorf("expected key %s, got %s", key, session.SessionKey)
	}
	if session.Status != "active" {
		t.Errorf("expected active status, got %s", session.Status)
	}

	// Test idempotency
	id2, err := store.ResolveOrCreate(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if id != id2 {
		t.Error("expected same session ID for same key")
	}
}

func TestSessionStoreArchive(t *testing.T) {
	dir := t.TempDir()
	store := NewSessionStore(dir)
	ctx := context.Background()

	key := types.NewSessionKey("telegram", "42")
	id, err := store.ResolveOrCreate(ctx, key)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Archive(ctx, key); err != nil {
		t.Fatal(err)
	}

	// Archived session remains retrievable
	old, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if old.Status != "archived" {
		t.Errorf("expected archived status, got %s", old.Status)
	}

	// Same key now resolves to a fresh session
	id2, err := store.ResolveOrCreate(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if id2 == id {
		t.Error("expected a new session ID after archive")
	}

	// Both sessions appear in the list
	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestSessionStoreArchiveNoActive(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	// Archiving an unknown key is a no-op
	if err := store.Archive(context.Background(), types.NewSessionKey("webhook", "nobody")); err != nil {
		t.Fatal(err)
	}
}

func TestSessionStoreUpdate(t *testing.T) {
	dir := t.TempDir()
	store := NewSessionStore(dir)
	ctx := context.Background()

	key := types.NewSessionKey("webhook", "stu-9")
	id, err := store.ResolveOrCreate(ctx, key)
	if err != nil {
		t.Fatal(err)
	}

	session, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	session.LastTurnSeq = 7
	if err := store.Update(ctx, session); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastTurnSeq != 7 {
		t.Errorf("expected last turn seq 7, got %d", got.LastTurnSeq)
	}

	// Updating an unknown session fails
	missing := &types.SessionIndex{SessionID: types.NewSessionID(), SessionKey: key}
	if err := store.Update(ctx, missing); err == nil {
		t.Error("expected error for unknown session")
	}
}

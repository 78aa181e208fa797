// internal/state/turn_test.go
package state

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/user/mindwell/internal/types"
)

func TestTurnStoreAppendAndTail(t *testing.T) {
	store := NewTurnStore(t.TempDir())
	ctx := context.Background()
	sessionID := types.NewSessionID()

	for i := 0; i < 5; i++ {
		turn := &types.Turn{
			ID:        types.NewTurnID(),
			SessionID: sessionID,
			Question:  fmt.Sprintf("question %d", i),
			Answer:    fmt.Sprintf("answer %d", i),
			At:        time.Now(),
		}
		if err := store.Append(ctx, turn); err != nil {
			t.Fatal(err)
		}
		if turn.Seq != int64(i+1) {
			t.Errorf("expected seq %d, got %d", i+1, turn.Seq)
		}
	}

	tail, err := store.Tail(ctx, sessionID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(tail) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(tail))
	}
	if tail[0].Answer != "answer 2" || tail[2].Answer != "answer 4" {
		t.Errorf("tail returned wrong window: %s .. %s", tail[0].Answer, tail[2].Answer)
	}

	count, err := store.Count(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 5 {
		t.Errorf("expected count 5, got %d", count)
	}
}

func TestTurnStoreEmptySession(t *testing.T) {
	store := NewTurnStore(t.TempDir())
	ctx := context.Background()
	sessionID := types.NewSessionID()

	tail, err := store.Tail(ctx, sessionID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if tail != nil {
		t.Errorf("expected nil tail, got %v", tail)
	}

	count, err := store.Count(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
}

func TestTurnStoreSignalRoundTrip(t *testing.T) {
	store := NewTurnStore(t.TempDir())
	ctx := context.Background()
	sessionID := types.NewSessionID()

	turn := &types.Turn{
		ID:        types.NewTurnID(),
		SessionID: sessionID,
		Answer:    "最近睡不好",
		Signal: &types.EmotionSignal{
			Emotion:   "anxious",
			Intensity: 0.6,
			Sentiment: -0.4,
			Keywords:  []string{"睡不好"},
		},
		At: time.Now(),
	}
	if err := store.Append(ctx, turn); err != nil {
		t.Fatal(err)
	}

	tail, err := store.Tail(ctx, sessionID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(tail) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(tail))
	}
	if tail[0].Signal == nil || tail[0].Signal.Emotion != "anxious" {
		t.Errorf("signal did not survive round trip: %+v", tail[0].Signal)
	}
}

// internal/state/assessment_test.go
package state

import (
	"context"
	"testing"

	"github.com/user/mindwell/internal/types"
)

func TestAssessmentStoreFreshLoad(t *testing.T) {
	store := NewAssessmentStore(t.TempDir())
	ctx := context.Background()
	id := types.NewSessionID()

	progress, trend, err := store.Load(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if progress.SessionID != id {
		t.Errorf("expected session ID %s, got %s", id, progress.SessionID)
	}
	if progress.Phase != types.PhaseExploration {
		t.Errorf("fresh progress should start in exploration, got %s", progress.Phase)
	}
	if trend.Risk != types.RiskMinimal {
		t.Errorf("fresh trend should be minimal risk, got %s", trend.Risk)
	}
}

func TestAssessmentStoreRoundTrip(t *testing.T) {
	store := NewAssessmentStore(t.TempDir())
	ctx := context.Background()
	id := types.NewSessionID()

	progress, trend, err := store.Load(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	progress.TurnCount = 4
	progress.Severities[types.ItemSleep] = 2
	progress.Topics[types.TopicSleep] = true
	trend.Risk = types.RiskMedium
	trend.Observe(progress.UpdatedAt, "sad", 0.7)

	if err := store.Save(ctx, id, progress, trend); err != nil {
		t.Fatal(err)
	}

	got, gotTrend, err := store.Load(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.TurnCount != 4 {
		t.Errorf("expected turn count 4, got %d", got.TurnCount)
	}
	if got.Severity(types.ItemSleep) != 2 {
		t.Errorf("expected sleep severity 2, got %d", got.Severity(types.ItemSleep))
	}
	if !got.Topics[types.TopicSleep] {
		t.Error("expected sleep topic covered")
	}
	if gotTrend.Risk != types.RiskMedium {
		t.Errorf("expected medium risk, got %s", gotTrend.Risk)
	}
	if gotTrend.Dominant != "sad" {
		t.Errorf("expected dominant sad, got %s", gotTrend.Dominant)
	}
}

func TestAssessmentStoreReset(t *testing.T) {
	store := NewAssessmentStore(t.TempDir())
	ctx := context.Background()
	id := types.NewSessionID()

	progress, trend, err := store.Load(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	progress.Severities[types.ItemMood] = 3
	trend.Risk = types.RiskHigh
	if err := store.Save(ctx, id, progress, trend); err != nil {
		t.Fatal(err)
	}

	if err := store.Reset(ctx, id); err != nil {
		t.Fatal(err)
	}

	// Both halves come back at zero state together
	got, gotTrend, err := store.Load(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Severities) != 0 {
		t.Errorf("expected empty severities after reset, got %v", got.Severities)
	}
	if gotTrend.Risk != types.RiskMinimal {
		t.Errorf("expected minimal risk after reset, got %s", gotTrend.Risk)
	}

	// Resetting a never-saved session is a no-op
	if err := store.Reset(ctx, types.NewSessionID()); err != nil {
		t.Fatal(err)
	}
}

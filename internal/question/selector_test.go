package question

import (
	"math/rand"
	"testing"
	"time"

	"github.com/user/mindwell/internal/types"
)

func testSelector(t *testing.T) *Selector {
	t.Helper()
	b, err := DefaultBank()
	if err != nil {
		t.Fatal(err)
	}
	return NewSelector(b)
}

func testProgress(phase types.Phase) *types.SessionProgress {
	p := types.NewSessionProgress(types.NewSessionID(), time.Now())
	p.Phase = phase
	return p
}

func TestNextCompletionReturnsNothing(t *testing.T) {
	s := testSelector(t)
	p := testProgress(types.PhaseCompletion)
	rng := rand.New(rand.NewSource(1))
	if q, ok := s.Next(p, rng); ok || q != "" {
		t.Errorf("expected no question in completion, got %q", q)
	}
}

func TestNoRepeatsAcrossSession(t *testing.T) {
	s := testSelector(t)
	p := testProgress(types.PhaseExploration)
	rng := rand.New(rand.NewSource(42))

	seen := make(map[string]bool)
	// Draw more times than the pool size; once exhausted only the
	// continuation prompt may repeat.
	for i := 0; i < 20; i++ {
		q, ok := s.Next(p, rng)
		if !ok {
			t.Fatal("exploration must always produce a prompt")
		}
		if q != s.bank.Continuation && seen[q] {
			t.Fatalf("question repeated: %q", q)
		}
		seen[q] = true
		p.AskedQuestions = append(p.AskedQuestions, q)
	}
}

func TestExplorationExhaustionFallsBack(t *testing.T) {
	s := testSelector(t)
	p := testProgress(types.PhaseExploration)
	p.AskedQuestions = append(p.AskedQuestions, s.bank.Open...)
	rng := rand.New(rand.NewSource(7))

	q, ok := s.Next(p, rng)
	if !ok || q != s.bank.Continuation {
		t.Errorf("expected continuation fallback, got %q", q)
	}
}

func TestTargetedPrefersUncoveredItems(t *testing.T) {
	s := testSelector(t)
	p := testProgress(types.PhaseTargeted)
	// Cover everything except sleep.
	for _, it := range types.AllItems() {
		if it != types.ItemSleep {
			p.Severities[it] = 1
		}
	}
	rng := rand.New(rand.NewSource(3))

	q, ok := s.Next(p, rng)
	if !ok {
		t.Fatal("expected a prompt")
	}
	found := false
	for _, prompt := range s.bank.ItemPrompts(types.ItemSleep) {
		if prompt == q {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a sleep prompt, got %q", q)
	}
}

func TestTargetedAllCoveredUsesTransitions(t *testing.T) {
	s := testSelector(t)
	p := testProgress(types.PhaseTargeted)
	for _, it := range types.AllItems() {
		p.Severities[it] = 1
	}
	rng := rand.New(rand.NewSource(9))

	q, ok := s.Next(p, rng)
	if !ok {
		t.Fatal("expected a prompt")
	}
	isTransition := false
	for _, tr := range s.bank.Transitions {
		if tr == q {
			isTransition = true
		}
	}
	if !isTransition && q != s.bank.Continuation {
		t.Errorf("expected a transition or continuation, got %q", q)
	}
}

func TestDeterministicWithSeededSource(t *testing.T) {
	s := testSelector(t)
	a := testProgress(types.PhaseExploration)
	b := testProgress(types.PhaseExploration)

	qa, _ := s.Next(a, rand.New(rand.NewSource(99)))
	qb, _ := s.Next(b, rand.New(rand.NewSource(99)))
	if qa != qb {
		t.Errorf("same seed should draw the same question: %q vs %q", qa, qb)
	}
}

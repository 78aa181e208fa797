package types

import (
	"testing"
	"time"
)

func TestScaleSizes(t *testing.T) {
	if n := len(DepressionItems()); n != 9 {
		t.Errorf("expected 9 depression items, got %d", n)
	}
	if n := len(AnxietyItems()); n != 7 {
		t.Errorf("expected 7 anxiety items, got %d", n)
	}
	if n := len(AllItems()); n != 16 {
		t.Errorf("expected 16 items total, got %d", n)
	}
}

func TestItemScaleMembership(t *testing.T) {
	if ItemSelfHarm.Scale() != ScaleDepression {
		t.Errorf("self-harm item should belong to the depression scale")
	}
	if ItemNervous.Scale() != ScaleAnxiety {
		t.Errorf("nervous item should belong to the anxiety scale")
	}
	if !ValidItem(ItemSleep) {
		t.Error("expected dep_sleep to be a valid item")
	}
	if ValidItem(ItemID("made_up")) {
		t.Error("expected made_up to be invalid")
	}
}

func TestScaleTotal(t *testing.T) {
	p := NewSessionProgress(NewSessionID(), time.Now())
	sev := []int{2, 2, 2, 2, 1, 2, 1, 2, 3}
	for i, it := range DepressionItems() {
		p.Severities[it] = sev[i]
	}
	if got := p.ScaleTotal(ScaleDepression); got != 17 {
		t.Errorf("expected depression total 17, got %d", got)
	}
	if got := p.ScaleTotal(ScaleAnxiety); got != 0 {
		t.Errorf("expected anxiety total 0, got %d", got)
	}
}

func TestAllItemsScored(t *testing.T) {
	p := NewSessionProgress(NewSessionID(), time.Now())
	if p.AllItemsScored() {
		t.Error("fresh progress should not be fully scored")
	}
	for _, it := range AllItems() {
		p.Severities[it] = 0
	}
	if !p.AllItemsScored() {
		t.Error("expected fully scored progress (zero counts as recorded)")
	}
	if got := len(p.UncoveredItems()); got != 0 {
		t.Errorf("expected no uncovered items, got %d", got)
	}
}

func TestTrendObserve(t *testing.T) {
	tr := NewEmotionTrend()
	if tr.Risk != RiskMinimal {
		t.Errorf("fresh trend should start minimal, got %s", tr.Risk)
	}
	now := time.Now()
	tr.Observe(now, "sadness", 0.7)
	tr.Observe(now.Add(time.Minute), "anxiety", 0.4)
	if len(tr.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tr.Entries))
	}
	if tr.Dominant != "anxiety" {
		t.Errorf("expected dominant anxiety, got %s", tr.Dominant)
	}
}

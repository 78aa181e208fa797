package fusion

import (
	"testing"

	"github.com/user/mindwell/internal/types"
)

func TestSignalRiskTable(t *testing.T) {
	tests := []struct {
		sentiment, intensity float64
		want                 types.RiskLevel
	}{
		{-0.8, 0.9, types.RiskHigh},
		{-0.6, 0.61, types.RiskHigh},
		{-0.4, 0.5, types.RiskMedium},
		{-0.3, 0.41, types.RiskMedium},
		{0.5, 0.9, types.RiskLow},
		{0.5, 0.5, types.RiskMinimal},
		{0.0, 0.5, types.RiskLow},
		{-0.3, 0.2, types.RiskLow},
		{-0.5, 0.1, types.RiskLow}, // negative but too weak for medium
	}
	for _, tt := range tests {
		if got := SignalRisk(tt.sentiment, tt.intensity); got != tt.want {
			t.Errorf("SignalRisk(%v, %v) = %s, want %s", tt.sentiment, tt.intensity, got, tt.want)
		}
	}
}

func TestFuseNilSignal(t *testing.T) {
	if got := Fuse(types.RiskMedium, nil, true); got != types.RiskMedium {
		t.Errorf("expected medium with nil signal, got %s", got)
	}
}

func TestFuseMoreSevereWins(t *testing.T) {
	sig := &types.EmotionSignal{Emotion: "sadness", Sentiment: -0.8, Intensity: 0.9}
	if got := Fuse(types.RiskLow, sig, false); got != types.RiskHigh {
		t.Errorf("expected external high to win, got %s", got)
	}

	calm := &types.EmotionSignal{Emotion: "neutral", Sentiment: 0.0, Intensity: 0.2}
	if got := Fuse(types.RiskHigh, calm, false); got != types.RiskHigh {
		t.Errorf("expected local high to win, got %s", got)
	}
}

func TestFuseIdempotent(t *testing.T) {
	sig := &types.EmotionSignal{Emotion: "anxiety", Sentiment: -0.5, Intensity: 0.6}
	first := Fuse(types.RiskLow, sig, true)
	for i := 0; i < 3; i++ {
		if got := Fuse(types.RiskLow, sig, true); got != first {
			t.Fatalf("fuse not idempotent: got %s then %s", first, got)
		}
	}
}

func TestFuseDeferStillCountsLocalEvidence(t *testing.T) {
	calm := &types.EmotionSignal{Emotion: "neutral", Sentiment: 0.5, Intensity: 0.2}
	if got := Fuse(types.RiskHigh, calm, true); got != types.RiskHigh {
		t.Errorf("expected high retained under defer, got %s", got)
	}
}

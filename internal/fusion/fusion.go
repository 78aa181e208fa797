// Package fusion merges the local keyword-derived risk estimate with the
// external classifier's signal into one authoritative RiskLevel.
package fusion

import (
	"github.com/user/mindwell/internal/types"
)

// SignalRisk converts a (sentiment, intensity) pair into a risk level using
// a fixed ordered table; the first matching rule wins.
func SignalRisk(sentiment, intensity float64) types.RiskLevel {
	switch {
	case sentiment <= -0.6 && intensity > 0.6:
		return types.RiskHigh
	case sentiment <= -0.3 && intensity > 0.4:
		return types.RiskMedium
	case sentiment > 0.3:
		if intensity > 0.7 {
			return types.RiskLow
		}
		return types.RiskMinimal
	case sentiment >= -0.3:
		return types.RiskLow
	case sentiment < -0.3:
		// Negative sentiment but intensity too low for the medium rule.
		return types.RiskLow
	default:
		return types.RiskMinimal
	}
}

// Fuse merges the local estimate with the external signal under a
// more-severe-wins policy. A nil signal returns the local estimate
// unchanged. With deferToExternal set the caller treats the local estimate
// as advisory: the fused value is only written to the stored RiskLevel when
// a signal was actually present for the turn. Fuse is idempotent: identical
// inputs always produce the same level.
func Fuse(local types.RiskLevel, sig *types.EmotionSignal, deferToExternal bool) types.RiskLevel {
	if sig == nil {
		return local
	}
	external := SignalRisk(sig.Sentiment, sig.Intensity)
	if deferToExternal {
		// Local totals still count as evidence; they just never
		// overwrite an externally fused value on their own.
		return types.MaxRisk(external, local)
	}
	return types.MaxRisk(local, external)
}

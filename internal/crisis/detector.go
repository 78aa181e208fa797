// Package crisis computes the bounded crisis score, selects an intervention
// tier, and enforces the intervention cool-down.
package crisis

import (
	"fmt"
	"strings"

	"github.com/user/mindwell/internal/lexicon"
	"github.com/user/mindwell/internal/types"
)

// Assessment is the derived (never stored) outcome of one crisis check.
type Assessment struct {
	Score   int
	Reasons []string
	Tier    types.Tier
}

// Emotion labels that add the high-risk membership term. Labels the
// classifier invents that are not listed here simply contribute nothing.
var highRiskEmotions = map[string]bool{
	"depression":   true,
	"despair":      true,
	"hopeless":     true,
	"hopelessness": true,
	"suicidal":     true,
	"grief":        true,
	"抑郁":           true,
	"绝望":           true,
	"悲观":           true,
	"自杀":           true,
}

// Score weights. The base terms sum to 100 before keyword adjustments.
const (
	weightRiskHigh        = 40
	weightRiskMedium      = 25
	weightEmotionLabel    = 25
	weightIntensityStrong = 20 // intensity >= 0.8
	weightIntensityMild   = 10 // intensity >= 0.6
	weightSentimentStrong = 15 // sentiment <= -0.7
	weightSentimentMild   = 8  // sentiment <= -0.4
	weightCrisisKeyword   = 5
	weightRecoveryKeyword = 8
)

// Tier thresholds.
const (
	emergencyThreshold = 70
	highThreshold      = 50
	moderateThreshold  = 30
)

// Detector scores crisis signals. Stateless; cool-down lives in Policy.
type Detector struct{}

// NewDetector returns a crisis detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Assess combines the fused risk level, the classifier signal, and keyword
// evidence from the raw text into a score in [0,100] plus a tier. Callers
// must have run the attack guard and self-harm fast path first; this is the
// generic scorer only.
func (d *Detector) Assess(sig *types.EmotionSignal, risk types.RiskLevel, text string) Assessment {
	var a Assessment

	switch risk {
	case types.RiskHigh:
		a.Score += weightRiskHigh
		a.Reasons = append(a.Reasons, "risk level high")
	case types.RiskMedium:
		a.Score += weightRiskMedium
		a.Reasons = append(a.Reasons, "risk level medium")
	}

	if sig != nil {
		if highRiskEmotions[strings.ToLower(sig.Emotion)] {
			a.Score += weightEmotionLabel
			a.Reasons = append(a.Reasons, fmt.Sprintf("high-risk emotion %q", sig.Emotion))
		}
		switch {
		case sig.Intensity >= 0.8:
			a.Score += weightIntensityStrong
			a.Reasons = append(a.Reasons, "very high intensity")
		case sig.Intensity >= 0.6:
			a.Score += weightIntensityMild
			a.Reasons = append(a.Reasons, "high intensity")
		}
		switch {
		case sig.Sentiment <= -0.7:
			a.Score += weightSentimentStrong
			a.Reasons = append(a.Reasons, "strongly negative sentiment")
		case sig.Sentiment <= -0.4:
			a.Score += weightSentimentMild
			a.Reasons = append(a.Reasons, "negative sentiment")
		}
	}

	m := lexicon.Match(text)
	if n := len(m.Crisis); n > 0 {
		a.Score += n * weightCrisisKeyword
		a.Reasons = append(a.Reasons, fmt.Sprintf("%d crisis keyword(s)", n))
	}
	if n := len(m.Recovery); n > 0 {
		a.Score -= n * weightRecoveryKeyword
		a.Reasons = append(a.Reasons, fmt.Sprintf("%d recovery keyword(s)", n))
	}

	if a.Score < 0 {
		a.Score = 0
	}
	if a.Score > 100 {
		a.Score = 100
	}

	switch {
	case a.Score >= emergencyThreshold:
		a.Tier = types.TierEmergency
	case a.Score >= highThreshold:
		a.Tier = types.TierHigh
	case a.Score >= moderateThreshold:
		a.Tier = types.TierModerate
	default:
		a.Tier = types.TierNone
	}

	return a
}

// Package scoring converts lexicon hits into per-item severities and derives
// the local risk estimate from scale totals.
package scoring

import (
	"time"

	"github.com/user/mindwell/internal/lexicon"
	"github.com/user/mindwell/internal/types"
)

// Local risk thresholds over the source-of-truth scale totals.
const (
	depressionMedium = 10
	depressionHigh   = 15
	anxietyMedium    = 10
	anxietyHigh      = 15
	lowFloor         = 5
)

// Apply folds one turn's matches into the progress record: severities only
// ever move up (max of stored and candidate), topics are unioned, and the
// turn counter advances. The caller owns progress exclusively for the turn.
func Apply(p *types.SessionProgress, m lexicon.Matches, at time.Time) {
	for item, candidate := range m.Items {
		if candidate > types.MaxSeverity {
			candidate = types.MaxSeverity
		}
		if stored, ok := p.Severities[item]; !ok || candidate > stored {
			p.Severities[item] = candidate
		}
	}
	for _, topic := range m.Topics {
		p.Topics[topic] = true
	}
	p.TurnCount++
	p.UpdatedAt = at
}

// LocalRisk derives a risk estimate from the current scale totals alone.
// It is advisory: fusion decides what actually gets stored.
func LocalRisk(p *types.SessionProgress) types.RiskLevel {
	dep := p.ScaleTotal(types.ScaleDepression)
	anx := p.ScaleTotal(types.ScaleAnxiety)

	switch {
	case dep >= depressionHigh || anx >= anxietyHigh || p.Severity(types.ItemSelfHarm) > 0:
		return types.RiskHigh
	case dep >= depressionMedium || anx >= anxietyMedium:
		return types.RiskMedium
	case dep >= lowFloor || anx >= lowFloor:
		return types.RiskLow
	default:
		return types.RiskMinimal
	}
}

// Problems derives problem-type tags from the current totals. The tags feed
// the final report; they use the same thresholds as LocalRisk.
func Problems(p *types.SessionProgress) []string {
	var out []string
	if p.ScaleTotal(types.ScaleDepression) >= depressionMedium {
		out = append(out, "depressive_symptoms")
	}
	if p.ScaleTotal(types.ScaleAnxiety) >= anxietyMedium {
		out = append(out, "anxiety_symptoms")
	}
	if p.Severity(types.ItemSelfHarm) > 0 {
		out = append(out, "self_harm_risk")
	}
	return out
}

// DisplayTotal clamps a composite total to the scale's display cap
// (3 points per item). Presentation only; stored totals are never clamped.
func DisplayTotal(total int, s types.Scale) int {
	limit := len(types.DepressionItems()) * types.MaxSeverity
	if s == types.ScaleAnxiety {
		limit = len(types.AnxietyItems()) * types.MaxSeverity
	}
	if total > limit {
		return limit
	}
	return total
}

package engine

import (
	"time"

	"github.com/user/mindwell/internal/scoring"
	"github.com/user/mindwell/internal/types"
)

// buildResult produces the terminal report artifact for a finished
// assessment. Totals are clamped to the display cap here and only here;
// the stored per-item severities remain the source of truth.
func buildResult(p *types.SessionProgress, trend *types.EmotionTrend, now time.Time) *types.AssessmentResult {
	problems := scoring.Problems(p)
	return &types.AssessmentResult{
		ID:              types.NewReportID(),
		SessionID:       p.SessionID,
		DepressionTotal: scoring.DisplayTotal(p.ScaleTotal(types.ScaleDepression), types.ScaleDepression),
		AnxietyTotal:    scoring.DisplayTotal(p.ScaleTotal(types.ScaleAnxiety), types.ScaleAnxiety),
		Risk:            trend.Risk,
		Problems:        problems,
		Recommendations: recommendations(trend.Risk, problems),
		CreatedAt:       now,
	}
}

// recommendations maps the final risk level and problem tags to
// recommendation keys. The keys select externally managed content; the
// engine never renders recommendation text itself.
func recommendations(risk types.RiskLevel, problems []string) []string {
	var out []string
	switch risk {
	case types.RiskHigh:
		out = append(out, "seek_professional_help", "contact_counselor")
	case types.RiskMedium:
		out = append(out, "counseling_referral", "monitor_mood")
	case types.RiskLow:
		out = append(out, "self_care", "stay_connected")
	default:
		out = append(out, "maintain_routine")
	}
	for _, p := range problems {
		if p == "self_harm_risk" {
			out = append(out, "crisis_hotline")
			break
		}
	}
	return out
}

// internal/types/risk.go
package types

// RiskLevel is the ordered severity classification.
// minimal < low < medium < high.
type RiskLevel string

const (
	RiskMinimal RiskLevel = "minimal"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

// Priority returns the ordinal rank of the level (minimal=1 .. high=4).
// Unknown levels rank as minimal.
func (r RiskLevel) Priority() int {
	switch r {
	case RiskLow:
		return 2
	case RiskMedium:
		return 3
	case RiskHigh:
		return 4
	default:
		return 1
	}
}

// MaxRisk returns the more severe of two levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Priority() > a.Priority() {
		return b
	}
	if a.Priority() == 1 {
		return RiskMinimal
	}
	return a
}

// Phase is the conversational phase of a session. Transitions are
// unidirectional: exploration -> targeted -> completion.
type Phase string

const (
	PhaseExploration Phase = "exploration"
	PhaseTargeted    Phase = "targeted"
	PhaseCompletion  Phase = "completion"
)

// Tier is the intervention tier selected from the crisis score.
type Tier string

const (
	TierNone      Tier = "none"
	TierModerate  Tier = "moderate"
	TierHigh      Tier = "high"
	TierEmergency Tier = "emergency"
)

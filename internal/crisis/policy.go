// internal/crisis/policy.go
package crisis

import (
	"log/slog"
	"time"

	"github.com/user/mindwell/internal/types"
)

// DefaultCooldown is the minimum wall-clock gap between user-visible
// interventions in one session.
const DefaultCooldown = 30 * time.Second

// Policy decides whether an assessment becomes a user-visible intervention.
type Policy struct {
	Cooldown time.Duration
}

// NewPolicy returns a Policy with the given cool-down, or the default when
// zero.
func NewPolicy(cooldown time.Duration) *Policy {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Policy{Cooldown: cooldown}
}

// MaybeIntervene converts a tiered assessment into an Intervention, unless
// one was already emitted within the cool-down window. Suppressed
// interventions are logged with their reasons but produce no output; the
// suppression does not reset the window.
func (p *Policy) MaybeIntervene(a Assessment, last *time.Time, now time.Time) *types.Intervention {
	if a.Tier == types.TierNone {
		return nil
	}
	if last != nil && now.Sub(*last) < p.Cooldown {
		slog.Info("intervention suppressed by cool-down",
			"tier", string(a.Tier),
			"score", a.Score,
			"reasons", a.Reasons,
		)
		return nil
	}
	return &types.Intervention{
		Tier:       a.Tier,
		MessageKey: messageKey(a.Tier),
		Reasons:    a.Reasons,
		At:         now,
	}
}

func messageKey(tier types.Tier) string {
	switch tier {
	case types.TierEmergency:
		return "crisis.emergency"
	case types.TierHigh:
		return "crisis.high"
	default:
		return "crisis.moderate"
	}
}

// SelfHarmAssessment is the fixed assessment used by the self-harm fast
// path: maximum score, emergency tier.
func SelfHarmAssessment() Assessment {
	return Assessment{
		Score:   100,
		Reasons: []string{"self-referential self-harm language"},
		Tier:    types.TierEmergency,
	}
}

// SelfHarmMessageKey selects the dedicated support template for the fast path.
const SelfHarmMessageKey = "selfharm.support"

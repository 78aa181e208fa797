package engine

import (
	"time"

	"github.com/user/mindwell/internal/types"
)

// Phase budgets. Turn counts are whole turns; the meaningful budget only
// counts exchanges where both a question and a non-empty answer exist.
const (
	explorationTurnThreshold = 3
	defaultTurnBudget        = 8
	defaultMeaningfulBudget  = 6
)

// advancePhase moves the session forward through
// exploration -> targeted -> completion. Transitions never go backwards;
// a restart creates a new session instead of rewinding this one.
func advancePhase(p *types.SessionProgress, directive bool, now time.Time, turnBudget, meaningfulBudget int) {
	if p.Phase == types.PhaseExploration && p.TurnCount >= explorationTurnThreshold {
		p.Phase = types.PhaseTargeted
	}

	if p.Phase == types.PhaseCompletion {
		// Terminal. A stray "complete" directive here is a no-op.
		return
	}

	finalizeDue := p.FinalizeAt != nil && !now.Before(*p.FinalizeAt)
	if directive || finalizeDue {
		p.Phase = types.PhaseCompletion
		return
	}

	if p.Phase == types.PhaseTargeted &&
		(p.TurnCount >= turnBudget ||
			p.MeaningfulExchanges >= meaningfulBudget ||
			p.AllItemsScored()) {
		p.Phase = types.PhaseCompletion
	}
}

// internal/question/selector.go
package question

import (
	"math/rand"
	"strings"

	"github.com/user/mindwell/internal/types"
)

// Selector picks the next question for a session. The random source is
// injected so sessions can be replayed deterministically in tests.
type Selector struct {
	bank *Bank
}

// NewSelector creates a Selector over the given bank.
func NewSelector(bank *Bank) *Selector {
	return &Selector{bank: bank}
}

// Next returns the question to ask given the current phase and coverage.
// It returns ok=false in the completion phase: the caller must not prompt
// further. A question already asked this session is never repeated; the
// check runs against the full history because random selection can
// otherwise cycle.
func (s *Selector) Next(p *types.SessionProgress, rng *rand.Rand) (string, bool) {
	switch p.Phase {
	case types.PhaseCompletion:
		return "", false
	case types.PhaseTargeted:
		return s.nextTargeted(p, rng), true
	default:
		return s.nextOpen(p, rng), true
	}
}

func (s *Selector) nextOpen(p *types.SessionProgress, rng *rand.Rand) string {
	if q, ok := pick(filterAsked(s.bank.Open, p.AskedQuestions), rng); ok {
		return q
	}
	return s.bank.Continuation
}

func (s *Selector) nextTargeted(p *types.SessionProgress, rng *rand.Rand) string {
	uncovered := p.UncoveredItems()
	if len(uncovered) > 0 {
		item := uncovered[rng.Intn(len(uncovered))]
		if q, ok := pick(filterAsked(s.bank.ItemPrompts(item), p.AskedQuestions), rng); ok {
			return q
		}
		// Prompts for the drawn item are exhausted; try the others.
		for _, it := range uncovered {
			if q, ok := pick(filterAsked(s.bank.ItemPrompts(it), p.AskedQuestions), rng); ok {
				return q
			}
		}
	}
	if q, ok := pick(filterAsked(s.bank.Transitions, p.AskedQuestions), rng); ok {
		return q
	}
	return s.bank.Continuation
}

func pick(candidates []string, rng *rand.Rand) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// filterAsked drops candidates whose normalized text already appears in the
// asked history, by prefix or containment in either direction.
func filterAsked(candidates, asked []string) []string {
	var out []string
	for _, c := range candidates {
		if !alreadyAsked(c, asked) {
			out = append(out, c)
		}
	}
	return out
}

func alreadyAsked(candidate string, asked []string) bool {
	c := normalize(candidate)
	if c == "" {
		return true
	}
	for _, a := range asked {
		n := normalize(a)
		if n == "" {
			continue
		}
		if strings.Contains(n, c) || strings.Contains(c, n) {
			return true
		}
	}
	return false
}

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

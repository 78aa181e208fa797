// Package engine implements the per-turn assessment pipeline: lexicon
// scoring, emotion fusion, phase tracking, crisis checks, and finalization.
package engine

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/user/mindwell/internal/crisis"
	"github.com/user/mindwell/internal/fusion"
	"github.com/user/mindwell/internal/lexicon"
	"github.com/user/mindwell/internal/question"
	"github.com/user/mindwell/internal/scoring"
	"github.com/user/mindwell/internal/types"
	"github.com/user/mindwell/pkg/classifier"
)

const (
	defaultClassifyTimeout = 5 * time.Second
	defaultFinalizeDelay   = 60 * time.Second
)

// Options wires an Engine to its stores and collaborators. Sessions,
// Assessments, Turns, Reports, and Bank are required; the rest default.
type Options struct {
	Sessions    types.SessionStore
	Assessments types.AssessmentStore
	Turns       types.TurnStore
	Reports     types.ReportStore
	Bank        *question.Bank

	// Classifier is the external emotion service; nil runs local-only.
	Classifier      classifier.Provider
	ClassifyTimeout time.Duration

	// Responder generates empathetic acknowledgements; nil skips them.
	Responder *Responder

	Cooldown         time.Duration
	FinalizeDelay    time.Duration
	TurnBudget       int
	MeaningfulBudget int

	// Now is injectable for tests.
	Now func() time.Time

	// OnEmergency is invoked for emergency-tier interventions, after the
	// turn's state is persisted.
	OnEmergency func(types.SessionID, *types.Intervention)
}

// Engine processes one turn at a time per session. The gateway's
// per-session lanes guarantee exclusive ownership of the session state for
// the duration of ProcessTurn.
type Engine struct {
	sessions    types.SessionStore
	assessments types.AssessmentStore
	turns       types.TurnStore
	reports     types.ReportStore

	classifier      classifier.Provider
	classifyTimeout time.Duration
	responder       *Responder

	selector *question.Selector
	detector *crisis.Detector
	policy   *crisis.Policy

	finalizeDelay    time.Duration
	turnBudget       int
	meaningfulBudget int

	now         func() time.Time
	onEmergency func(types.SessionID, *types.Intervention)
}

// New creates an Engine from the given options.
func New(opts Options) *Engine {
	e := &Engine{
		sessions:         opts.Sessions,
		assessments:      opts.Assessments,
		turns:            opts.Turns,
		reports:          opts.Reports,
		classifier:       opts.Classifier,
		classifyTimeout:  opts.ClassifyTimeout,
		responder:        opts.Responder,
		selector:         question.NewSelector(opts.Bank),
		detector:         crisis.NewDetector(),
		policy:           crisis.NewPolicy(opts.Cooldown),
		finalizeDelay:    opts.FinalizeDelay,
		turnBudget:       opts.TurnBudget,
		meaningfulBudget: opts.MeaningfulBudget,
		now:              opts.Now,
		onEmergency:      opts.OnEmergency,
	}
	if e.classifyTimeout <= 0 {
		e.classifyTimeout = defaultClassifyTimeout
	}
	if e.finalizeDelay <= 0 {
		e.finalizeDelay = defaultFinalizeDelay
	}
	if e.turnBudget <= 0 {
		e.turnBudget = defaultTurnBudget
	}
	if e.meaningfulBudget <= 0 {
		e.meaningfulBudget = defaultMeaningfulBudget
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// ProcessTurn runs the full per-turn pipeline for one utterance and returns
// the reply the channel should deliver. The caller must serialize calls per
// session.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID types.SessionID, turn *types.InboundTurn) (*types.TurnReply, error) {
	progress, trend, err := e.assessments.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	reply := &types.TurnReply{SessionID: sessionID}

	if progress.Completed {
		// Terminal phase: no further prompting, just hand back the report.
		reply.Finalize = true
		if result, err := e.reports.Get(ctx, sessionID); err == nil {
			reply.Result = result
		}
		return reply, nil
	}

	now := e.now()
	sig := e.signalFor(ctx, turn)
	pendingQuestion := progress.LastQuestion

	attack := lexicon.AssistantAttack(turn.Text)
	selfHarm := !attack && lexicon.SelfHarm(turn.Text)

	matches := lexicon.Match(turn.Text)
	if attack {
		// Hostile phrases aimed at the assistant must not count as
		// self-referential self-harm evidence.
		matches.DropSelfHarm()
	}

	scoring.Apply(progress, matches, now)
	if pendingQuestion != "" && strings.TrimSpace(turn.Text) != "" {
		progress.MeaningfulExchanges++
	}

	if sig != nil {
		trend.Observe(now, sig.Emotion, sig.Intensity)
	}

	local := scoring.LocalRisk(progress)
	if sig != nil {
		trend.Risk = fusion.Fuse(local, sig, true)
	} else {
		// Local re-derivation alone may raise the stored level but never
		// silently downgrade it.
		trend.Risk = types.MaxRisk(trend.Risk, local)
	}

	var intervention *types.Intervention
	switch {
	case selfHarm:
		trend.Risk = types.RiskHigh
		if progress.FinalizeAt == nil {
			at := now.Add(e.finalizeDelay)
			progress.FinalizeAt = &at
		}
		intervention = e.policy.MaybeIntervene(crisis.SelfHarmAssessment(), progress.LastInterventionAt, now)
		if intervention != nil {
			intervention.MessageKey = crisis.SelfHarmMessageKey
		}
	case !attack:
		assessment := e.detector.Assess(sig, trend.Risk, turn.Text)
		if assessment.Tier == types.TierEmergency || assessment.Tier == types.TierHigh {
			// Safety override: never downgrade below high once a crisis
			// tier fires, regardless of the fused value.
			trend.Risk = types.RiskHigh
		}
		intervention = e.policy.MaybeIntervene(assessment, progress.LastInterventionAt, now)
	}
	if intervention != nil {
		progress.LastInterventionAt = &intervention.At
		reply.Intervention = intervention
	}

	advancePhase(progress, turn.Complete, now, e.turnBudget, e.meaningfulBudget)

	if progress.Phase == types.PhaseCompletion {
		result := buildResult(progress, trend, now)
		if err := e.reports.Put(ctx, result); err != nil {
			slog.Warn("report write failed", "session_id", string(sessionID), "error", err)
			if existing, getErr := e.reports.Get(ctx, sessionID); getErr == nil {
				result = existing
			}
		}
		progress.Completed = true
		progress.LastQuestion = ""
		reply.Finalize = true
		reply.Result = result
	} else if selfHarm {
		// The fast path bypasses question generation for this turn; the
		// support message stands alone.
		progress.LastQuestion = ""
	} else if q, ok := e.selector.Next(progress, e.rng(sessionID, progress.TurnCount)); ok {
		progress.AskedQuestions = append(progress.AskedQuestions, q)
		progress.LastQuestion = q
		reply.Prompt = q
		if e.responder != nil {
			if ack := e.responder.Acknowledge(ctx, pendingQuestion, turn.Text); ack != "" {
				reply.Prompt = ack + "\n\n" + q
			}
		}
	}

	logged := &types.Turn{
		ID:        types.NewTurnID(),
		SessionID: sessionID,
		Question:  pendingQuestion,
		Answer:    turn.Text,
		Signal:    sig,
		At:        now,
	}
	if err := e.turns.Append(ctx, logged); err != nil {
		return nil, err
	}
	if err := e.assessments.Save(ctx, sessionID, progress, trend); err != nil {
		return nil, err
	}
	if session, err := e.sessions.Get(ctx, sessionID); err == nil {
		session.LastTurnSeq = logged.Seq
		if progress.Completed {
			session.Status = "completed"
		}
		if err := e.sessions.Update(ctx, session); err != nil {
			slog.Warn("session index update failed", "session_id", string(sessionID), "error", err)
		}
	}

	if intervention != nil && intervention.Tier == types.TierEmergency && e.onEmergency != nil {
		e.onEmergency(sessionID, intervention)
	}

	return reply, nil
}

// OpeningPrompt returns the first question for a brand-new session without
// consuming a turn.
func (e *Engine) OpeningPrompt(ctx context.Context, sessionID types.SessionID) (string, error) {
	progress, trend, err := e.assessments.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if progress.Completed || progress.LastQuestion != "" {
		return "", nil
	}
	q, ok := e.selector.Next(progress, e.rng(sessionID, progress.TurnCount))
	if !ok {
		return "", nil
	}
	progress.AskedQuestions = append(progress.AskedQuestions, q)
	progress.LastQuestion = q
	if err := e.assessments.Save(ctx, sessionID, progress, trend); err != nil {
		return "", err
	}
	return q, nil
}

// Restart archives the active session for the key and clears its working
// assessment state, so the next turn starts a fresh session. The turn log
// and any final report stay on disk as history.
func (e *Engine) Restart(ctx context.Context, key types.SessionKey) (types.SessionID, error) {
	old, err := e.sessions.ResolveOrCreate(ctx, key)
	if err != nil {
		return "", err
	}
	// Progress, trend, and the cool-down timestamp live in one snapshot,
	// so this clears all three together.
	if err := e.assessments.Reset(ctx, old); err != nil {
		return "", err
	}
	if err := e.sessions.Archive(ctx, key); err != nil {
		return "", err
	}
	return e.sessions.ResolveOrCreate(ctx, key)
}

// FinalizeDue sweeps active sessions whose delayed finalization has come
// due between turns and finalizes them. Returns the finalized session IDs.
func (e *Engine) FinalizeDue(ctx context.Context) ([]types.SessionID, error) {
	sessions, err := e.sessions.List(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now()
	var done []types.SessionID
	for _, session := range sessions {
		if session.Status != "active" {
			continue
		}
		progress, trend, err := e.assessments.Load(ctx, session.SessionID)
		if err != nil {
			slog.Warn("finalize sweep load failed", "session_id", string(session.SessionID), "error", err)
			continue
		}
		if progress.Completed || progress.FinalizeAt == nil || now.Before(*progress.FinalizeAt) {
			continue
		}

		progress.Phase = types.PhaseCompletion
		result := buildResult(progress, trend, now)
		if err := e.reports.Put(ctx, result); err != nil {
			slog.Warn("report write failed", "session_id", string(session.SessionID), "error", err)
		}
		progress.Completed = true
		progress.LastQuestion = ""
		if err := e.assessments.Save(ctx, session.SessionID, progress, trend); err != nil {
			slog.Warn("finalize sweep save failed", "session_id", string(session.SessionID), "error", err)
			continue
		}
		session.Status = "completed"
		if err := e.sessions.Update(ctx, session); err != nil {
			slog.Warn("session index update failed", "session_id", string(session.SessionID), "error", err)
		}
		done = append(done, session.SessionID)
	}
	return done, nil
}

// signalFor returns the emotion signal for the turn: the inline one if the
// channel supplied it, otherwise a best-effort classifier call. Classifier
// failure degrades to nil; scoring proceeds local-only.
func (e *Engine) signalFor(ctx context.Context, turn *types.InboundTurn) *types.EmotionSignal {
	if turn.Signal != nil {
		return turn.Signal
	}
	if e.classifier == nil || strings.TrimSpace(turn.Text) == "" {
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, e.classifyTimeout)
	defer cancel()

	sig, err := e.classifier.Classify(cctx, turn.Text)
	if err != nil {
		slog.Warn("classifier unavailable, using local estimate", "error", err)
		return nil
	}
	return &types.EmotionSignal{
		Emotion:   sig.Emotion,
		Intensity: sig.Intensity,
		Sentiment: sig.Sentiment,
		Keywords:  sig.Keywords,
	}
}

// rng returns the per-turn random source: seeded from the session ID so a
// session replays deterministically, advanced by turn count so draws differ
// across turns.
func (e *Engine) rng(sessionID types.SessionID, turnCount int) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(sessionID))
	return rand.New(rand.NewSource(int64(h.Sum64()) + int64(turnCount)))
}

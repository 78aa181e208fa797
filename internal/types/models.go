// internal/types/models.go
package types

import (
	"time"
)

// EmotionSignal is the per-turn output of the external emotion classifier.
// It is consumed read-only; the engine never owns or mutates it.
type EmotionSignal struct {
	Emotion   string   `json:"emotion"`
	Intensity float64  `json:"intensity"` // [0,1]
	Sentiment float64  `json:"sentiment"` // [-1,1]
	Keywords  []string `json:"keywords,omitempty"`
}

// SessionProgress is the engine-owned per-session assessment state.
// It is mutated by exactly one turn handler at a time.
type SessionProgress struct {
	SessionID           SessionID      `json:"session_id"`
	Phase               Phase          `json:"phase"`
	TurnCount           int            `json:"turn_count"`
	MeaningfulExchanges int            `json:"meaningful_exchanges"`
	Severities          map[ItemID]int `json:"severities"`
	Topics              map[Topic]bool `json:"topics"`
	AskedQuestions      []string       `json:"asked_questions,omitempty"`
	LastQuestion        string         `json:"last_question,omitempty"`
	StartedAt           time.Time      `json:"started_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	LastInterventionAt  *time.Time     `json:"last_intervention_at,omitempty"`
	FinalizeAt          *time.Time     `json:"finalize_at,omitempty"`
	Completed           bool           `json:"completed"`
}

// NewSessionProgress creates a fresh progress record in the exploration phase.
func NewSessionProgress(id SessionID, now time.Time) *SessionProgress {
	return &SessionProgress{
		SessionID:  id,
		Phase:      PhaseExploration,
		Severities: make(map[ItemID]int),
		Topics:     make(map[Topic]bool),
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// Severity returns the current max severity recorded for an item (0 if none).
func (p *SessionProgress) Severity(id ItemID) int {
	return p.Severities[id]
}

// ScaleTotal sums the current per-item severities for one scale. This is the
// source-of-truth total and is not clamped to the display cap.
func (p *SessionProgress) ScaleTotal(s Scale) int {
	var items []ItemID
	if s == ScaleAnxiety {
		items = AnxietyItems()
	} else {
		items = DepressionItems()
	}
	total := 0
	for _, it := range items {
		total += p.Severities[it]
	}
	return total
}

// AllItemsScored reports whether every one of the 16 items has a recorded severity.
func (p *SessionProgress) AllItemsScored() bool {
	for _, it := range AllItems() {
		if _, ok := p.Severities[it]; !ok {
			return false
		}
	}
	return true
}

// UncoveredItems returns the items with no recorded severity, in fixed order.
func (p *SessionProgress) UncoveredItems() []ItemID {
	var out []ItemID
	for _, it := range AllItems() {
		if _, ok := p.Severities[it]; !ok {
			out = append(out, it)
		}
	}
	return out
}

// TrendEntry is one observation in the emotion trend.
type TrendEntry struct {
	At        time.Time `json:"at"`
	Emotion   string    `json:"emotion"`
	Intensity float64   `json:"intensity"`
}

// EmotionTrend is the append-only emotion history plus the authoritative
// fused RiskLevel for the session.
type EmotionTrend struct {
	Entries  []TrendEntry `json:"entries,omitempty"`
	Dominant string       `json:"dominant,omitempty"`
	Risk     RiskLevel    `json:"risk"`
}

// NewEmotionTrend returns an empty trend at minimal risk.
func NewEmotionTrend() *EmotionTrend {
	return &EmotionTrend{Risk: RiskMinimal}
}

// Observe appends an entry and updates the dominant emotion.
func (t *EmotionTrend) Observe(at time.Time, emotion string, intensity float64) {
	t.Entries = append(t.Entries, TrendEntry{At: at, Emotion: emotion, Intensity: intensity})
	if emotion != "" {
		t.Dominant = emotion
	}
}

// Turn is one logged exchange: the question that was pending, the answer the
// user gave, and the classifier signal for that answer if one was available.
type Turn struct {
	ID        TurnID         `json:"id"`
	SessionID SessionID      `json:"session_id"`
	Seq       int64          `json:"seq"`
	Question  string         `json:"question,omitempty"`
	Answer    string         `json:"answer"`
	Signal    *EmotionSignal `json:"signal,omitempty"`
	At        time.Time      `json:"at"`
}

// Intervention is the user-visible outcome of a crisis assessment.
// MessageKey selects an externally managed message template.
type Intervention struct {
	Tier       Tier      `json:"tier"`
	MessageKey string    `json:"message_key"`
	Reasons    []string  `json:"reasons,omitempty"`
	At         time.Time `json:"at"`
}

// AssessmentResult is the terminal artifact of a finished assessment.
// Immutable once produced.
type AssessmentResult struct {
	ID              ReportID  `json:"id"`
	SessionID       SessionID `json:"session_id"`
	DepressionTotal int       `json:"depression_total"`
	AnxietyTotal    int       `json:"anxiety_total"`
	Risk            RiskLevel `json:"risk"`
	Problems        []string  `json:"problems,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// InboundTurn is a raw user utterance arriving from any channel.
// Signal is optional; when set it is used instead of calling the classifier.
type InboundTurn struct {
	Source     string         `json:"source"`
	SessionKey SessionKey     `json:"session_key"`
	UserID     string         `json:"user_id"`
	Text       string         `json:"text"`
	Signal     *EmotionSignal `json:"signal,omitempty"`
	// Complete requests assessment finalization regardless of phase budget.
	Complete bool `json:"complete,omitempty"`
}

// TurnReply is what the engine hands back to the orchestrating channel
// after processing one turn.
type TurnReply struct {
	SessionID    SessionID         `json:"session_id"`
	Prompt       string            `json:"prompt,omitempty"`
	Intervention *Intervention     `json:"intervention,omitempty"`
	Finalize     bool              `json:"finalize"`
	Result       *AssessmentResult `json:"result,omitempty"`
}

// SessionIndex is the session bookkeeping record.
type SessionIndex struct {
	SessionID   SessionID  `json:"session_id"`
	SessionKey  SessionKey `json:"session_key"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastTurnSeq int64      `json:"last_turn_seq"`
}

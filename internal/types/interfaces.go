// internal/types/interfaces.go
package types

import (
	"context"
)

type SessionStore interface {
	ResolveOrCreate(ctx context.Context, key SessionKey) (SessionID, error)
	Get(ctx context.Context, id SessionID) (*SessionIndex, error)
	List(ctx context.Context) ([]*SessionIndex, error)
	Update(ctx context.Context, session *SessionIndex) error
	// Archive marks the active session for key as archived so the next
	// ResolveOrCreate starts a fresh session.
	Archive(ctx context.Context, key SessionKey) error
}

// AssessmentStore persists the SessionProgress/EmotionTrend pair. Load
// returns fresh zero-state records for sessions with no snapshot yet; Reset
// removes the pair atomically.
type AssessmentStore interface {
	Load(ctx context.Context, id SessionID) (*SessionProgress, *EmotionTrend, error)
	Save(ctx context.Context, id SessionID, progress *SessionProgress, trend *EmotionTrend) error
	Reset(ctx context.Context, id SessionID) error
}

type TurnStore interface {
	Append(ctx context.Context, turn *Turn) error
	Tail(ctx context.Context, sessionID SessionID, limit int) ([]*Turn, error)
	Count(ctx context.Context, sessionID SessionID) (int64, error)
}

type ReportStore interface {
	Put(ctx context.Context, result *AssessmentResult) error
	Get(ctx context.Context, sessionID SessionID) (*AssessmentResult, error)
}

package gateway

import (
	"context"
	"time"

	"github.com/user/mindwell/internal/types"
)

// RunStatus represents the lifecycle state of a Run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run tracks a single processing pass of an inbound turn against a session.
type Run struct {
	ID         types.RunID
	SessionID  types.SessionID
	Turn       *types.InboundTurn
	Status     RunStatus
	Attempts   int
	CreatedAt  time.Time
	StartedAt  *time.Time
	EndedAt    *time.Time
	Error      error
	Ctx        context.Context
	OnComplete func(reply *types.TurnReply)
	OnError    func(err error)
}

// NewRun creates a Run in the Queued state for the given session and turn.
func NewRun(sessionID types.SessionID, turn *types.InboundTurn) *Run {
	return &Run{
		ID:        types.NewRunID(),
		SessionID: sessionID,
		Turn:      turn,
		Status:    RunStatusQueued,
		Attempts:  0,
		CreatedAt: time.Now(),
	}
}

package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/mindwell/internal/types"
)

// Gateway orchestrates inbound turns into runs. It resolves (or creates)
// sessions, wraps each turn in a Run, and enqueues the run for processing.
// Per-session FIFO lanes in the queue guarantee that two turns for the same
// session can never be processed concurrently.
type Gateway struct {
	sessions types.SessionStore
	Queue    *Queue
	retry    *RetryPolicy

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Gateway wired to the session store with the given
// concurrency limit for simultaneous turn processing.
func New(sessions types.SessionStore, maxConcurrent ...int64) *Gateway {
	var concurrency int64 = 2
	if len(maxConcurrent) > 0 && maxConcurrent[0] > 0 {
		concurrency = maxConcurrent[0]
	}
	return &Gateway{
		sessions: sessions,
		Queue:    NewQueue(concurrency),
		retry:    DefaultRetryPolicy(),
	}
}

// Start initialises the gateway's context and starts the internal queue.
func (g *Gateway) Start(ctx context.Context) {
	g.ctx, g.cancel = context.WithCancel(ctx)
	g.Queue.Start(g.ctx)
}

// Stop cancels the gateway context, stops the queue, and waits for any
// outstanding work to finish.
func (g *Gateway) Stop() {
	if g.cancel != nil {
		g.cancel()
	}
	g.Queue.Stop()
	g.wg.Wait()
}

// SetProcessor installs the turn processor, wrapping it with the retry
// policy so transient failures are retried with backoff.
func (g *Gateway) SetProcessor(fn func(*Run) error) {
	retry := g.retry
	g.Queue.SetProcessor(func(run *Run) error {
		return retry.Execute(func() error {
			run.Attempts++
			return fn(run)
		})
	})
}

// RunOption configures optional behavior on a Run.
type RunOption func(*Run)

// WithOnComplete sets a callback invoked when the run produces a reply.
func WithOnComplete(fn func(*types.TurnReply)) RunOption {
	return func(r *Run) { r.OnComplete = fn }
}

// WithOnError sets a callback invoked when the run fails after retries.
func WithOnError(fn func(error)) RunOption {
	return func(r *Run) { r.OnError = fn }
}

// HandleInbound resolves or creates a session for the turn, wraps it in a
// Run, and enqueues it for processing.
func (g *Gateway) HandleInbound(ctx context.Context, turn *types.InboundTurn, opts ...RunOption) error {
	sessionID, err := g.sessions.ResolveOrCreate(ctx, turn.SessionKey)
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}
	run := NewRun(sessionID, turn)
	for _, opt := range opts {
		opt(run)
	}
	return g.Queue.Enqueue(run)
}

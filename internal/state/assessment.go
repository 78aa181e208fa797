// internal/state/assessment.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/mindwell/internal/types"
)

// snapshot is the on-disk format for assessment state. Progress and trend
// live in one file so a crash can never leave the pair half-written.
type snapshot struct {
	Progress *types.SessionProgress `json:"progress"`
	Trend    *types.EmotionTrend    `json:"trend"`
}

// AssessmentStore persists per-session assessment snapshots at
// sessions/<sessionID>/assessment.json.
type AssessmentStore struct {
	root  string
	mu    sync.Mutex
	locks map[types.SessionID]*sync.Mutex
}

// NewAssessmentStore creates a new file-backed AssessmentStore rooted at the given directory.
func NewAssessmentStore(root string) *AssessmentStore {
	return &AssessmentStore{
		root:  root,
		locks: make(map[types.SessionID]*sync.Mutex),
	}
}

// getLock returns the per-session mutex, creating one if it doesn't exist.
func (a *AssessmentStore) getLock(sessionID types.SessionID) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	if lock, ok := a.locks[sessionID]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	a.locks[sessionID] = lock
	return lock
}

func (a *AssessmentStore) snapshotPath(sessionID types.SessionID) string {
	return filepath.Join(a.root, "sessions", string(sessionID), "assessment.json")
}

// Load returns the progress and trend for the session. A session with no
// snapshot yet gets fresh zero-state records.
func (a *AssessmentStore) Load(_ context.Context, id types.SessionID) (*types.SessionProgress, *types.EmotionTrend, error) {
	lock := a.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	data, err := os.ReadFile(a.snapshotPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return types.NewSessionProgress(id, time.Now()), types.NewEmotionTrend(), nil
		}
		return nil, nil, fmt.Errorf("read assessment snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, fmt.Errorf("unmarshal assessment snapshot: %w", err)
	}
	if snap.Progress == nil || snap.Trend == nil {
		return nil, nil, fmt.Errorf("incomplete assessment snapshot for %s", id)
	}
	if snap.Progress.Severities == nil {
		snap.Progress.Severities = make(map[types.ItemID]int)
	}
	if snap.Progress.Topics == nil {
		snap.Progress.Topics = make(map[types.Topic]bool)
	}
	return snap.Progress, snap.Trend, nil
}

// Save writes the progress/trend pair atomically.
func (a *AssessmentStore) Save(_ context.Context, id types.SessionID, progress *types.SessionProgress, trend *types.EmotionTrend) error {
	lock := a.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	snap := snapshot{Progress: progress, Trend: trend}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal assessment snapshot: %w", err)
	}

	target := a.snapshotPath(id)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	// Atomic write: write to temp file then rename
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp snapshot: %w", err)
	}
	return nil
}

// Reset removes the snapshot so the next Load starts from zero state.
// Because progress and trend share one file they can never be reset
// independently of each other.
func (a *AssessmentStore) Reset(_ context.Context, id types.SessionID) error {
	lock := a.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(a.snapshotPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove assessment snapshot: %w", err)
	}
	return nil
}

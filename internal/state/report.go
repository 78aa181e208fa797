// internal/state/report.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/mindwell/internal/types"
)

// ReportStore stores one final assessment result per session at
// sessions/<sessionID>/report.json. Results are immutable; Put refuses
// to overwrite an existing report.
type ReportStore struct {
	root string
	mu   sync.Mutex
}

// NewReportStore creates a new file-backed ReportStore rooted at the given directory.
func NewReportStore(root string) *ReportStore {
	return &ReportStore{root: root}
}

func (r *ReportStore) reportPath(sessionID types.SessionID) string {
	return filepath.Join(r.root, "sessions", string(sessionID), "report.json")
}

// Put stores a final result. Returns an error if the session already has one.
func (r *ReportStore) Put(_ context.Context, result *types.AssessmentResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.reportPath(result.SessionID)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("report already exists for session %s", result.SessionID)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	// Atomic write: write to temp file then rename
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp report: %w", err)
	}
	return nil
}

// Get returns the final result for the given session.
func (r *ReportStore) Get(_ context.Context, sessionID types.SessionID) (*types.AssessmentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.reportPath(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no report for session %s", sessionID)
		}
		return nil, fmt.Errorf("read report: %w", err)
	}

	var result types.AssessmentResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &result, nil
}

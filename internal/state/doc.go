// Package state provides filesystem-backed storage implementations.
package state

import "github.com/user/mindwell/internal/types"

// Compile-time interface compliance checks.
var _ types.SessionStore = (*SessionStore)(nil)
var _ types.AssessmentStore = (*AssessmentStore)(nil)
var _ types.TurnStore = (*TurnStore)(nil)
var _ types.ReportStore = (*ReportStore)(nil)

// Package classifier defines the interface to an external emotion
// classification service.
package classifier

import (
	"context"
	"time"
)

// Signal is the classifier's reading of a single utterance.
type Signal struct {
	Emotion   string   `json:"emotion"`
	Intensity float64  `json:"intensity"` // [0,1]
	Sentiment float64  `json:"sentiment"` // [-1,1]
	Keywords  []string `json:"keywords,omitempty"`
}

// Provider defines the interface for classifier backends.
type Provider interface {
	// Classify analyzes one utterance and returns its emotion signal.
	Classify(ctx context.Context, text string) (*Signal, error)
}

// Config holds common configuration for classifier providers.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

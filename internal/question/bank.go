// Package question owns the question bank and the per-phase selector.
package question

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/mindwell/internal/types"
)

//go:embed questions.yaml
var defaultBank []byte

// Bank holds the question pools: open-ended prompts for exploration,
// per-item dialogue prompts for the targeted phase, transition prompts,
// and a generic continuation fallback.
type Bank struct {
	Open         []string            `yaml:"open"`
	Transitions  []string            `yaml:"transitions"`
	Continuation string              `yaml:"continuation"`
	Items        map[string][]string `yaml:"items"`
}

// DefaultBank parses the embedded question bank.
func DefaultBank() (*Bank, error) {
	return parseBank(defaultBank)
}

// LoadBank reads and parses a question bank YAML file.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return parseBank(data)
}

func parseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("unmarshal question bank: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Bank) validate() error {
	if len(b.Open) == 0 {
		return fmt.Errorf("question bank has no open prompts")
	}
	if b.Continuation == "" {
		return fmt.Errorf("question bank has no continuation prompt")
	}
	for key := range b.Items {
		if !types.ValidItem(types.ItemID(key)) {
			return fmt.Errorf("question bank has unknown item %q", key)
		}
	}
	return nil
}

// ItemPrompts returns the dialogue prompts for one clinical item.
func (b *Bank) ItemPrompts(id types.ItemID) []string {
	return b.Items[string(id)]
}

package dialogue

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Trimmer fits a system prompt plus conversation history into a model's
// token budget, dropping the oldest history first.
type Trimmer struct {
	tokenizer *tiktoken.Tiktoken
	maxTokens int
	reserve   int
}

// NewTrimmer creates a trimmer for the given model's context window.
// maxTokens is the window size; reserve is held back for the response.
func NewTrimmer(model string, maxTokens, reserve int) (*Trimmer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Fallback to cl100k_base for unknown models
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Trimmer{
		tokenizer: enc,
		maxTokens: maxTokens,
		reserve:   reserve,
	}, nil
}

// countTokens returns the token count for a string.
func (t *Trimmer) countTokens(text string) int {
	return len(t.tokenizer.Encode(text, nil, nil))
}

// Trim assembles system + history into a message list that fits the input
// budget. The system prompt is always kept; history is dropped oldest-first
// until the remainder fits.
func (t *Trimmer) Trim(system string, history []Message) []Message {
	inputBudget := t.maxTokens - t.reserve
	remaining := inputBudget - t.countTokens(system)

	// Walk backwards so the most recent exchanges survive
	start := len(history)
	used := 0
	for i := len(history) - 1; i >= 0; i-- {
		n := t.countTokens(history[i].Content)
		if used+n > remaining {
			break
		}
		used += n
		start = i
	}

	messages := make([]Message, 0, 1+len(history)-start)
	messages = append(messages, Message{Role: "system", Content: system})
	messages = append(messages, history[start:]...)
	return messages
}

package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/user/mindwell/pkg/dialogue"
)

const responderSystemPrompt = "你是一位温和的学校心理咨询助手。用一两句话共情地回应学生刚才说的话。" +
	"不要提问，不要给出诊断或建议，不要提及评估或量表。"

// Responder turns the student's answer into a short empathetic
// acknowledgement via the dialogue model. Strictly best-effort: any failure
// yields an empty string and the caller falls back to the bare question.
type Responder struct {
	provider dialogue.Provider
	trimmer  *dialogue.Trimmer
}

// NewResponder creates a Responder over the given provider and trimmer.
func NewResponder(provider dialogue.Provider, trimmer *dialogue.Trimmer) *Responder {
	return &Responder{provider: provider, trimmer: trimmer}
}

// Acknowledge generates the acknowledgement for one exchange.
func (r *Responder) Acknowledge(ctx context.Context, askedQuestion, answer string) string {
	if r == nil || r.provider == nil || strings.TrimSpace(answer) == "" {
		return ""
	}

	history := []dialogue.Message{}
	if askedQuestion != "" {
		history = append(history, dialogue.Message{Role: "assistant", Content: askedQuestion})
	}
	history = append(history, dialogue.Message{Role: "user", Content: answer})

	var messages []dialogue.Message
	if r.trimmer != nil {
		messages = r.trimmer.Trim(responderSystemPrompt, history)
	} else {
		messages = append([]dialogue.Message{{Role: "system", Content: responderSystemPrompt}}, history...)
	}

	resp, err := r.provider.Complete(ctx, messages)
	if err != nil {
		slog.Warn("acknowledgement generation failed", "error", err)
		return ""
	}
	return strings.TrimSpace(resp.Content)
}

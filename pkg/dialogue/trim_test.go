package dialogue

import (
	"strings"
	"testing"
)

func TestNewTrimmer(t *testing.T) {
	tr, err := NewTrimmer("gpt-4", 8192, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if tr == nil {
		t.Fatal("expected non-nil trimmer")
	}
}

func TestNewTrimmerUnknownModel(t *testing.T) {
	// Unknown models fall back to cl100k_base
	tr, err := NewTrimmer("some-future-model", 8192, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if tr == nil {
		t.Fatal("expected non-nil trimmer")
	}
}

func TestTrimKeepsEverythingUnderBudget(t *testing.T) {
	tr, err := NewTrimmer("gpt-4", 8192, 1024)
	if err != nil {
		t.Fatal(err)
	}

	history := []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "how are you"},
	}
	messages := tr.Trim("system prompt", history)

	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if messages[0].Role != "system" {
		t.Error("first message should be the system prompt")
	}
	if messages[3].Content != "how are you" {
		t.Error("history order should be preserved")
	}
}

func TestTrimDropsOldestFirst(t *testing.T) {
	// Tiny budget: only the most recent short message fits
	tr, err := NewTrimmer("gpt-4", 30, 10)
	if err != nil {
		t.Fatal(err)
	}

	history := []Message{
		{Role: "user", Content: strings.Repeat("old message ", 50)},
		{Role: "assistant", Content: "ok"},
	}
	messages := tr.Trim("sys", history)

	if len(messages) != 2 {
		t.Fatalf("expected system + 1 message, got %d", len(messages))
	}
	if messages[1].Content != "ok" {
		t.Errorf("expected most recent message kept, got %q", messages[1].Content)
	}
}

func TestTrimAlwaysKeepsSystem(t *testing.T) {
	tr, err := NewTrimmer("gpt-4", 10, 9)
	if err != nil {
		t.Fatal(err)
	}

	messages := tr.Trim("a very long system prompt that blows the whole budget", []Message{
		{Role: "user", Content: "hello"},
	})
	if len(messages) != 1 || messages[0].Role != "system" {
		t.Errorf("expected only the system message, got %v", messages)
	}
}

package question

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/user/mindwell/internal/types"
)

func TestDefaultBank(t *testing.T) {
	b, err := DefaultBank()
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Open) == 0 {
		t.Error("expected open prompts")
	}
	if b.Continuation == "" {
		t.Error("expected a continuation prompt")
	}
	// Every clinical item needs at least one dialogue prompt.
	for _, it := range types.AllItems() {
		if len(b.ItemPrompts(it)) == 0 {
			t.Errorf("no prompts for item %s", it)
		}
	}
}

func TestLoadBankOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.yaml")
	data := []byte("open:\n  - \"first question\"\ncontinuation: \"go on\"\nitems:\n  dep_sleep:\n    - \"how is your sleep\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := LoadBank(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Open) != 1 || b.Open[0] != "first question" {
		t.Errorf("unexpected open prompts: %v", b.Open)
	}
}

func TestLoadBankRejectsUnknownItem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.yaml")
	data := []byte("open:\n  - \"q\"\ncontinuation: \"go on\"\nitems:\n  not_an_item:\n    - \"?\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBank(path); err == nil {
		t.Error("expected error for unknown item key")
	}
}

func TestLoadBankMissing(t *testing.T) {
	if _, err := LoadBank(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

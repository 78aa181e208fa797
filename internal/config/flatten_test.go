package config

import (
	"reflect"
	"testing"
)

func TestFlatten(t *testing.T) {
	in := map[string]any{
		"log_level": "info",
		"dialogue": map[string]any{
			"model":      "gpt-4",
			"max_tokens": float64(2000),
		},
		"assessment": map[string]any{
			"turn_budget": float64(8),
		},
	}

	got := Flatten(in)
	want := map[string]any{
		"log_level":              "info",
		"dialogue.model":         "gpt-4",
		"dialogue.max_tokens":    float64(2000),
		"assessment.turn_budget": float64(8),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %v, want %v", got, want)
	}
}

func TestFlattenEmpty(t *testing.T) {
	got := Flatten(map[string]any{})
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestUnflatten(t *testing.T) {
	in := map[string]any{
		"log_level":      "debug",
		"dialogue.model": "gpt-4",
		"http.enabled":   true,
	}

	got := Unflatten(in)

	if got["log_level"] != "debug" {
		t.Errorf("expected log_level=debug, got %v", got["log_level"])
	}
	dia, ok := got["dialogue"].(map[string]any)
	if !ok {
		t.Fatalf("expected dialogue to be map, got %T", got["dialogue"])
	}
	if dia["model"] != "gpt-4" {
		t.Errorf("expected dialogue.model=gpt-4, got %v", dia["model"])
	}
	httpM, ok := got["http"].(map[string]any)
	if !ok {
		t.Fatalf("expected http to be map, got %T", got["http"])
	}
	if httpM["enabled"] != true {
		t.Errorf("expected http.enabled=true, got %v", httpM["enabled"])
	}
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	original := map[string]any{
		"data_dir": "/tmp/x",
		"telegram": map[string]any{
			"token":             "abc",
			"counselor_chat_id": float64(42),
		},
	}

	got := Unflatten(Flatten(original))
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round trip = %v, want %v", got, original)
	}
}

func TestIsSecretKey(t *testing.T) {
	for _, key := range []string{"classifier.api_key", "dialogue.api_key", "telegram.token"} {
		if !IsSecretKey(key) {
			t.Errorf("%s should be secret", key)
		}
	}
	if IsSecretKey("log_level") {
		t.Error("log_level should not be secret")
	}
}

func TestMaskSecrets(t *testing.T) {
	in := map[string]any{
		"dialogue.api_key":   "sk-very-secret-9876",
		"telegram.token":     "ab",
		"classifier.api_key": "",
		"log_level":          "info",
	}

	got := MaskSecrets(in)

	if got["dialogue.api_key"] != "***9876" {
		t.Errorf("expected ***9876, got %v", got["dialogue.api_key"])
	}
	// Short secrets keep the full value behind the mask
	if got["telegram.token"] != "***ab" {
		t.Errorf("expected ***ab, got %v", got["telegram.token"])
	}
	// Empty secrets stay empty
	if got["classifier.api_key"] != "" {
		t.Errorf("expected empty, got %v", got["classifier.api_key"])
	}
	if got["log_level"] != "info" {
		t.Errorf("expected log_level untouched, got %v", got["log_level"])
	}
}

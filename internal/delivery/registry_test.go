// internal/delivery/registry_test.go
package delivery

import (
	"testing"
)

func TestRegistryDeliver(t *testing.T) {
	reg := NewRegistry()

	var gotKey, gotMsg string
	reg.Register("telegram:", func(sessionKey, message string) error {
		gotKey = sessionKey
		gotMsg = message
		return nil
	})

	err := reg.Deliver("telegram:42", "这周过得怎么样？")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "telegram:42" {
		t.Errorf("expected session key %q, got %q", "telegram:42", gotKey)
	}
	if gotMsg != "这周过得怎么样？" {
		t.Errorf("unexpected message %q", gotMsg)
	}
}

func TestRegistryNoHandler(t *testing.T) {
	reg := NewRegistry()

	err := reg.Deliver("unknown:123", "hello")
	if err == nil {
		t.Fatal("expected error for unregistered prefix, got nil")
	}
}

func TestRegistryMultiplePrefixes(t *testing.T) {
	reg := NewRegistry()

	var telegramCalls, webhookCalls int
	reg.Register("telegram:", func(sessionKey, message string) error {
		telegramCalls++
		return nil
	})
	reg.Register("webhook:", func(sessionKey, message string) error {
		webhookCalls++
		return nil
	})

	if err := reg.Deliver("telegram:42:100", "msg1"); err != nil {
		t.Fatalf("telegram deliver error: %v", err)
	}
	if err := reg.Deliver("webhook:stu-1", "msg2"); err != nil {
		t.Fatalf("webhook deliver error: %v", err)
	}

	if telegramCalls != 1 {
		t.Errorf("expected 1 telegram call, got %d", telegramCalls)
	}
	if webhookCalls != 1 {
		t.Errorf("expected 1 webhook call, got %d", webhookCalls)
	}
}

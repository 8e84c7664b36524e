package insight

import (
	"context"
	"strings"
	"testing"
)

func TestFallbackMessageWeighting(t *testing.T) {
	strongDay := FallbackMessage(Stats{CompletionRate: 85})
	if !strings.Contains(strongDay, "Outstanding progress") {
		t.Errorf("strong day got %q", strongDay)
	}

	longStreak := FallbackMessage(Stats{CompletionRate: 40, CurrentStreak: 12})
	if !strings.Contains(longStreak, "12 days strong") {
		t.Errorf("long streak got %q", longStreak)
	}

	// High completion wins over the streak line.
	both := FallbackMessage(Stats{CompletionRate: 90, CurrentStreak: 30})
	if !strings.Contains(both, "Outstanding progress") {
		t.Errorf("combined stats got %q", both)
	}

	// Ordinary days draw from the canned pool.
	ordinary := FallbackMessage(Stats{CompletionRate: 50, CurrentStreak: 3})
	found := false
	for _, msg := range fallbackMessages {
		if ordinary == msg {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("ordinary day message %q is not from the pool", ordinary)
	}
}

func TestGenerateWithoutKeyUsesFallback(t *testing.T) {
	client := NewClient("")

	got, err := client.Generate(context.Background(), "any prompt", Stats{CompletionRate: 80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Outstanding progress") {
		t.Errorf("expected weighted fallback, got %q", got)
	}
}

package registration

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/nova-graduation/backend/config"
)

func TestIssueRollingExpiry(t *testing.T) {
	fixed := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	iss := NewIssuer(config.TokenConfig{Mode: config.TokenModeRolling, TTL: 48 * time.Hour})
	iss.now = func() time.Time { return fixed }

	token, expiry, err := iss.Issue()
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Errorf("token %q is not hex: %v", token, err)
	}
	if want := fixed.Add(48 * time.Hour); !expiry.Equal(want) {
		t.Errorf("expiry = %v, want %v", expiry, want)
	}
}

func TestIssueFixedDeadline(t *testing.T) {
	deadline := time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC)
	iss := NewIssuer(config.TokenConfig{Mode: config.TokenModeFixed, Deadline: deadline})

	_, first, err := iss.Issue()
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := iss.Issue()
	if err != nil {
		t.Fatal(err)
	}
	if !first.Equal(deadline) || !second.Equal(deadline) {
		t.Errorf("expiries = %v, %v, want shared deadline %v", first, second, deadline)
	}
}

func TestIssueUniqueness(t *testing.T) {
	iss := NewIssuer(config.TokenConfig{Mode: config.TokenModeRolling, TTL: time.Hour})
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		token, _, err := iss.Issue()
		if err != nil {
			t.Fatal(err)
		}
		if seen[token] {
			t.Fatalf("duplicate token after %d issues", i)
		}
		seen[token] = true
	}
}

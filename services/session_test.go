package services

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	token, issued, err := m.Issue(7, "Alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.StaffID != 7 || id.StaffName != "Alice" {
		t.Fatalf("unexpected identity %+v", id)
	}
	if !id.ExpiresAt.Equal(issued.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v vs %v", id.ExpiresAt, issued.ExpiresAt)
	}
}

func TestSessionRejectsBadTokens(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	token, _, err := m.Issue(7, "Alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	body, sig, _ := strings.Cut(token, ".")

	other := NewSessionManager("other-secret", time.Hour)
	forged, _, _ := other.Issue(7, "Alice")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"missing signature", body + "."},
		{"tampered body", "x" + body + "." + sig},
		{"signed with another secret", forged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Parse(tt.token); !errors.Is(err, ErrInvalidSession) {
				t.Fatalf("expected ErrInvalidSession, got %v", err)
			}
		})
	}
}

func TestSessionExpires(t *testing.T) {
	m := NewSessionManager("secret", time.Minute)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	token, _, err := m.Issue(1, "Alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	m.now = func() time.Time { return base.Add(59 * time.Second) }
	if _, err := m.Parse(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := m.Parse(token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

package csrf

import (
	"testing"
	"time"
)

func newTestService(ttl time.Duration) (*Service, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewService("test-csrf-secret", ttl)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestTokenBoundToOneUser(t *testing.T) {
	s, _ := newTestService(time.Hour)

	token := s.Generate("user-a")
	if !s.Validate(token, "user-a") {
		t.Fatal("fresh token rejected for its own user")
	}
	if s.Validate(token, "user-b") {
		t.Error("token for user-a accepted for user-b")
	}
}

func TestTokenReusableWithinWindow(t *testing.T) {
	s, now := newTestService(time.Hour)

	token := s.Generate("user-a")
	for i := 0; i < 5; i++ {
		*now = now.Add(5 * time.Minute)
		if !s.Validate(token, "user-a") {
			t.Fatalf("token rejected on reuse %d inside validity window", i+1)
		}
	}
}

func TestTokenExpires(t *testing.T) {
	s, now := newTestService(time.Hour)

	token := s.Generate("user-a")
	*now = now.Add(time.Hour + time.Second)
	if s.Validate(token, "user-a") {
		t.Error("expired token accepted")
	}
}

func TestMalformedTokensFailClosed(t *testing.T) {
	s, _ := newTestService(time.Hour)

	bad := []string{
		"",
		"not-base64!!!",
		"YWJj", // decodes, wrong part count
		s.Generate("user-a") + "x",
	}
	for _, token := range bad {
		if s.Validate(token, "user-a") {
			t.Errorf("malformed token %q accepted", token)
		}
	}
}

func TestForgedSignatureRejected(t *testing.T) {
	issuer, _ := newTestService(time.Hour)
	other := NewService("different-secret", time.Hour)

	token := other.Generate("user-a")
	if issuer.Validate(token, "user-a") {
		t.Error("token signed with a different secret accepted")
	}
}

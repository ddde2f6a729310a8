package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func hashKey(t *testing.T, key string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	return string(h)
}

func TestLoginAndVerify_RoundTrip(t *testing.T) {
	s := NewService("test-secret", hashKey(t, "wizard-key"))

	token, err := s.Login("form-wizard", "wizard-key")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	client, err := s.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if client != "form-wizard" {
		t.Fatalf("expected subject form-wizard, got %s", client)
	}
}

func TestLogin_WrongKey(t *testing.T) {
	s := NewService("test-secret", hashKey(t, "wizard-key"))
	if _, err := s.Login("form-wizard", "guess"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	s := NewService("test-secret", hashKey(t, "k")).WithClock(func() time.Time { return past })

	token, err := s.Login("form-wizard", "k")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := s.VerifyToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	s := NewService("secret-a", hashKey(t, "k"))
	token, err := s.Login("form-wizard", "k")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	other := NewService("secret-b", hashKey(t, "k"))
	if _, err := other.VerifyToken(token); err == nil {
		t.Fatalf("expected token signed with different secret to be rejected")
	}
}

func TestEnabled(t *testing.T) {
	if NewService("", "").Enabled() {
		t.Fatalf("empty config must disable auth")
	}
	if !NewService("s", "h").Enabled() {
		t.Fatalf("full config must enable auth")
	}
}

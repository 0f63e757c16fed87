package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/replayhq/replay/internal/domain"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals plaintext")
	}

	if !CheckPassword("correct horse battery", hash) {
		t.Fatal("CheckPassword() = false for correct password")
	}
	if CheckPassword("wrong password", hash) {
		t.Fatal("CheckPassword() = true for wrong password")
	}
}

func TestHashPasswordRejectsShortAndOversized(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("short"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("HashPassword(short) error = %v, want ErrValidation", err)
	}

	long := make([]byte, maxPasswordBytes+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := HashPassword(string(long)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("HashPassword(oversized) error = %v, want ErrValidation", err)
	}
}

func TestTokenManagerRoundTrip(t *testing.T) {
	t.Parallel()

	tokens, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}

	user := &domain.User{ID: 42, Role: domain.RoleAdmin}
	signed, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	userID, claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if userID != 42 {
		t.Fatalf("Parse() userID = %d, want 42", userID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("Parse() role = %s, want ADMIN", claims.Role)
	}
}

func TestTokenManagerRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	tokens, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	tokens.ttl = -time.Minute

	signed, err := tokens.Issue(&domain.User{ID: 1, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, _, err := tokens.Parse(signed); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Parse(expired) error = %v, want ErrUnauthorized", err)
	}
}

func TestTokenManagerRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	issuer, _ := NewTokenManager("secret-a", time.Hour)
	verifier, _ := NewTokenManager("secret-b", time.Hour)

	signed, err := issuer.Issue(&domain.User{ID: 1, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, _, err := verifier.Parse(signed); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Parse(foreign) error = %v, want ErrUnauthorized", err)
	}
}

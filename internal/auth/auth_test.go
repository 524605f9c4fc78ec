package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	token, err := GenerateToken("teacher-7", 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	ownerID, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if ownerID != "teacher-7" {
		t.Fatalf("unexpected owner: %s", ownerID)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	token, err := GenerateToken("teacher-7", time.Millisecond)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenRejectsForeignSecret(t *testing.T) {
	t.Setenv(secretEnvVariable, "secret-one")
	ResetSecretForTests()
	token, err := GenerateToken("teacher-7", time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Setenv(secretEnvVariable, "secret-two")
	ResetSecretForTests()
	if _, err := VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestOwnerContext(t *testing.T) {
	ctx := context.Background()

	if _, ok := OwnerFromContext(ctx); ok {
		t.Fatal("unexpected owner in empty context")
	}
	if _, err := RequireOwner(ctx); !errors.Is(err, ErrNoOwnerContext) {
		t.Fatalf("expected ErrNoOwnerContext, got %v", err)
	}

	ctx = WithOwner(ctx, "  teacher-1  ")
	id, ok := OwnerFromContext(ctx)
	if !ok || id != "teacher-1" {
		t.Fatalf("unexpected owner: %q ok=%v", id, ok)
	}
	id, err := RequireOwner(ctx)
	if err != nil || id != "teacher-1" {
		t.Fatalf("RequireOwner: %q %v", id, err)
	}

	// A later binding overwrites a stale one.
	ctx = WithOwner(ctx, "teacher-2")
	if id, _ := OwnerFromContext(ctx); id != "teacher-2" {
		t.Fatalf("expected overwrite, got %q", id)
	}
}

func TestTokensEnabled(t *testing.T) {
	t.Setenv(secretEnvVariable, strings.Repeat(" ", 3))
	ResetSecretForTests()
	if TokensEnabled() {
		t.Fatal("blank secret must not enable tokens")
	}

	t.Setenv(secretEnvVariable, "configured")
	ResetSecretForTests()
	if !TokensEnabled() {
		t.Fatal("expected tokens enabled")
	}
	ResetSecretForTests()
}

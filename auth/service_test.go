package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminEmail = "admin@lotracker.example"
	testSecret     = "test-secret"
)

func newTestService(t *testing.T, password string) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return NewService(testAdminEmail, string(hash), testSecret)
}

func TestLogin_Success(t *testing.T) {
	svc := newTestService(t, "correct horse")

	token, err := svc.Login(context.Background(), testAdminEmail, "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	sub, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != testAdminEmail {
		t.Fatalf("expected subject %q, got %q", testAdminEmail, sub)
	}
}

func TestLogin_EmailCaseAndPaddingTolerated(t *testing.T) {
	svc := newTestService(t, "pw")

	if _, err := svc.Login(context.Background(), "  ADMIN@Lotracker.Example ", "pw"); err != nil {
		t.Fatalf("login with padded uppercase email: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t, "right")

	_, err := svc.Login(context.Background(), testAdminEmail, "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService(t, "pw")

	_, err := svc.Login(context.Background(), "someone@else.example", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	svc := newTestService(t, "pw")
	token, err := svc.Login(context.Background(), testAdminEmail, "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	other := NewService(testAdminEmail, "irrelevant", "different-secret")
	if _, err := other.VerifyToken(token); err == nil {
		t.Fatal("expected verification to fail under a different secret")
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	issued := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(t, "pw").WithClock(func() time.Time { return issued })

	token, err := svc.Login(context.Background(), testAdminEmail, "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	svc.WithClock(func() time.Time { return issued.Add(tokenTTL + time.Minute) })
	if _, err := svc.VerifyToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := newTestService(t, "pw")
	if _, err := svc.VerifyToken("not-a-token"); err == nil {
		t.Fatal("expected parse failure")
	}
}

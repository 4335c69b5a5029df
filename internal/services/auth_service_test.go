package services

import (
	"context"
	"errors"
	"testing"

	"monkeybets/internal/auth"
	"monkeybets/internal/models"
	"monkeybets/internal/repository"
	"monkeybets/internal/verify"

	"github.com/google/uuid"
)

func newAuthService(t *testing.T) (*AuthService, *fakeVerifier, *repository.Repository) {
	t.Helper()
	repo := repository.NewRepository(setupTestDB(t))
	verifier := &fakeVerifier{code: "123456"}
	return NewAuthService(repo, verifier, nil), verifier, repo
}

func TestSendCodeNormalizesPhone(t *testing.T) {
	svc, verifier, _ := newAuthService(t)

	normalized, err := svc.SendCode(context.Background(), "(555) 123-4567")
	if err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}
	if normalized != "+15551234567" {
		t.Errorf("expected +15551234567, got %s", normalized)
	}
	if len(verifier.sent) != 1 || verifier.sent[0] != "+15551234567" {
		t.Errorf("expected code sent to normalized phone, got %v", verifier.sent)
	}

	var verr *ValidationError
	if _, err := svc.SendCode(context.Background(), "12345"); !errors.As(err, &verr) || verr.Field != "phone" {
		t.Errorf("expected phone validation error, got %v", err)
	}
	if len(verifier.sent) != 1 {
		t.Error("invalid phone must not reach the provider")
	}
}

func TestSendCodeProviderFailure(t *testing.T) {
	svc, verifier, _ := newAuthService(t)
	verifier.sendErr = verify.ErrProvider

	if _, err := svc.SendCode(context.Background(), "5551234567"); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t)

	if _, err := svc.SignIn(ctx, "5551234567", "123456"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound before sign-up, got %v", err)
	}

	if _, err := svc.SignUp(ctx, "5551234567", "000000"); !errors.Is(err, ErrCodeRejected) {
		t.Fatalf("expected ErrCodeRejected for wrong code, got %v", err)
	}

	monkey, err := svc.SignUp(ctx, "555-123-4567", "123456")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if monkey.Phone != "+15551234567" || !monkey.PhoneVerified {
		t.Errorf("unexpected monkey %+v", monkey)
	}

	if _, err := svc.SignUp(ctx, "15551234567", "123456"); !errors.Is(err, ErrPhoneTaken) {
		t.Errorf("expected ErrPhoneTaken for same number in 11-digit form, got %v", err)
	}

	signedIn, err := svc.SignIn(ctx, "+1 555 123 4567", "123456")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if signedIn.ID != monkey.ID {
		t.Errorf("expected same monkey, got %s", signedIn.ID)
	}

	checked, err := svc.CheckAuth(ctx, monkey.ID)
	if err != nil || checked.ID != monkey.ID {
		t.Errorf("CheckAuth failed: %v", err)
	}
	if _, err := svc.CheckAuth(ctx, uuid.New()); !errors.Is(err, ErrAccountNotFound) || !errors.Is(err, auth.ErrIdentityGone) {
		t.Errorf("expected ErrAccountNotFound wrapping ErrIdentityGone for unknown id, got %v", err)
	}
}

func TestSignInFlipsVerifiedFlag(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newAuthService(t)

	unverified := newUnverifiedMonkey(t, repo, "+15559876543")

	monkey, err := svc.SignIn(ctx, "5559876543", "123456")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if !monkey.PhoneVerified {
		t.Error("expected returned monkey to be verified")
	}

	stored, _ := repo.GetMonkeyByID(ctx, unverified)
	if !stored.PhoneVerified {
		t.Error("expected stored monkey to be verified")
	}
}

func newUnverifiedMonkey(t *testing.T, repo *repository.Repository, phone string) uuid.UUID {
	t.Helper()
	m := &models.Monkey{Phone: phone}
	if err := repo.CreateMonkey(context.Background(), m); err != nil {
		t.Fatalf("failed to create monkey: %v", err)
	}
	return m.ID
}

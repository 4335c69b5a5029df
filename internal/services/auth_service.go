package services

import (
	"context"
	"fmt"
	"log"

	"monkeybets/internal/auth"
	"monkeybets/internal/metrics"
	"monkeybets/internal/models"
	"monkeybets/internal/phone"
	"monkeybets/internal/repository"
	"monkeybets/internal/verify"

	"github.com/google/uuid"
)

const invalidPhoneMessage = "Please enter a valid 10-digit US phone number"

// AuthService handles phone verification, sign-up and sign-in
type AuthService struct {
	repo     *repository.Repository
	verifier verify.Verifier
	metrics  *metrics.Metrics
}

// NewAuthService creates a new AuthService
func NewAuthService(repo *repository.Repository, verifier verify.Verifier, m *metrics.Metrics) *AuthService {
	return &AuthService{repo: repo, verifier: verifier, metrics: m}
}

func normalizePhone(raw string) (string, error) {
	normalized, err := phone.Normalize(raw)
	if err != nil {
		return "", invalid("phone", invalidPhoneMessage)
	}
	return normalized, nil
}

// SendCode texts a one-time code to the phone number
func (s *AuthService) SendCode(ctx context.Context, rawPhone string) (string, error) {
	normalized, err := normalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	if err := s.verifier.SendCode(ctx, normalized); err != nil {
		s.metrics.RecordVerification("send", "error")
		log.Printf("[AuthService] Failed to send code to %s: %v", phone.Mask(normalized), err)
		return "", fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	s.metrics.RecordVerification("send", "ok")
	log.Printf("[AuthService] Sent verification code to %s", phone.Mask(normalized))
	return normalized, nil
}

func (s *AuthService) checkCode(ctx context.Context, normalized, code string) error {
	approved, err := s.verifier.CheckCode(ctx, normalized, code)
	if err != nil {
		s.metrics.RecordVerification("check", "error")
		log.Printf("[AuthService] Failed to check code for %s: %v", phone.Mask(normalized), err)
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if !approved {
		s.metrics.RecordVerification("check", "rejected")
		return ErrCodeRejected
	}
	s.metrics.RecordVerification("check", "approved")
	return nil
}

// SignUp verifies the code and creates a verified identity
func (s *AuthService) SignUp(ctx context.Context, rawPhone, code string) (*models.Monkey, error) {
	normalized, err := normalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	if err := s.checkCode(ctx, normalized, code); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMonkeyByPhone(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up phone: %w", err)
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	monkey := &models.Monkey{Phone: normalized, PhoneVerified: true}
	if err := s.repo.CreateMonkey(ctx, monkey); err != nil {
		// A concurrent sign-up may have won the unique index.
		if again, lookupErr := s.repo.GetMonkeyByPhone(ctx, normalized); lookupErr == nil && again != nil {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Printf("[AuthService] Monkey %s signed up (%s)", monkey.ID, phone.Mask(normalized))
	return monkey, nil
}

// SignIn verifies the code for an existing identity
func (s *AuthService) SignIn(ctx context.Context, rawPhone, code string) (*models.Monkey, error) {
	normalized, err := normalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	if err := s.checkCode(ctx, normalized, code); err != nil {
		return nil, err
	}

	monkey, err := s.repo.GetMonkeyByPhone(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up phone: %w", err)
	}
	if monkey == nil {
		return nil, ErrAccountNotFound
	}

	if !monkey.PhoneVerified {
		if err := s.repo.MarkMonkeyVerified(ctx, monkey.ID); err != nil {
			return nil, fmt.Errorf("failed to mark phone verified: %w", err)
		}
		monkey.PhoneVerified = true
	}

	log.Printf("[AuthService] Monkey %s signed in", monkey.ID)
	return monkey, nil
}

// CheckAuth re-reads an identity for an existing session
func (s *AuthService) CheckAuth(ctx context.Context, monkeyID uuid.UUID) (*models.Monkey, error) {
	monkey, err := s.repo.GetMonkeyByID(ctx, monkeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load monkey: %w", err)
	}
	if monkey == nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountNotFound, auth.ErrIdentityGone)
	}
	return monkey, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"monkeybets/internal/cache"
	"monkeybets/internal/models"

	"github.com/google/uuid"
)

const draftKeyPrefix = "draft:"

// DraftService keeps a pending wager while the monkey signs in. Drafts are
// keyed by an opaque id held in a cookie, so they work before sign-in.
type DraftService struct {
	store cache.Store
	ttl   time.Duration
}

// NewDraftService creates a new DraftService
func NewDraftService(store cache.Store, ttl time.Duration) *DraftService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &DraftService{store: store, ttl: ttl}
}

// TTL is how long a saved draft lives.
func (s *DraftService) TTL() time.Duration {
	return s.ttl
}

// Save stores a draft under key, generating a new key when key is empty.
func (s *DraftService) Save(ctx context.Context, key string, draft models.WagerDraft) (string, error) {
	if _, err := uuid.Parse(draft.PropID); err != nil {
		return "", invalid("prop_id", "Unknown prop")
	}
	if draft.Bananas < 0 {
		return "", invalid("bananas", "Bananas must be a positive whole number")
	}
	if draft.Bananas > models.MaxBananas {
		return "", invalid("bananas", maxBananasMessage)
	}
	if _, err := uuid.Parse(key); err != nil {
		key = uuid.NewString()
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return "", fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.store.Set(ctx, draftKeyPrefix+key, string(payload), s.ttl); err != nil {
		return "", fmt.Errorf("failed to save draft: %w", err)
	}
	return key, nil
}

// Load returns the draft stored under key
func (s *DraftService) Load(ctx context.Context, key string) (*models.WagerDraft, error) {
	if key == "" {
		return nil, ErrDraftNotFound
	}
	payload, err := s.store.Get(ctx, draftKeyPrefix+key)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft models.WagerDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		_ = s.store.Delete(ctx, draftKeyPrefix+key)
		return nil, ErrDraftNotFound
	}
	return &draft, nil
}

// Clear removes the draft stored under key
func (s *DraftService) Clear(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.store.Delete(ctx, draftKeyPrefix+key); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

// ClearForProp removes the draft only if it belongs to propID
func (s *DraftService) ClearForProp(ctx context.Context, key string, propID uuid.UUID) error {
	draft, err := s.Load(ctx, key)
	if errors.Is(err, ErrDraftNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if draft.PropID != propID.String() {
		return nil
	}
	return s.Clear(ctx, key)
}

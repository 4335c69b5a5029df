package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"monkeybets/internal/cache"
	"monkeybets/internal/models"

	"github.com/google/uuid"
)

func TestDraftRoundTrip(t *testing.T) {
	ctx := context.Background()
	drafts := NewDraftService(cache.NewMemoryStore(), time.Minute)
	propID := uuid.New()

	if _, err := drafts.Load(ctx, ""); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound for empty key, got %v", err)
	}

	key, err := drafts.Save(ctx, "garbage", models.WagerDraft{PropID: propID.String(), Prediction: boolPtr(false), Bananas: 7})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := uuid.Parse(key); err != nil {
		t.Errorf("expected a fresh uuid key, got %q", key)
	}

	draft, err := drafts.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if draft.PropID != propID.String() || draft.Prediction == nil || *draft.Prediction || draft.Bananas != 7 {
		t.Errorf("unexpected draft %+v", draft)
	}

	again, err := drafts.Save(ctx, key, models.WagerDraft{PropID: propID.String(), Bananas: 9})
	if err != nil || again != key {
		t.Errorf("expected key to be reused, got %q (%v)", again, err)
	}

	if err := drafts.Clear(ctx, key); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := drafts.Load(ctx, key); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound after clear, got %v", err)
	}
}

func TestDraftValidation(t *testing.T) {
	drafts := NewDraftService(cache.NewMemoryStore(), 0)
	if drafts.TTL() != 30*time.Minute {
		t.Errorf("expected 30 minute default ttl, got %s", drafts.TTL())
	}

	var verr *ValidationError
	if _, err := drafts.Save(context.Background(), "", models.WagerDraft{PropID: "nope"}); !errors.As(err, &verr) || verr.Field != "prop_id" {
		t.Errorf("expected prop_id validation error, got %v", err)
	}
	tooMany := models.WagerDraft{PropID: uuid.NewString(), Bananas: models.MaxBananas + 1}
	if _, err := drafts.Save(context.Background(), "", tooMany); !errors.As(err, &verr) || verr.Field != "bananas" {
		t.Errorf("expected bananas validation error, got %v", err)
	}
}

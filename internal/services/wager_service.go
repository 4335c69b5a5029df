package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"monkeybets/internal/config"
	"monkeybets/internal/metrics"
	"monkeybets/internal/models"
	"monkeybets/internal/odds"
	"monkeybets/internal/realtime"
	"monkeybets/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WagerService handles placing wagers and the wager detail view
type WagerService struct {
	repo      *repository.Repository
	publisher realtime.Publisher
	metrics   *metrics.Metrics
	drafts    *DraftService
	policy    string
	now       func() time.Time
}

// NewWagerService creates a new WagerService. policy is config.WagerPolicySingle
// or config.WagerPolicyMultiple.
func NewWagerService(
	repo *repository.Repository,
	publisher realtime.Publisher,
	m *metrics.Metrics,
	drafts *DraftService,
	policy string,
) *WagerService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	if policy == "" {
		policy = config.WagerPolicySingle
	}
	return &WagerService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		drafts:    drafts,
		policy:    policy,
		now:       time.Now,
	}
}

// PlaceWager stakes bananas on one side of a prop. Input is validated before
// the store is touched; the prop checks and the insert share a transaction.
// draftKey, when set, names a pending draft to clear once the wager lands.
func (s *WagerService) PlaceWager(
	ctx context.Context,
	bettorID uuid.UUID,
	propID uuid.UUID,
	prediction *bool,
	bananas int64,
	draftKey string,
) (*models.Wager, error) {
	if prediction == nil {
		return nil, invalid("prediction", "Please pick yes or no")
	}
	if bananas <= 0 {
		return nil, invalid("bananas", "Please enter a whole number of bananas greater than zero")
	}
	if bananas > models.MaxBananas {
		return nil, invalid("bananas", maxBananasMessage)
	}

	wager := &models.Wager{
		PropID:     propID,
		BettorID:   bettorID,
		Prediction: *prediction,
		Bananas:    bananas,
	}

	var insertErr error
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// The row lock orders this placement against SetResult, delete and
		// other placements on the same prop.
		prop, err := tx.LockPropByID(ctx, propID)
		if err != nil {
			return fmt.Errorf("failed to load prop: %w", err)
		}
		if prop == nil {
			return ErrPropNotFound
		}
		if prop.Deleted() {
			return ErrPropUnavailable
		}
		if !prop.AcceptsWagers(s.now()) {
			return ErrPropClosed
		}
		if prop.CreatorID == bettorID {
			return ErrCreatorWager
		}

		if s.policy == config.WagerPolicySingle {
			count, err := tx.CountWagersByBettorOnProp(ctx, bettorID, propID)
			if err != nil {
				return fmt.Errorf("failed to check existing wagers: %w", err)
			}
			if count > 0 {
				return ErrDuplicateWager
			}
		}

		if err := tx.CreateWager(ctx, wager); err != nil {
			insertErr = err
			return fmt.Errorf("failed to place wager: %w", err)
		}
		return nil
	})
	if insertErr != nil && s.policy == config.WagerPolicySingle {
		// A concurrent placement may have won the one-per-bettor index.
		if count, countErr := s.repo.CountWagersByBettorOnProp(ctx, bettorID, propID); countErr == nil && count > 0 {
			return nil, ErrDuplicateWager
		}
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordWager(wager.Side(), wager.Bananas)
	s.publisher.Publish(realtime.TableWagers)
	log.Printf("[WagerService] Monkey %s wagered %d bananas on %s for prop %s", bettorID, bananas, wager.Side(), propID)

	if s.drafts != nil && draftKey != "" {
		if err := s.drafts.ClearForProp(ctx, draftKey, propID); err != nil {
			log.Printf("[WagerService] Failed to clear draft: %v", err)
		}
	}

	return wager, nil
}

// WagerDetail shows the bettor's wagers on a prop with the payout each would
// return at the current odds
func (s *WagerService) WagerDetail(ctx context.Context, bettorID, propID uuid.UUID) (*WagerDetailView, error) {
	prop, err := s.repo.GetPropByID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prop: %w", err)
	}
	if prop == nil {
		return nil, ErrPropNotFound
	}

	wagers, err := s.repo.ListWagersByBettorOnProp(ctx, bettorID, propID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wagers: %w", err)
	}
	if len(wagers) == 0 {
		if prop.Deleted() && prop.CreatorID != bettorID {
			return nil, ErrPropUnavailable
		}
		return nil, ErrWagerNotFound
	}

	stakes, err := s.repo.ListStakes(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stakes: %w", err)
	}
	totals := odds.Sum(stakes)
	oddsView := newOddsView(totals)

	view := &WagerDetailView{
		Prop:                 prop,
		State:                prop.State(s.now()),
		Totals:               totals,
		Odds:                 oddsView,
		Wagers:               make([]WagerDetailLine, 0, len(wagers)),
		TotalPotentialPayout: decimal.Zero,
	}
	for _, w := range wagers {
		multiplier := oddsView.Multiplier(w.Prediction)
		payout := odds.PotentialPayout(w.Bananas, multiplier)
		view.Wagers = append(view.Wagers, WagerDetailLine{
			WagerView:       newWagerView(w, prop.Result),
			Multiplier:      multiplier,
			MultiplierLabel: odds.FormatMultiplier(multiplier),
			PotentialPayout: payout,
		})
		view.TotalStaked += w.Bananas
		view.TotalPotentialPayout = view.TotalPotentialPayout.Add(payout)
	}

	return view, nil
}

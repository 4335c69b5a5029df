package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"monkeybets/internal/config"
	"monkeybets/internal/metrics"
	"monkeybets/internal/models"
	"monkeybets/internal/odds"
	"monkeybets/internal/realtime"
	"monkeybets/internal/repository"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const maxPropNameLength = 500

// PropService handles prop creation, viewing, resolution and deletion
type PropService struct {
	repo          *repository.Repository
	publisher     realtime.Publisher
	metrics       *metrics.Metrics
	sanitizer     *bluemonday.Policy
	publicBaseURL string
	wagerPolicy   string
	now           func() time.Time
}

// NewPropService creates a new PropService
func NewPropService(
	repo *repository.Repository,
	publisher realtime.Publisher,
	m *metrics.Metrics,
	publicBaseURL string,
	wagerPolicy string,
) *PropService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	return &PropService{
		repo:          repo,
		publisher:     publisher,
		metrics:       m,
		sanitizer:     bluemonday.StrictPolicy(),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		wagerPolicy:   wagerPolicy,
		now:           time.Now,
	}
}

// CreateProp validates and stores a new prop for the creator
func (s *PropService) CreateProp(ctx context.Context, creatorID uuid.UUID, name string, expiry time.Time) (*models.Prop, error) {
	clean := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(strings.TrimSpace(name))))
	if clean == "" {
		return nil, invalid("name", "Please describe what you're betting on")
	}
	if utf8.RuneCountInString(clean) > maxPropNameLength {
		return nil, invalid("name", fmt.Sprintf("Prop must be %d characters or fewer", maxPropNameLength))
	}
	if expiry.IsZero() {
		return nil, invalid("expiry_date", "Please choose when betting closes")
	}
	if !expiry.After(s.now()) {
		return nil, invalid("expiry_date", "Expiry date must be in the future")
	}

	prop := &models.Prop{
		Name:       clean,
		ExpiryDate: expiry.UTC(),
		CreatorID:  creatorID,
	}
	if err := s.repo.CreateProp(ctx, prop); err != nil {
		return nil, fmt.Errorf("failed to create prop: %w", err)
	}

	s.metrics.RecordProp("created")
	s.publisher.Publish(realtime.TableProps)
	log.Printf("[PropService] Prop %s created by %s", prop.ID, creatorID)
	return prop, nil
}

// loadVisibleProp fetches a prop and applies the deleted-prop visibility rule:
// only the creator and monkeys holding a wager may still see it.
func (s *PropService) loadVisibleProp(ctx context.Context, viewerID, propID uuid.UUID) (*models.Prop, error) {
	prop, err := s.repo.GetPropByID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prop: %w", err)
	}
	if prop == nil {
		return nil, ErrPropNotFound
	}
	if !prop.Deleted() {
		return prop, nil
	}
	if viewerID == uuid.Nil {
		return nil, ErrPropUnavailable
	}
	if prop.CreatorID == viewerID {
		return prop, nil
	}
	count, err := s.repo.CountWagersByBettorOnProp(ctx, viewerID, propID)
	if err != nil {
		return nil, fmt.Errorf("failed to check wagers: %w", err)
	}
	if count == 0 {
		return nil, ErrPropUnavailable
	}
	return prop, nil
}

// GetPropView builds the prop detail page for a viewer. viewerID may be
// uuid.Nil for an anonymous viewer.
func (s *PropService) GetPropView(ctx context.Context, viewerID, propID uuid.UUID) (*PropView, error) {
	prop, err := s.loadVisibleProp(ctx, viewerID, propID)
	if err != nil {
		return nil, err
	}

	stakes, err := s.repo.ListStakes(ctx, prop.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stakes: %w", err)
	}
	totals := odds.Sum(stakes)

	now := s.now()
	view := &PropView{
		Prop:      prop,
		State:     prop.State(now),
		Deleted:   prop.Deleted(),
		IsCreator: viewerID != uuid.Nil && prop.CreatorID == viewerID,
		Totals:    totals,
		TotalPool: totals.Total(),
		Odds:      newOddsView(totals),
		MyWagers:  []WagerView{},
	}

	if viewerID != uuid.Nil {
		wagers, err := s.repo.ListWagersByBettorOnProp(ctx, viewerID, prop.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load wagers: %w", err)
		}
		for _, w := range wagers {
			view.MyWagers = append(view.MyWagers, newWagerView(w, prop.Result))
		}
	}

	view.Permissions = Permissions{
		CanWager: viewerID != uuid.Nil && !view.IsCreator && prop.AcceptsWagers(now) &&
			(s.wagerPolicy == config.WagerPolicyMultiple || len(view.MyWagers) == 0),
		CanSetResult: view.IsCreator && prop.CanSetResult(now),
		CanDelete:    view.IsCreator && prop.CanDelete(),
		CanShare:     !prop.Deleted(),
	}
	if view.Permissions.CanShare {
		view.ShareURL = s.shareURL(prop.ID)
	}

	return view, nil
}

// GetSharedProp resolves a share code into the public prop view
func (s *PropService) GetSharedProp(ctx context.Context, viewerID uuid.UUID, code string) (*PropView, error) {
	propID, ok := DecodeShareCode(strings.TrimSpace(code))
	if !ok {
		return nil, ErrPropNotFound
	}
	return s.GetPropView(ctx, viewerID, propID)
}

// ShareLink returns the public link for a prop
func (s *PropService) ShareLink(ctx context.Context, propID uuid.UUID) (string, error) {
	prop, err := s.repo.GetPropByID(ctx, propID)
	if err != nil {
		return "", fmt.Errorf("failed to load prop: %w", err)
	}
	if prop == nil {
		return "", ErrPropNotFound
	}
	if prop.Deleted() {
		return "", ErrPropUnavailable
	}
	return s.shareURL(prop.ID), nil
}

func (s *PropService) shareURL(propID uuid.UUID) string {
	return s.publicBaseURL + "/wager/" + EncodeShareCode(propID)
}

// SetResult resolves an expired prop. Only the creator may do this, once.
func (s *PropService) SetResult(ctx context.Context, creatorID, propID uuid.UUID, result bool) (*models.Prop, error) {
	now := s.now().UTC()

	changed, err := s.repo.SetPropResult(ctx, propID, creatorID, result, now)
	if err != nil {
		return nil, fmt.Errorf("failed to set result: %w", err)
	}

	prop, err := s.repo.GetPropByID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prop: %w", err)
	}

	if !changed {
		switch {
		case prop == nil:
			return nil, ErrPropNotFound
		case prop.Deleted():
			return nil, ErrPropUnavailable
		case prop.CreatorID != creatorID:
			return nil, ErrNotCreator
		case prop.Resolved():
			return nil, ErrAlreadyResolved
		case !prop.Expired(now):
			return nil, ErrNotExpired
		default:
			return nil, fmt.Errorf("failed to set result for prop %s", propID)
		}
	}

	s.metrics.RecordProp("resolved")
	s.publisher.Publish(realtime.TableProps)
	log.Printf("[PropService] Prop %s resolved %s by %s", propID, models.SideName(result), creatorID)
	return prop, nil
}

// DeleteProp soft-deletes a prop on behalf of its creator
func (s *PropService) DeleteProp(ctx context.Context, creatorID, propID uuid.UUID) error {
	changed, err := s.repo.SoftDeleteProp(ctx, propID, creatorID)
	if err != nil {
		return fmt.Errorf("failed to delete prop: %w", err)
	}

	if !changed {
		prop, err := s.repo.GetPropByID(ctx, propID)
		if err != nil {
			return fmt.Errorf("failed to load prop: %w", err)
		}
		switch {
		case prop == nil:
			return ErrPropNotFound
		case prop.Deleted():
			return ErrPropUnavailable
		case prop.CreatorID != creatorID:
			return ErrNotCreator
		case prop.Resolved():
			return ErrCannotDelete
		default:
			return fmt.Errorf("failed to delete prop %s", propID)
		}
	}

	s.metrics.RecordProp("deleted")
	s.publisher.Publish(realtime.TableProps)
	log.Printf("[PropService] Prop %s deleted by %s", propID, creatorID)
	return nil
}

// Dashboard lists the viewer's active props and active wagers with odds
func (s *PropService) Dashboard(ctx context.Context, viewerID uuid.UUID) (*DashboardView, error) {
	props, err := s.repo.ListActivePropsByCreator(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load props: %w", err)
	}
	wagers, err := s.repo.ListActiveWagersByBettor(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wagers: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(props)+len(wagers))
	seen := make(map[uuid.UUID]bool)
	for _, p := range props {
		if !seen[p.ID] {
			seen[p.ID] = true
			ids = append(ids, p.ID)
		}
	}
	for _, w := range wagers {
		if !seen[w.PropID] {
			seen[w.PropID] = true
			ids = append(ids, w.PropID)
		}
	}

	totals, err := s.totalsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	view := &DashboardView{
		CreatedProps: make([]PropSummary, 0, len(props)),
		ActiveWagers: make([]WagerSummary, 0, len(wagers)),
	}
	for _, p := range props {
		view.CreatedProps = append(view.CreatedProps, newPropSummary(p, totals[p.ID], now))
	}
	for _, w := range wagers {
		yes, no := odds.AmericanOddsPair(totals[w.PropID])
		summary := WagerSummary{
			WagerView:   newWagerView(w, nil),
			YesAmerican: yes,
			NoAmerican:  no,
		}
		if w.Prop != nil {
			summary.State = w.Prop.State(now)
			summary.Outcome = w.Outcome(w.Prop.Result)
		}
		view.ActiveWagers = append(view.ActiveWagers, summary)
	}

	return view, nil
}

// History lists every non-deleted prop the viewer created, unresolved first
func (s *PropService) History(ctx context.Context, viewerID uuid.UUID) ([]PropSummary, error) {
	props, err := s.repo.ListPropsByCreator(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load props: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	totals, err := s.totalsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summaries := make([]PropSummary, 0, len(props))
	for _, p := range props {
		summaries = append(summaries, newPropSummary(p, totals[p.ID], now))
	}
	return summaries, nil
}

// totalsFor aggregates stakes for the given props. An empty list reads nothing.
func (s *PropService) totalsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]odds.Totals, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]odds.Totals{}, nil
	}
	stakes, err := s.repo.ListStakes(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load stakes: %w", err)
	}
	return odds.Aggregate(stakes), nil
}

func newPropSummary(p *models.Prop, totals odds.Totals, now time.Time) PropSummary {
	yes, no := odds.AmericanOddsPair(totals)
	return PropSummary{
		Prop:        p,
		State:       p.State(now),
		Totals:      totals,
		YesAmerican: yes,
		NoAmerican:  no,
	}
}

package repository

import (
	"context"

	"monkeybets/internal/models"
	"monkeybets/internal/odds"

	"github.com/google/uuid"
)

// CreateWager inserts a wager. Wagers are never updated afterwards.
func (r *Repository) CreateWager(ctx context.Context, wager *models.Wager) error {
	return r.db.WithContext(ctx).Create(wager).Error
}

// ListWagersByProp returns every wager on a prop, oldest first
func (r *Repository) ListWagersByProp(ctx context.Context, propID uuid.UUID) ([]*models.Wager, error) {
	var wagers []*models.Wager
	err := r.db.WithContext(ctx).
		Where("prop_id = ?", propID).
		Order("created_at ASC").
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// ListWagersByBettorOnProp returns the bettor's wagers on one prop, newest first
func (r *Repository) ListWagersByBettorOnProp(ctx context.Context, bettorID, propID uuid.UUID) ([]*models.Wager, error) {
	var wagers []*models.Wager
	err := r.db.WithContext(ctx).
		Where("bettor_id = ? AND prop_id = ?", bettorID, propID).
		Order("created_at DESC").
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// ListActiveWagersByBettor returns the bettor's wagers on unresolved,
// non-deleted props with the prop preloaded, newest first
func (r *Repository) ListActiveWagersByBettor(ctx context.Context, bettorID uuid.UUID) ([]*models.Wager, error) {
	var wagers []*models.Wager
	err := r.db.WithContext(ctx).
		Joins("JOIN props ON props.id = wagers.prop_id AND props.deleted_at IS NULL AND props.result IS NULL").
		Where("wagers.bettor_id = ?", bettorID).
		Preload("Prop").
		Order("wagers.created_at DESC").
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// ListStakes reads the (prop, side, bananas) triples for the given props.
// With no IDs every wager is returned.
func (r *Repository) ListStakes(ctx context.Context, propIDs ...uuid.UUID) ([]odds.Stake, error) {
	var stakes []odds.Stake
	query := r.db.WithContext(ctx).
		Model(&models.Wager{}).
		Select("prop_id, prediction, bananas")
	if len(propIDs) > 0 {
		query = query.Where("prop_id IN ?", propIDs)
	}
	if err := query.Scan(&stakes).Error; err != nil {
		return nil, err
	}
	return stakes, nil
}

// CountWagersByBettorOnProp counts the bettor's wagers on one prop
func (r *Repository) CountWagersByBettorOnProp(ctx context.Context, bettorID, propID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Wager{}).
		Where("bettor_id = ? AND prop_id = ?", bettorID, propID).
		Count(&count).Error
	return count, err
}

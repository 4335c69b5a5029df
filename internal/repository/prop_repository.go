package repository

import (
	"context"
	"errors"
	"time"

	"monkeybets/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateProp creates a new prop
func (r *Repository) CreateProp(ctx context.Context, prop *models.Prop) error {
	return r.db.WithContext(ctx).Create(prop).Error
}

// GetPropByID retrieves a prop by ID, including soft-deleted ones.
// A missing prop is (nil, nil).
func (r *Repository) GetPropByID(ctx context.Context, id uuid.UUID) (*models.Prop, error) {
	var prop models.Prop
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&prop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prop, nil
}

// LockPropByID loads a prop, including soft-deleted ones, and holds its row
// lock until the surrounding transaction ends. Result and delete updates on
// the same row wait for it. A missing prop is (nil, nil).
func (r *Repository) LockPropByID(ctx context.Context, id uuid.UUID) (*models.Prop, error) {
	var prop models.Prop
	err := lockedProp(r.db.WithContext(ctx), id).First(&prop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prop, nil
}

func lockedProp(db *gorm.DB, id uuid.UUID) *gorm.DB {
	return db.Unscoped().
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id)
}

// ListActivePropsByCreator returns the creator's unresolved, non-deleted props, newest first
func (r *Repository) ListActivePropsByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.Prop, error) {
	var props []*models.Prop
	err := r.db.WithContext(ctx).
		Where("creator_id = ? AND result IS NULL", creatorID).
		Order("created_at DESC").
		Find(&props).Error
	if err != nil {
		return nil, err
	}
	return props, nil
}

// ListPropsByCreator returns every non-deleted prop of the creator, unresolved
// ones first, newest first within each group
func (r *Repository) ListPropsByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.Prop, error) {
	var props []*models.Prop
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("result IS NOT NULL").
		Order("created_at DESC").
		Find(&props).Error
	if err != nil {
		return nil, err
	}
	return props, nil
}

// SetPropResult stores the result if the prop belongs to creatorID, is not
// deleted, has no result yet and has expired at now. It reports whether a
// row changed; concurrent callers race on the WHERE clause so at most one wins.
func (r *Repository) SetPropResult(ctx context.Context, propID, creatorID uuid.UUID, result bool, now time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.Prop{}).
		Where("id = ? AND creator_id = ? AND result IS NULL AND expiry_date <= ?", propID, creatorID, now).
		Updates(map[string]interface{}{
			"result":      result,
			"resolved_at": now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// SoftDeleteProp marks the prop deleted on behalf of userID. Only the creator
// may delete, and resolved props are kept. It reports whether a row changed.
func (r *Repository) SoftDeleteProp(ctx context.Context, propID, userID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND creator_id = ? AND result IS NULL", propID, userID).
		Delete(&models.Prop{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// CountPropsExpiredBetween counts live, unresolved props whose expiry falls in
// (from, to].
func (r *Repository) CountPropsExpiredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Prop{}).
		Where("result IS NULL AND expiry_date > ? AND expiry_date <= ?", from, to).
		Count(&count).Error
	return count, err
}

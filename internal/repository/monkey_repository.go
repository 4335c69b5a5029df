package repository

import (
	"context"
	"errors"

	"monkeybets/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateMonkey inserts a new identity
func (r *Repository) CreateMonkey(ctx context.Context, monkey *models.Monkey) error {
	return r.db.WithContext(ctx).Create(monkey).Error
}

// GetMonkeyByPhone looks up an identity by normalized phone. A missing
// identity is (nil, nil).
func (r *Repository) GetMonkeyByPhone(ctx context.Context, phone string) (*models.Monkey, error) {
	var monkey models.Monkey
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&monkey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &monkey, nil
}

// GetMonkeyByID retrieves an identity by ID. A missing identity is (nil, nil).
func (r *Repository) GetMonkeyByID(ctx context.Context, id uuid.UUID) (*models.Monkey, error) {
	var monkey models.Monkey
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&monkey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &monkey, nil
}

// MarkMonkeyVerified sets phone_verified on an identity
func (r *Repository) MarkMonkeyVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Monkey{}).
		Where("id = ?", id).
		Update("phone_verified", true).Error
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PropState string

const (
	PropStateOpen              PropState = "open"
	PropStateExpiredUnresolved PropState = "expired_unresolved"
	PropStateResolved          PropState = "resolved"
)

// Prop is a yes/no proposition that monkeys wager bananas on
type Prop struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string         `gorm:"size:500;not null" json:"name"`
	ExpiryDate time.Time      `gorm:"not null;index" json:"expiry_date"`
	CreatorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Result     *bool          `gorm:"index" json:"result"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Prop model
func (Prop) TableName() string {
	return "props"
}

func (p *Prop) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the expiry date has been reached. Expiry is never
// stored; it is derived from the clock whenever a prop is read.
func (p *Prop) Expired(now time.Time) bool {
	return !now.Before(p.ExpiryDate)
}

// Resolved reports whether the creator has set a result.
func (p *Prop) Resolved() bool {
	return p.Result != nil
}

// Deleted reports whether the prop has been soft-deleted. It is a flag
// alongside State, not a state of its own.
func (p *Prop) Deleted() bool {
	return p.DeletedAt.Valid
}

// State classifies the prop in its lifecycle:
// open -> expired_unresolved -> resolved.
func (p *Prop) State(now time.Time) PropState {
	switch {
	case p.Resolved():
		return PropStateResolved
	case p.Expired(now):
		return PropStateExpiredUnresolved
	default:
		return PropStateOpen
	}
}

// AcceptsWagers is true only while the prop is open and not deleted.
// Resolved and deleted props never take another wager.
func (p *Prop) AcceptsWagers(now time.Time) bool {
	return !p.Deleted() && p.State(now) == PropStateOpen
}

// CanSetResult reports whether the creator may resolve the prop now.
func (p *Prop) CanSetResult(now time.Time) bool {
	return !p.Deleted() && p.State(now) == PropStateExpiredUnresolved
}

// CanDelete reports whether the prop may still be soft-deleted.
func (p *Prop) CanDelete() bool {
	return !p.Deleted() && !p.Resolved()
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WagerOutcome string

const (
	WagerOutcomePending WagerOutcome = "pending"
	WagerOutcomeWon     WagerOutcome = "won"
	WagerOutcomeLost    WagerOutcome = "lost"
)

// MaxBananas caps a single stake so per-prop totals stay far inside int64.
const MaxBananas = 1_000_000_000

// Wager is a stake of bananas on one side of a prop. Wagers are insert-only.
type Wager struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PropID     uuid.UUID `gorm:"type:uuid;not null;index" json:"prop_id"`
	Prop       *Prop     `gorm:"foreignKey:PropID" json:"prop,omitempty"`
	BettorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"bettor_id"`
	Prediction bool      `gorm:"not null" json:"prediction"`
	Bananas    int64     `gorm:"not null;check:bananas > 0 AND bananas <= 1000000000" json:"bananas"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Wager model
func (Wager) TableName() string {
	return "wagers"
}

func (w *Wager) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Outcome compares the prediction with a prop result.
func (w *Wager) Outcome(result *bool) WagerOutcome {
	if result == nil {
		return WagerOutcomePending
	}
	if w.Prediction == *result {
		return WagerOutcomeWon
	}
	return WagerOutcomeLost
}

// Side names the prediction the way the UI does.
func (w *Wager) Side() string {
	return SideName(w.Prediction)
}

func SideName(prediction bool) string {
	if prediction {
		return "yes"
	}
	return "no"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Monkey is a phone-verified identity
type Monkey struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Phone         string    `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	PhoneVerified bool      `gorm:"not null;default:false" json:"phone_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Monkey model
func (Monkey) TableName() string {
	return "monkeys"
}

func (m *Monkey) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is an append-only audit record against a lead. There are no
// update or delete paths; rows exist for display only.
type Activity struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	LeadID uuid.UUID `gorm:"type:uuid;index;not null"`

	ActivityDate time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	Subject      string    `gorm:"not null"`
	Description  string    `gorm:"type:text"`
	CreatedBy    string

	CreatedAt time.Time
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Champion is a referral partner tracked for sales-target attainment. It is
// keyed by email so the designation can be toggled from a CRM contact.
type Champion struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`

	Name             string `gorm:"not null"`
	Email            string `gorm:"uniqueIndex;not null"`
	Phone            string
	OrganizationName string

	AllocatedSale    int     `gorm:"default:0"`
	ActiveClients    int     `gorm:"default:0"`
	ConversionRate   float64 `gorm:"type:decimal(5,2);default:0.0"`
	PerformanceScore float64 `gorm:"type:decimal(5,2);default:0.0"`
	IsActive         bool    `gorm:"default:true"`

	gorm.Model
}

func (ch *Champion) BeforeCreate(tx *gorm.DB) (err error) {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	return
}

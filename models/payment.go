package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is a standalone financial event. Linking to an invoice is optional
// and recording one never transitions the linked invoice to paid.
type Payment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ClientID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`

	Amount        float64   `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string    `gorm:"type:varchar(30)"`
	PaymentDate   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	Notes         string

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

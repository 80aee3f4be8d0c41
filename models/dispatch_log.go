// models/dispatch_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DispatchStatusSent   = "sent"
	DispatchStatusFailed = "failed"

	DispatchChannelEmail = "email"
	DispatchChannelSMS   = "sms"
)

// DispatchLog records the outcome of one outbound message to one recipient.
type DispatchLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	CampaignID *uuid.UUID `gorm:"type:uuid;index"` // template id for bulk campaigns
	InvoiceID  *uuid.UUID `gorm:"type:uuid;index"` // set for invoice sends
	ContactID  *uuid.UUID `gorm:"type:uuid;index"`

	Recipient    string `gorm:"not null"`
	Channel      string `gorm:"type:varchar(20)"` // email, sms
	Subject      string
	Status       string `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string `gorm:"type:text"`
	SentAt       time.Time
	gorm.Model
}

func (d *DispatchLog) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

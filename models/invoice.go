package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

var invoiceStatuses = map[string]bool{
	InvoiceStatusDraft:     true,
	InvoiceStatusSent:      true,
	InvoiceStatusPaid:      true,
	InvoiceStatusOverdue:   true,
	InvoiceStatusCancelled: true,
}

func IsValidInvoiceStatus(status string) bool {
	return invoiceStatuses[status]
}

type Invoice struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string    `gorm:"index;not null"`
	IssueDate     time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	DueDate       *time.Time

	// Amount is the pre-tax subtotal. TaxPercent is the input rate; Tax is
	// the derived amount. Both are persisted so neither meaning is ambiguous.
	Amount      float64 `gorm:"type:decimal(12,2);not null"`
	TaxPercent  float64 `gorm:"type:decimal(5,2);default:0.0"`
	Tax         float64 `gorm:"type:decimal(12,2);default:0.0"`
	TotalAmount float64 `gorm:"type:decimal(12,2);not null"`

	Status string `gorm:"type:varchar(20);not null;default:'draft'"`
	Notes  string

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`

	gorm.Model
}

type InvoiceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Description string    `gorm:"not null"`
	Quantity    int       `gorm:"default:1"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);not null"`
	Total       float64   `gorm:"type:decimal(12,2);not null"`
	Position    int       `gorm:"default:0"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func (i *Invoice) BeforeSave(tx *gorm.DB) (err error) {
	if i.Status != "" && !IsValidInvoiceStatus(i.Status) {
		return fmt.Errorf("invalid invoice status: %s", i.Status)
	}
	return
}

func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return
}

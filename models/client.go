package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ClientStatusOnboarding = "onboarding"
	ClientStatusActive     = "active"
	ClientStatusChurned    = "churned"
)

var clientStatuses = map[string]bool{
	ClientStatusOnboarding: true,
	ClientStatusActive:     true,
	ClientStatusChurned:    true,
}

func IsValidClientStatus(status string) bool {
	return clientStatuses[status]
}

type Client struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OrganisationID uuid.UUID `gorm:"type:uuid;index;not null"`

	Plan          string
	Status        string  `gorm:"type:varchar(20);not null;default:'onboarding'"`
	MRR           float64 `gorm:"column:mrr;type:decimal(12,2);default:0.0"`
	ContractStart *time.Time
	ContractEnd   *time.Time
	DispCompliant bool `gorm:"default:false"`

	Invoices []Invoice `gorm:"foreignKey:ClientID"`
	Payments []Payment `gorm:"foreignKey:ClientID"`

	gorm.Model
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

func (c *Client) BeforeSave(tx *gorm.DB) (err error) {
	if c.Status != "" && !IsValidClientStatus(c.Status) {
		return fmt.Errorf("invalid client status: %s", c.Status)
	}
	return
}

package models

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContactStatusNew             = "new"
	ContactStatusContacted       = "contacted"
	ContactStatusQualified       = "qualified"
	ContactStatusConverted       = "converted"
	ContactStatusClient          = "client"
	ContactStatusClientExpansion = "client-expansion"
)

var contactStatuses = map[string]bool{
	ContactStatusNew:             true,
	ContactStatusContacted:       true,
	ContactStatusQualified:       true,
	ContactStatusConverted:       true,
	ContactStatusClient:          true,
	ContactStatusClientExpansion: true,
}

// IsValidContactStatus reports whether the status is one of the six
// recognised contact lifecycle values.
func IsValidContactStatus(status string) bool {
	return contactStatuses[status]
}

type Contact struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OrganisationID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name      string `gorm:"not null"`
	Email     string `gorm:"index"`
	Phone     string
	Status    string `gorm:"type:varchar(20);not null;default:'new'"`
	IsPrimary bool   `gorm:"default:false"`

	gorm.Model
}

func (c *Contact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// BeforeSave rejects unrecognised status values at the write path.
func (c *Contact) BeforeSave(tx *gorm.DB) (err error) {
	if c.Status != "" && !IsValidContactStatus(c.Status) {
		return fmt.Errorf("invalid contact status: %s", c.Status)
	}
	return
}

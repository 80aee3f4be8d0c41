package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organisation struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`

	Name     string `gorm:"not null"`
	ABN      string `gorm:"column:abn"`
	State    string
	Industry string
	Size     string

	Contacts []Contact `gorm:"foreignKey:OrganisationID"`
	Leads    []Lead    `gorm:"foreignKey:OrganisationID"`

	gorm.Model
}

func (o *Organisation) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

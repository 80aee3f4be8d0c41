package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailTemplate is a reusable campaign body. Placeholders [ContactName] and
// [OrganisationName] are substituted per recipient at dispatch time.
type EmailTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Name     string    `gorm:"not null"`
	Subject  string    `gorm:"not null"`
	Body     string    `gorm:"type:text;not null"`
	IsActive bool      `gorm:"default:true"`
	gorm.Model
}

func (t *EmailTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

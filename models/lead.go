package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

var leadPriorities = map[string]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

func IsValidPriority(priority string) bool {
	return leadPriorities[priority]
}

type Lead struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OrganisationID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ContactID      *uuid.UUID `gorm:"type:uuid;index"`

	Name              string `gorm:"not null"`
	Stage             string `gorm:"type:varchar(40);not null;default:'New Lead'"`
	ExpectedValue     float64 `gorm:"type:decimal(12,2);default:0.0"`
	Probability       int     `gorm:"default:0"`
	ExpectedCloseDate *time.Time
	Owner             string
	Priority          string `gorm:"type:varchar(10);default:'Medium'"`

	Activities []Activity `gorm:"foreignKey:LeadID"`

	gorm.Model
}

func (l *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Stage == "" {
		l.Stage = StageNewLead
	}
	return
}

// BeforeSave enforces the closed stage vocabulary and priority set at the
// write path. Unknown labels never reach the database.
func (l *Lead) BeforeSave(tx *gorm.DB) (err error) {
	if l.Stage != "" && !IsValidStage(l.Stage) {
		return fmt.Errorf("%w: %s", ErrUnknownStage, l.Stage)
	}
	if l.Priority != "" && !IsValidPriority(l.Priority) {
		return fmt.Errorf("invalid lead priority: %s", l.Priority)
	}
	if l.Probability < 0 || l.Probability > 100 {
		return fmt.Errorf("lead probability out of range: %d", l.Probability)
	}
	return
}

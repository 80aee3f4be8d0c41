// services/scheduler_service.go
package services

import (
	"log"
	"time"

	"crmdesk-backend/models"
	"crmdesk-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SchedulerService runs the daily maintenance jobs.
type SchedulerService struct {
	db *gorm.DB
}

func NewSchedulerService(db *gorm.DB) *SchedulerService {
	return &SchedulerService{db: db}
}

func (s *SchedulerService) StartScheduler() {
	c := cron.New()

	// Run every day at 6 AM
	c.AddFunc("0 6 * * *", func() {
		s.SweepOverdueInvoices()
	})

	c.Start()
	log.Println("Invoice scheduler started")
}

// SweepOverdueInvoices flips sent invoices whose due date has passed to
// overdue. Draft, paid and cancelled invoices are never touched.
func (s *SchedulerService) SweepOverdueInvoices() {
	log.Println("Starting overdue invoice sweep...")

	cutoff := utils.BeginningOfDay(time.Now())
	result := s.db.Model(&models.Invoice{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", models.InvoiceStatusSent, cutoff).
		Update("status", models.InvoiceStatusOverdue)

	if result.Error != nil {
		log.Printf("Overdue sweep failed: %v", result.Error)
		return
	}

	log.Printf("Overdue invoice sweep completed: %d invoices updated", result.RowsAffected)
}

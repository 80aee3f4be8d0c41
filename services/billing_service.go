// services/billing_service.go
package services

import (
	"errors"
	"strings"

	"crmdesk-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoPaidInvoices signals there is nothing to derive MRR from. It is a
// reported, non-fatal condition: the client's stored mrr stays untouched.
var ErrNoPaidInvoices = errors.New("client has no paid invoices")

// InvoiceTotals is the derived money block of an invoice.
type InvoiceTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// LineItemInput is one invoice line as submitted by the caller.
type LineItemInput struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// ComputeInvoiceTotals recomputes the full money block from scratch. Lines
// with a blank description are ignored. Any line-item edit must come back
// through here; there is no incremental path.
func ComputeInvoiceTotals(items []LineItemInput, taxPercent float64) InvoiceTotals {
	var subtotal float64
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		subtotal += float64(item.Quantity) * item.UnitPrice
	}
	tax := subtotal * taxPercent / 100
	return InvoiceTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// OutstandingBalance is total invoiced minus total paid. It deliberately
// keeps the portal's original crude semantics: every invoice counts
// regardless of status, and payments need not be linked to an invoice.
func OutstandingBalance(invoices []models.Invoice, payments []models.Payment) float64 {
	var invoiced, paid float64
	for _, inv := range invoices {
		invoiced += inv.TotalAmount
	}
	for _, p := range payments {
		paid += p.Amount
	}
	return invoiced - paid
}

// MRRFromInvoices derives monthly recurring revenue from an invoice
// snapshot: the sum of paid invoice totals. Invoices in any other status are
// ignored. With no paid invoices it returns ErrNoPaidInvoices.
func MRRFromInvoices(invoices []models.Invoice) (float64, error) {
	var mrr float64
	found := false
	for _, inv := range invoices {
		if inv.Status != models.InvoiceStatusPaid {
			continue
		}
		mrr += inv.TotalAmount
		found = true
	}
	if !found {
		return 0, ErrNoPaidInvoices
	}
	return mrr, nil
}

// BillingService owns invoice-derived client financials.
type BillingService struct {
	db *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// UpdateMRRFromInvoices sums the client's paid invoices into Client.mrr and
// returns the new figure. With no paid invoices it returns ErrNoPaidInvoices
// and leaves the stored mrr unchanged.
func (s *BillingService) UpdateMRRFromInvoices(clientID uuid.UUID) (float64, error) {
	var invoices []models.Invoice
	if err := s.db.Where("client_id = ?", clientID).Find(&invoices).Error; err != nil {
		return 0, err
	}

	mrr, err := MRRFromInvoices(invoices)
	if err != nil {
		return 0, err
	}

	if err := s.db.Model(&models.Client{}).Where("id = ?", clientID).
		Update("mrr", mrr).Error; err != nil {
		return 0, err
	}

	return mrr, nil
}

// ClientBalance loads the client's invoices and payments and returns the
// outstanding balance.
func (s *BillingService) ClientBalance(clientID uuid.UUID) (float64, error) {
	var invoices []models.Invoice
	if err := s.db.Where("client_id = ?", clientID).Find(&invoices).Error; err != nil {
		return 0, err
	}
	var payments []models.Payment
	if err := s.db.Where("client_id = ?", clientID).Find(&payments).Error; err != nil {
		return 0, err
	}
	return OutstandingBalance(invoices, payments), nil
}

// services/billing_service_test.go
package services

import (
	"errors"
	"math"
	"testing"

	"crmdesk-backend/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeInvoiceTotals(t *testing.T) {
	items := []LineItemInput{
		{Description: "Fourtify Professional", Quantity: 2, UnitPrice: 2099},
	}

	totals := ComputeInvoiceTotals(items, 10)
	if !almostEqual(totals.Subtotal, 4198.00) {
		t.Errorf("Subtotal = %v, want 4198.00", totals.Subtotal)
	}
	if !almostEqual(totals.Tax, 419.80) {
		t.Errorf("Tax = %v, want 419.80", totals.Tax)
	}
	if !almostEqual(totals.Total, 4617.80) {
		t.Errorf("Total = %v, want 4617.80", totals.Total)
	}
}

func TestComputeInvoiceTotalsSkipsBlankLines(t *testing.T) {
	items := []LineItemInput{
		{Description: "Consulting", Quantity: 1, UnitPrice: 500},
		{Description: "", Quantity: 3, UnitPrice: 100},
		{Description: "   ", Quantity: 2, UnitPrice: 50},
	}

	totals := ComputeInvoiceTotals(items, 0)
	if !almostEqual(totals.Subtotal, 500) {
		t.Errorf("Subtotal = %v, want 500 (blank lines ignored)", totals.Subtotal)
	}
	if !almostEqual(totals.Tax, 0) || !almostEqual(totals.Total, 500) {
		t.Errorf("Tax/Total = %v/%v, want 0/500", totals.Tax, totals.Total)
	}
}

func TestComputeInvoiceTotalsEmpty(t *testing.T) {
	totals := ComputeInvoiceTotals(nil, 10)
	if totals != (InvoiceTotals{}) {
		t.Errorf("empty item list should yield zero totals, got %+v", totals)
	}
}

func TestComputeInvoiceTotalsRecomputeAfterEdit(t *testing.T) {
	items := []LineItemInput{
		{Description: "Licence", Quantity: 1, UnitPrice: 1000},
		{Description: "Support", Quantity: 2, UnitPrice: 250},
	}

	before := ComputeInvoiceTotals(items, 10)
	if !almostEqual(before.Total, 1650) {
		t.Fatalf("Total = %v, want 1650", before.Total)
	}

	// Mutating a line's quantity must flow through a full recompute
	items[1].Quantity = 4
	after := ComputeInvoiceTotals(items, 10)
	if !almostEqual(after.Subtotal, 2000) || !almostEqual(after.Total, 2200) {
		t.Errorf("after edit Subtotal/Total = %v/%v, want 2000/2200", after.Subtotal, after.Total)
	}
}

func TestMRRFromInvoices(t *testing.T) {
	invoices := []models.Invoice{
		{Status: models.InvoiceStatusPaid, TotalAmount: 1000},
		{Status: models.InvoiceStatusPaid, TotalAmount: 2500},
		{Status: models.InvoiceStatusDraft, TotalAmount: 500},
	}

	mrr, err := MRRFromInvoices(invoices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(mrr, 3500) {
		t.Errorf("mrr = %v, want 3500 (draft invoice ignored)", mrr)
	}
}

func TestMRRFromInvoicesNoPaid(t *testing.T) {
	invoices := []models.Invoice{
		{Status: models.InvoiceStatusDraft, TotalAmount: 500},
		{Status: models.InvoiceStatusSent, TotalAmount: 800},
	}

	if _, err := MRRFromInvoices(invoices); !errors.Is(err, ErrNoPaidInvoices) {
		t.Fatalf("expected ErrNoPaidInvoices, got %v", err)
	}

	if _, err := MRRFromInvoices(nil); !errors.Is(err, ErrNoPaidInvoices) {
		t.Fatalf("expected ErrNoPaidInvoices for empty set, got %v", err)
	}
}

func TestOutstandingBalance(t *testing.T) {
	invoices := []models.Invoice{
		{Status: models.InvoiceStatusPaid, TotalAmount: 1000},
		{Status: models.InvoiceStatusSent, TotalAmount: 800},
		// Cancelled and draft invoices still count: the balance is a crude
		// invoiced-minus-paid aggregate, not per-invoice AR
		{Status: models.InvoiceStatusCancelled, TotalAmount: 300},
	}
	payments := []models.Payment{
		{Amount: 1000},
		{Amount: 250},
	}

	if got := OutstandingBalance(invoices, payments); !almostEqual(got, 850) {
		t.Errorf("OutstandingBalance = %v, want 850", got)
	}

	if got := OutstandingBalance(nil, payments); !almostEqual(got, -1250) {
		t.Errorf("OutstandingBalance with no invoices = %v, want -1250", got)
	}
}

// services/dispatch_service_test.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"crmdesk-backend/models"

	"github.com/google/uuid"
)

type fakeMailer struct {
	sent      []Message
	failAfter int // fail every SendBatch call once this many have succeeded
	calls     int
}

func (m *fakeMailer) Send(msg Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) SendBatch(msgs []Message) error {
	m.calls++
	if m.calls > m.failAfter {
		return errors.New("provider rejected batch")
	}
	m.sent = append(m.sent, msgs...)
	return nil
}

func makeRecipients(n int) []Recipient {
	recipients := make([]Recipient, n)
	for i := range recipients {
		recipients[i] = Recipient{
			ContactID:    uuid.New(),
			Name:         fmt.Sprintf("Contact %d", i),
			Organisation: "Acme",
			Email:        fmt.Sprintf("contact%d@example.com", i),
			Phone:        fmt.Sprintf("+6140000%04d", i),
		}
	}
	return recipients
}

func TestChunkRecipients(t *testing.T) {
	recipients := makeRecipients(250)

	chunks := chunkRecipients(recipients, 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 250 recipients, got %d", len(chunks))
	}
	if len(chunks[0]) != 100 || len(chunks[1]) != 100 || len(chunks[2]) != 50 {
		t.Errorf("chunk sizes = %d/%d/%d, want 100/100/50",
			len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	// Order preserved across chunk boundaries
	if chunks[1][0].Email != recipients[100].Email {
		t.Errorf("chunk boundary broke ordering")
	}

	if chunkRecipients(nil, 100) != nil {
		t.Error("empty recipient list should yield no chunks")
	}
	if chunkRecipients(recipients, 0) != nil {
		t.Error("non-positive chunk size should yield no chunks")
	}
}

func TestRenderTemplate(t *testing.T) {
	r := Recipient{Name: "Dana", Organisation: "Acme Pty Ltd"}

	body := renderTemplate("Hi [ContactName] from [OrganisationName]!", r, "")
	if body != "Hi Dana from Acme Pty Ltd!" {
		t.Errorf("unexpected render: %q", body)
	}

	withSig := renderTemplate("Hello [ContactName]", r, "Regards,\nSales")
	if !strings.HasSuffix(withSig, "\n\nRegards,\nSales") {
		t.Errorf("signature not appended: %q", withSig)
	}
}

func TestSendCampaignAllSent(t *testing.T) {
	mailer := &fakeMailer{failAfter: 1000}
	svc := NewDispatchServiceWithMailer(nil, mailer)

	template := models.EmailTemplate{
		ID:      uuid.New(),
		Name:    "Launch",
		Subject: "Hello",
		Body:    "Hi [ContactName]",
	}
	recipients := makeRecipients(5)

	results := svc.SendCampaign(template, recipients, "")
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Status != models.DispatchStatusSent {
			t.Errorf("recipient %s status = %q, want sent", r.Recipient, r.Status)
		}
	}
	if len(mailer.sent) != 5 {
		t.Errorf("mailer delivered %d messages, want 5", len(mailer.sent))
	}
}

func TestSendCampaignFailedChunkMarksAllRecipients(t *testing.T) {
	// Every batch call fails: the whole chunk is recorded as failed and the
	// loop keeps going rather than aborting
	mailer := &fakeMailer{failAfter: 0}
	svc := NewDispatchServiceWithMailer(nil, mailer)

	template := models.EmailTemplate{ID: uuid.New(), Name: "Launch", Subject: "Hello", Body: "Hi"}
	recipients := makeRecipients(3)

	results := svc.SendCampaign(template, recipients, "")
	if len(results) != 3 {
		t.Fatalf("expected a result per recipient, got %d", len(results))
	}
	for _, r := range results {
		if r.Status != models.DispatchStatusFailed {
			t.Errorf("recipient %s status = %q, want failed", r.Recipient, r.Status)
		}
		if r.Error == "" {
			t.Errorf("failed result for %s is missing the error message", r.Recipient)
		}
	}
}

func TestSendCampaignContinuesPastFailedChunk(t *testing.T) {
	// First chunk succeeds, second fails: per-recipient results reflect
	// chunk membership
	mailer := &fakeMailer{failAfter: 1}
	svc := NewDispatchServiceWithMailer(nil, mailer)

	template := models.EmailTemplate{ID: uuid.New(), Name: "Launch", Subject: "Hello", Body: "Hi"}
	recipients := makeRecipients(150) // chunks of 100 + 50

	results := svc.SendCampaign(template, recipients, "")
	if len(results) != 150 {
		t.Fatalf("expected 150 results, got %d", len(results))
	}
	for i, r := range results {
		want := models.DispatchStatusSent
		if i >= 100 {
			want = models.DispatchStatusFailed
		}
		if r.Status != want {
			t.Errorf("result %d status = %q, want %q", i, r.Status, want)
		}
	}
}

func TestRenderInvoiceEmail(t *testing.T) {
	invoice := models.Invoice{
		InvoiceNumber: "INV-20260830-ABC123",
		Amount:        4198,
		Tax:           419.80,
		TotalAmount:   4617.80,
		Items: []models.InvoiceItem{
			{Description: "Fourtify Professional", Quantity: 2, UnitPrice: 2099, Total: 4198},
		},
	}
	r := Recipient{Name: "Dana", Email: "dana@example.com"}

	body := renderInvoiceEmail(invoice, r, "Regards, Sales")
	for _, fragment := range []string{
		"Hi Dana",
		"INV-20260830-ABC123",
		"Fourtify Professional x2 @ 2099.00 = 4198.00",
		"Total: 4617.80",
		"Regards, Sales",
	} {
		if !strings.Contains(body, fragment) {
			t.Errorf("invoice email missing %q:\n%s", fragment, body)
		}
	}
}

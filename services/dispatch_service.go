// services/dispatch_service.go
package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"

	"crmdesk-backend/models"
	"crmdesk-backend/utils"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const (
	emailChunkSize  = 100
	emailChunkDelay = 500 * time.Millisecond

	smsChunkSize  = 50
	smsChunkDelay = 300 * time.Millisecond
)

// Recipient is one addressee of a bulk dispatch.
type Recipient struct {
	ContactID    uuid.UUID
	Name         string
	Organisation string
	Email        string
	Phone        string
}

// Message is one rendered outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// DispatchResult is the per-recipient outcome of a batch run.
type DispatchResult struct {
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// Mailer sends rendered emails. SendBatch delivers one chunk in a single
// provider call; if it errors the whole chunk is treated as failed. The SMTP
// implementation below is the production path; tests substitute their own.
type Mailer interface {
	Send(msg Message) error
	SendBatch(msgs []Message) error
}

type smtpMailer struct {
	host string
	port string
	from string
	auth smtp.Auth
}

// NewSMTPMailer builds a Mailer from SMTP_* environment variables.
func NewSMTPMailer() Mailer {
	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}
	return &smtpMailer{
		host: host,
		port: os.Getenv("SMTP_PORT"),
		from: os.Getenv("SMTP_FROM"),
		auth: auth,
	}
}

func (m *smtpMailer) Send(msg Message) error {
	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, msg.To, msg.Subject, msg.Body)
	return smtp.SendMail(m.host+":"+m.port, m.auth, m.from, []string{msg.To}, []byte(raw))
}

func (m *smtpMailer) SendBatch(msgs []Message) error {
	for _, msg := range msgs {
		if err := m.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

type DispatchService struct {
	db     *gorm.DB
	mailer Mailer
	sms    *twilio.RestClient
}

func NewDispatchService(db *gorm.DB) *DispatchService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &DispatchService{
		db:     db,
		mailer: NewSMTPMailer(),
		sms: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// NewDispatchServiceWithMailer is used by tests and callers that need a
// specific transport.
func NewDispatchServiceWithMailer(db *gorm.DB, mailer Mailer) *DispatchService {
	return &DispatchService{db: db, mailer: mailer}
}

// chunkRecipients splits a recipient list into fixed-size chunks, preserving
// order. The final chunk may be short.
func chunkRecipients(recipients []Recipient, size int) [][]Recipient {
	if size <= 0 {
		return nil
	}
	var chunks [][]Recipient
	for start := 0; start < len(recipients); start += size {
		end := start + size
		if end > len(recipients) {
			end = len(recipients)
		}
		chunks = append(chunks, recipients[start:end])
	}
	return chunks
}

// renderTemplate substitutes the per-recipient placeholders and appends the
// sender's signature when one is configured.
func renderTemplate(body string, r Recipient, signature string) string {
	rendered := strings.ReplaceAll(body, "[ContactName]", r.Name)
	rendered = strings.ReplaceAll(rendered, "[OrganisationName]", r.Organisation)
	if signature != "" {
		rendered = rendered + "\n\n" + signature
	}
	return rendered
}

// SendCampaign dispatches a templated email to every recipient, in chunks of
// 100 with a 500ms pause between chunks to stay under the provider's rate
// limit. The loop is sequential and blocking with no cancellation and no
// backoff: a chunk that fails records a failed result for every recipient in
// it, and the loop proceeds to the next chunk unconditionally.
func (s *DispatchService) SendCampaign(template models.EmailTemplate, recipients []Recipient, signature string) []DispatchResult {
	log.Printf("Starting campaign %q to %d recipients", template.Name, len(recipients))

	var results []DispatchResult
	chunks := chunkRecipients(recipients, emailChunkSize)
	for i, chunk := range chunks {
		if i > 0 {
			time.Sleep(emailChunkDelay)
		}

		msgs := make([]Message, len(chunk))
		for j, r := range chunk {
			msgs[j] = Message{
				To:      r.Email,
				Subject: template.Subject,
				Body:    renderTemplate(template.Body, r, signature),
			}
		}

		err := s.mailer.SendBatch(msgs)
		for _, r := range chunk {
			results = append(results, s.logDispatch(&template.ID, nil, r, models.DispatchChannelEmail, template.Subject, err))
		}
	}

	log.Printf("Campaign %q completed: %d recipients processed", template.Name, len(results))
	return results
}

// SendBulkSMS dispatches a templated message over Twilio in chunks of 50
// with a 300ms pause between chunks. Same chunk-level failure semantics as
// SendCampaign.
func (s *DispatchService) SendBulkSMS(body string, recipients []Recipient) []DispatchResult {
	log.Printf("Starting bulk SMS to %d recipients", len(recipients))

	var results []DispatchResult
	chunks := chunkRecipients(recipients, smsChunkSize)
	for i, chunk := range chunks {
		if i > 0 {
			time.Sleep(smsChunkDelay)
		}

		err := s.sendSMSChunk(body, chunk)
		for _, r := range chunk {
			results = append(results, s.logDispatch(nil, nil, r, models.DispatchChannelSMS, "", err))
		}
	}

	return results
}

func (s *DispatchService) sendSMSChunk(body string, chunk []Recipient) error {
	for _, r := range chunk {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(r.Phone)
		params.SetBody(renderTemplate(body, r, ""))
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))

		resp, err := s.sms.Api.CreateMessage(params)
		if err != nil {
			return err
		}
		if resp.Sid != nil {
			log.Printf("SMS sent to %s, SID: %s", r.Phone, *resp.Sid)
		}
	}
	return nil
}

// SendInvoice emails a rendered invoice summary to a single recipient and
// records the outcome against the invoice.
func (s *DispatchService) SendInvoice(invoice models.Invoice, r Recipient, signature string) error {
	msg := Message{
		To:      r.Email,
		Subject: "Invoice " + invoice.InvoiceNumber,
		Body:    renderInvoiceEmail(invoice, r, signature),
	}
	err := s.mailer.Send(msg)
	s.logDispatch(nil, &invoice.ID, r, models.DispatchChannelEmail, msg.Subject, err)
	return err
}

func renderInvoiceEmail(invoice models.Invoice, r Recipient, signature string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nPlease find invoice %s below.\n\n", r.Name, invoice.InvoiceNumber)
	for _, item := range invoice.Items {
		fmt.Fprintf(&b, "%s x%d @ %.2f = %.2f\n", item.Description, item.Quantity, item.UnitPrice, item.Total)
	}
	fmt.Fprintf(&b, "\nSubtotal: %.2f\nTax: %.2f\nTotal: %.2f\n", invoice.Amount, invoice.Tax, invoice.TotalAmount)
	if invoice.DueDate != nil {
		fmt.Fprintf(&b, "Due: %s", invoice.DueDate.Format("2 Jan 2006"))
		if days := utils.DaysBetween(time.Now(), *invoice.DueDate); days > 0 {
			fmt.Fprintf(&b, " (in %d days)", days)
		}
		b.WriteString("\n")
	}
	if signature != "" {
		b.WriteString("\n" + signature + "\n")
	}
	return b.String()
}

// logDispatch persists the per-recipient outcome row and returns the result
// for the API response. A failed log write is logged and otherwise ignored;
// it never aborts the batch.
func (s *DispatchService) logDispatch(campaignID, invoiceID *uuid.UUID, r Recipient, channel, subject string, sendErr error) DispatchResult {
	recipient := r.Email
	if channel == models.DispatchChannelSMS {
		recipient = r.Phone
	}

	status := models.DispatchStatusSent
	errorMsg := ""
	if sendErr != nil {
		log.Printf("Failed to send %s to %s: %v", channel, recipient, sendErr)
		status = models.DispatchStatusFailed
		errorMsg = sendErr.Error()
	}

	entry := models.DispatchLog{
		CampaignID:   campaignID,
		InvoiceID:    invoiceID,
		Recipient:    recipient,
		Channel:      channel,
		Subject:      subject,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now(),
	}
	if r.ContactID != uuid.Nil {
		contactID := r.ContactID
		entry.ContactID = &contactID
	}

	if s.db != nil {
		if err := s.db.Create(&entry).Error; err != nil {
			log.Printf("Failed to log dispatch for %s: %v", recipient, err)
		}
	}

	return DispatchResult{Recipient: recipient, Status: status, Error: errorMsg}
}

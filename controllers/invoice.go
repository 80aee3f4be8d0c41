// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"crmdesk-backend/config"
	"crmdesk-backend/models"
	"crmdesk-backend/services"
	"crmdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInvoiceInput defines the expected JSON structure for creating an invoice.
// Tax is always supplied as a percentage; the flat amount is derived and
// stored alongside it.
type CreateInvoiceInput struct {
	ClientID      uuid.UUID                 `json:"clientId" binding:"required"`
	InvoiceNumber string                    `json:"invoiceNumber"`
	IssueDate     *time.Time                `json:"issueDate"`
	DueDate       *time.Time                `json:"dueDate"`
	Items         []services.LineItemInput  `json:"items" binding:"required,min=1"`
	TaxPercent    float64                   `json:"taxPercent" binding:"min=0"`
	Notes         string                    `json:"notes"`
}

// UpdateInvoiceInput defines the expected JSON structure for updating an invoice
type UpdateInvoiceInput struct {
	IssueDate  *time.Time                `json:"issueDate"`
	DueDate    *time.Time                `json:"dueDate"`
	Items      *[]services.LineItemInput `json:"items"`
	TaxPercent *float64                  `json:"taxPercent" binding:"omitempty,min=0"`
	Status     *string                   `json:"status" binding:"omitempty,oneof=draft sent paid overdue cancelled"`
	Notes      *string                   `json:"notes"`
}

func buildInvoiceItems(inputs []services.LineItemInput, invoiceID uuid.UUID) []models.InvoiceItem {
	var items []models.InvoiceItem
	for i, item := range inputs {
		items = append(items, models.InvoiceItem{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       float64(item.Quantity) * item.UnitPrice,
			Position:    i,
		})
	}
	return items
}

// CreateInvoice creates a new draft invoice for a client
func CreateInvoice(c *gin.Context) {
	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate the client exists
	var client models.Client
	if err := config.DB.Where("id = ?", input.ClientID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	totals := services.ComputeInvoiceTotals(input.Items, input.TaxPercent)

	issueDate := time.Now()
	if input.IssueDate != nil {
		issueDate = *input.IssueDate
	}

	invoice := models.Invoice{
		ID:          uuid.New(),
		ClientID:    input.ClientID,
		IssueDate:   issueDate,
		DueDate:     input.DueDate,
		Amount:      totals.Subtotal,
		TaxPercent:  input.TaxPercent,
		Tax:         totals.Tax,
		TotalAmount: totals.Total,
		Status:      models.InvoiceStatusDraft,
		Notes:       input.Notes,
	}
	invoice.Items = buildInvoiceItems(input.Items, invoice.ID)

	invoice.InvoiceNumber = input.InvoiceNumber
	if invoice.InvoiceNumber == "" {
		invoice.InvoiceNumber = "INV-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)
	}

	if err := config.DB.Create(&invoice).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices retrieves invoices, optionally filtered by client or status
func GetInvoices(c *gin.Context) {
	query := config.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Order("issue_date DESC")

	if clientID := c.Query("clientId"); clientID != "" {
		clientUUID, err := uuid.Parse(clientID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
			return
		}
		query = query.Where("client_id = ?", clientUUID)
	}
	if status := c.Query("status"); status != "" {
		if !models.IsValidInvoiceStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice status: "+status)
			return
		}
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	invoiceUUID, err := uuid.Parse(invoiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Where("id = ?", invoiceUUID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice updates an existing invoice. Any change to the line items or
// the tax rate triggers a full recompute of the money block.
func UpdateInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	invoiceUUID, err := uuid.Parse(invoiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var invoice models.Invoice
	if err := tx.Preload("Items").
		Where("id = ?", invoiceUUID).
		First(&invoice).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.IssueDate != nil {
		invoice.IssueDate = *input.IssueDate
	}
	if input.DueDate != nil {
		invoice.DueDate = input.DueDate
	}
	if input.TaxPercent != nil {
		invoice.TaxPercent = *input.TaxPercent
	}

	// If items are being updated, replace them wholesale
	if input.Items != nil {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing items")
			return
		}
		invoice.Items = buildInvoiceItems(*input.Items, invoice.ID)
	}

	// Recalculate totals if anything in the money block moved
	if input.Items != nil || input.TaxPercent != nil {
		lineInputs := make([]services.LineItemInput, len(invoice.Items))
		for i, item := range invoice.Items {
			lineInputs[i] = services.LineItemInput{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			}
		}
		totals := services.ComputeInvoiceTotals(lineInputs, invoice.TaxPercent)
		invoice.Amount = totals.Subtotal
		invoice.Tax = totals.Tax
		invoice.TotalAmount = totals.Total
	}

	if input.Status != nil {
		invoice.Status = *input.Status
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	if err := tx.Save(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice deletes an invoice and its items
func DeleteInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	invoiceUUID, err := uuid.Parse(invoiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var invoice models.Invoice
	if err := tx.Where("id = ?", invoiceUUID).First(&invoice).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice items")
		return
	}

	if err := tx.Delete(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// SendInvoice emails the invoice to the client's primary contact and moves a
// draft to sent.
func SendInvoice(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	invoiceID := c.Param("id")
	invoiceUUID, err := uuid.Parse(invoiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Where("id = ?", invoiceUUID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if invoice.Status == models.InvoiceStatusCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Cannot send a cancelled invoice")
		return
	}

	var client models.Client
	if err := config.DB.Where("id = ?", invoice.ClientID).First(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load client")
		return
	}

	// Primary contact first, any contact with an email otherwise
	var contact models.Contact
	err = config.DB.Where("organisation_id = ? AND is_primary = ? AND email <> ''", client.OrganisationID, true).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = config.DB.Where("organisation_id = ? AND email <> ''", client.OrganisationID).
			First(&contact).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnprocessableEntity, "No contact with an email address for this client")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var sender models.User
	if err := config.DB.First(&sender, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load sender")
		return
	}

	dispatch := services.NewDispatchService(config.DB)
	recipient := services.Recipient{
		ContactID: contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
	}
	if err := dispatch.SendInvoice(invoice, recipient, sender.EmailSignature()); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to send invoice email")
		return
	}

	if invoice.Status == models.InvoiceStatusDraft {
		if err := config.DB.Model(&invoice).Update("status", models.InvoiceStatusSent).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice status")
			return
		}
		invoice.Status = models.InvoiceStatusSent
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice sent",
		"invoice": invoice,
	})
}

// MarkInvoicePaid transitions an invoice to paid
func MarkInvoicePaid(c *gin.Context) {
	invoiceID := c.Param("id")
	invoiceUUID, err := uuid.Parse(invoiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("id = ?", invoiceUUID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if invoice.Status == models.InvoiceStatusCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Cannot mark a cancelled invoice as paid")
		return
	}

	if err := config.DB.Model(&invoice).Update("status", models.InvoiceStatusPaid).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice status")
		return
	}
	invoice.Status = models.InvoiceStatusPaid

	c.JSON(http.StatusOK, invoice)
}

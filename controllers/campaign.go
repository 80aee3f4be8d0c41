package controllers

import (
	"errors"
	"net/http"

	"crmdesk-backend/config"
	"crmdesk-backend/models"
	"crmdesk-backend/services"
	"crmdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SendCampaignInput selects a template and its recipients. With no explicit
// contact ids the campaign goes to every contact with an email address.
type SendCampaignInput struct {
	TemplateID uuid.UUID   `json:"templateId" binding:"required"`
	ContactIDs []uuid.UUID `json:"contactIds"`
}

// SendBulkSMSInput carries a raw message for the SMS path.
type SendBulkSMSInput struct {
	Body       string      `json:"body" binding:"required"`
	ContactIDs []uuid.UUID `json:"contactIds"`
}

func campaignRecipients(contacts []models.Contact, orgNames map[uuid.UUID]string, needEmail bool) []services.Recipient {
	var recipients []services.Recipient
	for _, contact := range contacts {
		if needEmail && contact.Email == "" {
			continue
		}
		if !needEmail && contact.Phone == "" {
			continue
		}
		recipients = append(recipients, services.Recipient{
			ContactID:    contact.ID,
			Name:         contact.Name,
			Organisation: orgNames[contact.OrganisationID],
			Email:        contact.Email,
			Phone:        contact.Phone,
		})
	}
	return recipients
}

func loadCampaignContacts(contactIDs []uuid.UUID) ([]models.Contact, map[uuid.UUID]string, error) {
	query := config.DB.Order("created_at")
	if len(contactIDs) > 0 {
		query = query.Where("id IN ?", contactIDs)
	}

	var contacts []models.Contact
	if err := query.Find(&contacts).Error; err != nil {
		return nil, nil, err
	}

	var organisations []models.Organisation
	if err := config.DB.Find(&organisations).Error; err != nil {
		return nil, nil, err
	}
	orgNames := make(map[uuid.UUID]string, len(organisations))
	for _, org := range organisations {
		orgNames[org.ID] = org.Name
	}

	return contacts, orgNames, nil
}

// SendCampaign dispatches a templated email campaign. The response carries
// the per-recipient results; a partially failed batch is still a 200.
func SendCampaign(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input SendCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.EmailTemplate
	if err := config.DB.Where("id = ? AND is_active = ?", input.TemplateID, true).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Active template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	contacts, orgNames, err := loadCampaignContacts(input.ContactIDs)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load recipients")
		return
	}

	recipients := campaignRecipients(contacts, orgNames, true)
	if len(recipients) == 0 {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "No recipients with an email address")
		return
	}

	var sender models.User
	if err := config.DB.First(&sender, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load sender")
		return
	}

	dispatch := services.NewDispatchService(config.DB)
	results := dispatch.SendCampaign(template, recipients, sender.EmailSignature())

	sent := 0
	for _, r := range results {
		if r.Status == models.DispatchStatusSent {
			sent++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(results),
		"sent":    sent,
		"failed":  len(results) - sent,
		"results": results,
	})
}

// SendBulkSMS dispatches a raw message to contacts over the SMS provider.
func SendBulkSMS(c *gin.Context) {
	var input SendBulkSMSInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	contacts, orgNames, err := loadCampaignContacts(input.ContactIDs)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load recipients")
		return
	}

	recipients := campaignRecipients(contacts, orgNames, false)
	if len(recipients) == 0 {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "No recipients with a phone number")
		return
	}

	dispatch := services.NewDispatchService(config.DB)
	results := dispatch.SendBulkSMS(input.Body, recipients)

	sent := 0
	for _, r := range results {
		if r.Status == models.DispatchStatusSent {
			sent++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(results),
		"sent":    sent,
		"failed":  len(results) - sent,
		"results": results,
	})
}

// GetDispatchLogs lists per-recipient dispatch outcomes, newest first
func GetDispatchLogs(c *gin.Context) {
	query := config.DB.Order("sent_at DESC").Limit(200)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var logs []models.DispatchLog
	if err := query.Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve dispatch logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}

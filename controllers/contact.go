package controllers

import (
	"errors"
	"net/http"

	"crmdesk-backend/config"
	"crmdesk-backend/models"
	"crmdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateContactInput defines the expected JSON structure for creating a contact
type CreateContactInput struct {
	OrganisationID uuid.UUID `json:"organisationId" binding:"required"`
	Name           string    `json:"name" binding:"required"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Status         string    `json:"status"`
	IsPrimary      bool      `json:"isPrimary"`
}

// UpdateContactInput defines the expected JSON structure for updating a contact
type UpdateContactInput struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Status    *string `json:"status"`
	IsPrimary *bool   `json:"isPrimary"`
}

// CreateContact creates a new contact under an organisation
func CreateContact(c *gin.Context) {
	var input CreateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Email != "" && !utils.ValidateEmail(input.Email) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	status := input.Status
	if status == "" {
		status = models.ContactStatusNew
	}
	if !models.IsValidContactStatus(status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact status: "+status)
		return
	}

	// Validate the organisation exists
	var organisation models.Organisation
	if err := config.DB.Where("id = ?", input.OrganisationID).
		First(&organisation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Organisation not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	contact := models.Contact{
		ID:             uuid.New(),
		OrganisationID: input.OrganisationID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Status:         status,
		IsPrimary:      input.IsPrimary,
	}

	if err := config.DB.Create(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// GetContacts retrieves all contacts, optionally filtered by organisation
func GetContacts(c *gin.Context) {
	query := config.DB.Order("created_at DESC")

	if orgID := c.Query("organisationId"); orgID != "" {
		orgUUID, err := uuid.Parse(orgID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid organisation ID format")
			return
		}
		query = query.Where("organisation_id = ?", orgUUID)
	}

	var contacts []models.Contact
	if err := query.Find(&contacts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// GetContact retrieves a specific contact by ID
func GetContact(c *gin.Context) {
	contactID := c.Param("id")
	contactUUID, err := uuid.Parse(contactID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	var contact models.Contact
	if err := config.DB.Where("id = ?", contactUUID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, contact)
}

// UpdateContact updates an existing contact
func UpdateContact(c *gin.Context) {
	contactID := c.Param("id")
	contactUUID, err := uuid.Parse(contactID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	var input UpdateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var contact models.Contact
	if err := config.DB.Where("id = ?", contactUUID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.Name != nil {
		contact.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email != "" && !utils.ValidateEmail(*input.Email) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
			return
		}
		contact.Email = *input.Email
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		contact.Phone = *input.Phone
	}
	if input.Status != nil {
		if !models.IsValidContactStatus(*input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact status: "+*input.Status)
			return
		}
		contact.Status = *input.Status
	}
	if input.IsPrimary != nil {
		contact.IsPrimary = *input.IsPrimary
	}

	if err := config.DB.Save(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteContact hard deletes a contact
func DeleteContact(c *gin.Context) {
	contactID := c.Param("id")
	contactUUID, err := uuid.Parse(contactID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	result := config.DB.Unscoped().Where("id = ?", contactUUID).Delete(&models.Contact{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete contact")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

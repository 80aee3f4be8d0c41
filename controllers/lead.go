package controllers

import (
	"errors"
	"net/http"
	"time"

	"crmdesk-backend/config"
	"crmdesk-backend/models"
	"crmdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateLeadInput defines the expected JSON structure for creating a lead
type CreateLeadInput struct {
	OrganisationID    uuid.UUID  `json:"organisationId" binding:"required"`
	ContactID         *uuid.UUID `json:"contactId"`
	Name              string     `json:"name" binding:"required"`
	Stage             string     `json:"stage"`
	ExpectedValue     float64    `json:"expectedValue" binding:"min=0"`
	Probability       int        `json:"probability" binding:"min=0,max=100"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
	Owner             string     `json:"owner"`
	Priority          string     `json:"priority" binding:"omitempty,oneof=Low Medium High Critical"`
}

// UpdateLeadInput defines the expected JSON structure for updating a lead
type UpdateLeadInput struct {
	ContactID         *uuid.UUID `json:"contactId"`
	Name              *string    `json:"name"`
	ExpectedValue     *float64   `json:"expectedValue" binding:"omitempty,min=0"`
	Probability       *int       `json:"probability" binding:"omitempty,min=0,max=100"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
	Owner             *string    `json:"owner"`
	Priority          *string    `json:"priority" binding:"omitempty,oneof=Low Medium High Critical"`
}

// UpdateLeadStageInput carries a stage transition
type UpdateLeadStageInput struct {
	Stage string `json:"stage" binding:"required"`
}

// BulkDeleteLeadsInput carries the ids for a bulk delete
type BulkDeleteLeadsInput struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// CreateLead creates a new lead. New leads default to the "New Lead" stage.
func CreateLead(c *gin.Context) {
	var input CreateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	stage := input.Stage
	if stage == "" {
		stage = models.StageNewLead
	}
	// Unknown stage labels are rejected here, not coerced at read time
	if !models.IsValidStage(stage) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown pipeline stage: "+stage)
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

	// Validate the contact, when linked
	if input.ContactID != nil {
		var contact models.Contact
		if err := config.DB.Where("id = ? AND organisation_id = ?", *input.ContactID, input.OrganisationID).
			First(&contact).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Contact not found in this organisation")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	lead := models.Lead{
		ID:                uuid.New(),
		OrganisationID:    input.OrganisationID,
		ContactID:         input.ContactID,
		Name:              input.Name,
		Stage:             stage,
		ExpectedValue:     input.ExpectedValue,
		Probability:       input.Probability,
		ExpectedCloseDate: input.ExpectedCloseDate,
		Owner:             input.Owner,
		Priority:          priority,
	}

	if err := config.DB.Create(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// GetLeads retrieves all leads, optionally filtered by stage or organisation
func GetLeads(c *gin.Context) {
	query := config.DB.Order("created_at DESC")

	if stage := c.Query("stage"); stage != "" {
		if !models.IsValidStage(stage) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown pipeline stage: "+stage)
			return
		}
		query = query.Where("stage = ?", stage)
	}
	if orgID := c.Query("organisationId"); orgID != "" {
		orgUUID, err := uuid.Parse(orgID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid organisation ID format")
			return
		}
		query = query.Where("organisation_id = ?", orgUUID)
	}

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	c.JSON(http.StatusOK, leads)
}

// GetLead retrieves a specific lead with its activity history
func GetLead(c *gin.Context) {
	leadID := c.Param("id")
	leadUUID, err := uuid.Parse(leadID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var lead models.Lead
	if err := config.DB.Preload("Activities", func(db *gorm.DB) *gorm.DB {
		return db.Order("activity_date DESC")
	}).Where("id = ?", leadUUID).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, lead)
}

// UpdateLead updates lead fields other than stage
func UpdateLead(c *gin.Context) {
	leadID := c.Param("id")
	leadUUID, err := uuid.Parse(leadID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var input UpdateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var lead models.Lead
	if err := config.DB.Where("id = ?", leadUUID).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.ContactID != nil {
		var contact models.Contact
		if err := config.DB.Where("id = ? AND organisation_id = ?", *input.ContactID, lead.OrganisationID).
			First(&contact).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Contact not found in this organisation")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		lead.ContactID = input.ContactID
	}
	if input.Name != nil {
		lead.Name = *input.Name
	}
	if input.ExpectedValue != nil {
		lead.ExpectedValue = *input.ExpectedValue
	}
	if input.Probability != nil {
		lead.Probability = *input.Probability
	}
	if input.ExpectedCloseDate != nil {
		lead.ExpectedCloseDate = input.ExpectedCloseDate
	}
	if input.Owner != nil {
		lead.Owner = *input.Owner
	}
	if input.Priority != nil {
		lead.Priority = *input.Priority
	}

	if err := config.DB.Save(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// UpdateLeadStage moves a lead to another pipeline stage and appends an
// activity record for the transition.
func UpdateLeadStage(c *gin.Context) {
	leadID := c.Param("id")
	leadUUID, err := uuid.Parse(leadID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var input UpdateLeadStageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !models.IsValidStage(input.Stage) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown pipeline stage: "+input.Stage)
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var lead models.Lead
	if err := tx.Where("id = ?", leadUUID).First(&lead).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	previousStage := lead.Stage
	lead.Stage = input.Stage

	if err := tx.Save(&lead).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead stage")
		return
	}

	activity := models.Activity{
		LeadID:       lead.ID,
		ActivityDate: time.Now(),
		Subject:      "Stage changed",
		Description:  previousStage + " -> " + input.Stage,
	}
	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record stage change")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, lead)
}

// BulkDeleteLeads deletes a set of leads by id
func BulkDeleteLeads(c *gin.Context) {
	var input BulkDeleteLeadsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result := config.DB.Where("id IN ?", input.IDs).Delete(&models.Lead{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete leads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Leads deleted successfully",
		"deleted": result.RowsAffected,
	})
}

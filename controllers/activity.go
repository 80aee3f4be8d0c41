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

// CreateActivityInput defines the expected JSON structure for appending an activity
type CreateActivityInput struct {
	LeadID       uuid.UUID  `json:"leadId" binding:"required"`
	ActivityDate *time.Time `json:"activityDate"`
	Subject      string     `json:"subject" binding:"required"`
	Description  string     `json:"description"`
}

// CreateActivity appends an audit record to a lead. Activities are
// append-only; there are no update or delete endpoints.
func CreateActivity(c *gin.Context) {
	var input CreateActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate the lead exists
	var lead models.Lead
	if err := config.DB.Where("id = ?", input.LeadID).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	activityDate := time.Now()
	if input.ActivityDate != nil {
		activityDate = *input.ActivityDate
	}

	createdBy := ""
	if userID, exists := c.Get("userId"); exists {
		if id, ok := userID.(string); ok {
			createdBy = id
		}
	}

	activity := models.Activity{
		ID:           uuid.New(),
		LeadID:       input.LeadID,
		ActivityDate: activityDate,
		Subject:      input.Subject,
		Description:  input.Description,
		CreatedBy:    createdBy,
	}

	if err := config.DB.Create(&activity).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record activity")
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// GetActivities lists a lead's activities, newest first
func GetActivities(c *gin.Context) {
	leadID := c.Query("leadId")
	if leadID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "leadId query parameter is required")
		return
	}
	leadUUID, err := uuid.Parse(leadID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var activities []models.Activity
	if err := config.DB.Where("lead_id = ?", leadUUID).
		Order("activity_date DESC").
		Find(&activities).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve activities")
		return
	}

	c.JSON(http.StatusOK, activities)
}

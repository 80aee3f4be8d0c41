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

// CreateChampionInput defines the expected JSON structure for creating a champion
type CreateChampionInput struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	OrganizationName string `json:"organizationName"`
	AllocatedSale    int    `json:"allocatedSale" binding:"min=0"`
	ActiveClients    int    `json:"activeClients" binding:"min=0"`
	PerformanceScore float64 `json:"performanceScore" binding:"min=0"`
}

// UpdateChampionInput defines the expected JSON structure for updating a champion
type UpdateChampionInput struct {
	Name             *string  `json:"name"`
	Phone            *string  `json:"phone"`
	OrganizationName *string  `json:"organizationName"`
	AllocatedSale    *int     `json:"allocatedSale" binding:"omitempty,min=0"`
	ActiveClients    *int     `json:"activeClients" binding:"omitempty,min=0"`
	PerformanceScore *float64 `json:"performanceScore" binding:"omitempty,min=0"`
}

// ToggleChampionInput toggles the champion designation for an email address
type ToggleChampionInput struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// CreateChampion registers a referral partner. The conversion rate is
// derived, never accepted from the caller.
func CreateChampion(c *gin.Context) {
	var input CreateChampionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Check if email already registered as a champion
	var existing models.Champion
	if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Champion with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	champion := models.Champion{
		ID:               uuid.New(),
		Name:             input.Name,
		Email:            input.Email,
		Phone:            input.Phone,
		OrganizationName: input.OrganizationName,
		AllocatedSale:    input.AllocatedSale,
		ActiveClients:    input.ActiveClients,
		ConversionRate:   services.ComputeChampionConversionRate(input.AllocatedSale, input.ActiveClients),
		PerformanceScore: input.PerformanceScore,
		IsActive:         true,
	}

	if err := config.DB.Create(&champion).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create champion")
		return
	}

	c.JSON(http.StatusCreated, champion)
}

// GetChampions retrieves all champions
func GetChampions(c *gin.Context) {
	var champions []models.Champion
	if err := config.DB.Order("created_at DESC").Find(&champions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve champions")
		return
	}

	c.JSON(http.StatusOK, champions)
}

// UpdateChampion updates an existing champion and re-derives its conversion rate
func UpdateChampion(c *gin.Context) {
	championID := c.Param("id")
	championUUID, err := uuid.Parse(championID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid champion ID format")
		return
	}

	var input UpdateChampionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var champion models.Champion
	if err := config.DB.Where("id = ?", championUUID).First(&champion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Champion not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.Name != nil {
		champion.Name = *input.Name
	}
	if input.Phone != nil {
		champion.Phone = *input.Phone
	}
	if input.OrganizationName != nil {
		champion.OrganizationName = *input.OrganizationName
	}
	if input.AllocatedSale != nil {
		champion.AllocatedSale = *input.AllocatedSale
	}
	if input.ActiveClients != nil {
		champion.ActiveClients = *input.ActiveClients
	}
	if input.PerformanceScore != nil {
		champion.PerformanceScore = *input.PerformanceScore
	}

	champion.ConversionRate = services.ComputeChampionConversionRate(champion.AllocatedSale, champion.ActiveClients)

	if err := config.DB.Save(&champion).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update champion")
		return
	}

	c.JSON(http.StatusOK, champion)
}

// DeleteChampion removes a champion
func DeleteChampion(c *gin.Context) {
	championID := c.Param("id")
	championUUID, err := uuid.Parse(championID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid champion ID format")
		return
	}

	result := config.DB.Where("id = ?", championUUID).Delete(&models.Champion{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete champion")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Champion not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Champion deleted successfully"})
}

// ToggleChampion flips the champion designation for an email address: an
// existing row is toggled active/inactive, a missing one is created.
func ToggleChampion(c *gin.Context) {
	var input ToggleChampionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var champion models.Champion
	err := config.DB.Where("email = ?", input.Email).First(&champion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		champion = models.Champion{
			ID:       uuid.New(),
			Name:     input.Name,
			Email:    input.Email,
			IsActive: true,
		}
		if champion.Name == "" {
			champion.Name = input.Email
		}
		if err := config.DB.Create(&champion).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create champion")
			return
		}
		c.JSON(http.StatusCreated, champion)
		return
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	champion.IsActive = !champion.IsActive
	if err := config.DB.Save(&champion).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update champion")
		return
	}

	c.JSON(http.StatusOK, champion)
}

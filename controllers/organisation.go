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

// CreateOrganisationInput defines the expected JSON structure for creating an organisation
type CreateOrganisationInput struct {
	Name     string `json:"name" binding:"required"`
	ABN      string `json:"abn"`
	State    string `json:"state"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
}

// UpdateOrganisationInput defines the expected JSON structure for updating an organisation
type UpdateOrganisationInput struct {
	Name     *string `json:"name"`
	ABN      *string `json:"abn"`
	State    *string `json:"state"`
	Industry *string `json:"industry"`
	Size     *string `json:"size"`
}

// CreateOrganisation creates a new organisation
func CreateOrganisation(c *gin.Context) {
	var input CreateOrganisationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ABN != "" && !utils.ValidateABN(input.ABN) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ABN format")
		return
	}

	organisation := models.Organisation{
		ID:       uuid.New(),
		Name:     input.Name,
		ABN:      input.ABN,
		State:    input.State,
		Industry: input.Industry,
		Size:     input.Size,
	}

	if err := config.DB.Create(&organisation).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create organisation")
		return
	}

	c.JSON(http.StatusCreated, organisation)
}

// GetOrganisations retrieves all organisations
func GetOrganisations(c *gin.Context) {
	var organisations []models.Organisation
	if err := config.DB.Order("created_at DESC").Find(&organisations).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve organisations")
		return
	}

	c.JSON(http.StatusOK, organisations)
}

// GetOrganisation retrieves a specific organisation with its contacts
func GetOrganisation(c *gin.Context) {
	organisationID := c.Param("id")
	organisationUUID, err := uuid.Parse(organisationID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid organisation ID format")
		return
	}

	var organisation models.Organisation
	if err := config.DB.Preload("Contacts").
		Where("id = ?", organisationUUID).
		First(&organisation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Organisation not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, organisation)
}

// UpdateOrganisation updates an existing organisation
func UpdateOrganisation(c *gin.Context) {
	organisationID := c.Param("id")
	organisationUUID, err := uuid.Parse(organisationID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid organisation ID format")
		return
	}

	var input UpdateOrganisationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var organisation models.Organisation
	if err := config.DB.Where("id = ?", organisationUUID).
		First(&organisation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Organisation not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.Name != nil {
		organisation.Name = *input.Name
	}
	if input.ABN != nil {
		if *input.ABN != "" && !utils.ValidateABN(*input.ABN) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid ABN format")
			return
		}
		organisation.ABN = *input.ABN
	}
	if input.State != nil {
		organisation.State = *input.State
	}
	if input.Industry != nil {
		organisation.Industry = *input.Industry
	}
	if input.Size != nil {
		organisation.Size = *input.Size
	}

	if err := config.DB.Save(&organisation).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update organisation")
		return
	}

	c.JSON(http.StatusOK, organisation)
}

// DeleteOrganisation deletes an organisation
func DeleteOrganisation(c *gin.Context) {
	organisationID := c.Param("id")
	organisationUUID, err := uuid.Parse(organisationID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid organisation ID format")
		return
	}

	result := config.DB.Where("id = ?", organisationUUID).Delete(&models.Organisation{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete organisation")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Organisation not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Organisation deleted successfully"})
}

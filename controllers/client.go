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

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	OrganisationID uuid.UUID  `json:"organisationId" binding:"required"`
	Plan           string     `json:"plan"`
	Status         string     `json:"status" binding:"omitempty,oneof=onboarding active churned"`
	MRR            float64    `json:"mrr" binding:"min=0"`
	ContractStart  *time.Time `json:"contractStart"`
	ContractEnd    *time.Time `json:"contractEnd"`
	DispCompliant  bool       `json:"dispCompliant"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Plan          *string    `json:"plan"`
	Status        *string    `json:"status" binding:"omitempty,oneof=onboarding active churned"`
	MRR           *float64   `json:"mrr" binding:"omitempty,min=0"`
	ContractStart *time.Time `json:"contractStart"`
	ContractEnd   *time.Time `json:"contractEnd"`
	DispCompliant *bool      `json:"dispCompliant"`
}

// CreateClient creates a new client for an organisation
func CreateClient(c *gin.Context) {
	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
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

	// One client row per organisation
	var existing models.Client
	if err := config.DB.Where("organisation_id = ?", input.OrganisationID).
		First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Organisation already has a client record")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	status := input.Status
	if status == "" {
		status = models.ClientStatusOnboarding
	}

	client := models.Client{
		ID:             uuid.New(),
		OrganisationID: input.OrganisationID,
		Plan:           input.Plan,
		Status:         status,
		MRR:            input.MRR,
		ContractStart:  input.ContractStart,
		ContractEnd:    input.ContractEnd,
		DispCompliant:  input.DispCompliant,
	}

	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients retrieves all client rows
func GetClients(c *gin.Context) {
	var clients []models.Client
	if err := config.DB.Order("created_at DESC").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClientViews returns the effective client list: real client rows merged
// with contacts whose status marks them as clients, one view per
// organisation, real rows shadowing inferred ones.
func GetClientViews(c *gin.Context) {
	var clients []models.Client
	if err := config.DB.Order("created_at DESC").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	var contacts []models.Contact
	if err := config.DB.Where("status IN ?", []string{
		models.ContactStatusClient, models.ContactStatusClientExpansion,
	}).Order("created_at").Find(&contacts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}

	views := services.BuildClientViews(clients, contacts)

	c.JSON(http.StatusOK, gin.H{
		"views":    views,
		"totalMrr": services.TotalMRR(views),
	})
}

// GetClient retrieves a specific client with invoices and payments
func GetClient(c *gin.Context) {
	clientID := c.Param("id")
	clientUUID, err := uuid.Parse(clientID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var client models.Client
	if err := config.DB.Preload("Invoices.Items").Preload("Payments").
		Where("id = ?", clientUUID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient updates an existing client
func UpdateClient(c *gin.Context) {
	clientID := c.Param("id")
	clientUUID, err := uuid.Parse(clientID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.Where("id = ?", clientUUID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.Plan != nil {
		client.Plan = *input.Plan
	}
	if input.Status != nil {
		client.Status = *input.Status
	}
	if input.MRR != nil {
		client.MRR = *input.MRR
	}
	if input.ContractStart != nil {
		client.ContractStart = input.ContractStart
	}
	if input.ContractEnd != nil {
		client.ContractEnd = input.ContractEnd
	}
	if input.DispCompliant != nil {
		client.DispCompliant = *input.DispCompliant
	}

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient deletes a client
func DeleteClient(c *gin.Context) {
	clientID := c.Param("id")
	clientUUID, err := uuid.Parse(clientID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	result := config.DB.Where("id = ?", clientUUID).Delete(&models.Client{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// UpdateClientMRR recomputes the client's MRR from its paid invoices. With
// no paid invoices the stored value is left alone and the caller gets a
// user-facing message instead of a hard failure.
func UpdateClientMRR(c *gin.Context) {
	clientID := c.Param("id")
	clientUUID, err := uuid.Parse(clientID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var client models.Client
	if err := config.DB.Where("id = ?", clientUUID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	billing := services.NewBillingService(config.DB)
	mrr, err := billing.UpdateMRRFromInvoices(clientUUID)
	if err != nil {
		if errors.Is(err, services.ErrNoPaidInvoices) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Unable to derive MRR - make sure this client has paid invoices",
				"mrr":   client.MRR,
			})
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update MRR")
		return
	}

	c.JSON(http.StatusOK, gin.H{"mrr": mrr})
}

// GetClientBalance returns the client's outstanding balance: total invoiced
// minus total paid.
func GetClientBalance(c *gin.Context) {
	clientID := c.Param("id")
	clientUUID, err := uuid.Parse(clientID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var client models.Client
	if err := config.DB.Where("id = ?", clientUUID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	billing := services.NewBillingService(config.DB)
	balance, err := billing.ClientBalance(clientUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"outstandingBalance": balance})
}

package controllers

import (
	"errors"
	"net/http"

	"crmdesk-backend/config"
	"crmdesk-backend/models"
	"crmdesk-backend/services"
	"crmdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview aggregates a point-in-time snapshot of leads,
// organisations and contacts into the dashboard summary. The snapshot is
// read once; all derivation happens in the pure stats functions.
func GetDashboardOverview(c *gin.Context) {
	var leads []models.Lead
	if err := config.DB.Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	var organisations []models.Organisation
	if err := config.DB.Find(&organisations).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve organisations")
		return
	}

	var contacts []models.Contact
	if err := config.DB.Find(&contacts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}

	stats, err := services.ComputeDashboardStats(leads, organisations, contacts)
	if err != nil {
		if errors.Is(err, models.ErrUnknownStage) {
			// Data-integrity error: refuse to aggregate, don't coerce
			utils.RespondWithError(c, http.StatusUnprocessableEntity, "A lead has an unrecognised pipeline stage")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute dashboard stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":                 stats,
		"weightedPipelineValue": services.ComputeWeightedPipelineValue(leads),
		"priorityDistribution":  services.ComputePriorityDistribution(leads),
	})
}

// GetPipelineOverview returns the per-stage breakdown for the pipeline
// board, in canonical stage order, plus the weighted pipeline value.
func GetPipelineOverview(c *gin.Context) {
	var leads []models.Lead
	if err := config.DB.Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	breakdown, err := services.ComputeStageBreakdown(leads)
	if err != nil {
		if errors.Is(err, models.ErrUnknownStage) {
			utils.RespondWithError(c, http.StatusUnprocessableEntity, "A lead has an unrecognised pipeline stage")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute pipeline breakdown")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stages":                models.PipelineStages,
		"breakdown":             breakdown,
		"weightedPipelineValue": services.ComputeWeightedPipelineValue(leads),
	})
}

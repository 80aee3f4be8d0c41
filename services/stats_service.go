// services/stats_service.go
package services

import (
	"math"

	"crmdesk-backend/models"
)

// DashboardStats is the summary block rendered on the portal landing page.
type DashboardStats struct {
	TotalLeads         int     `json:"totalLeads"`
	ActiveLeads        int     `json:"activeLeads"`
	TotalOrganisations int     `json:"totalOrganisations"`
	TotalContacts      int     `json:"totalContacts"`
	PipelineValue      float64 `json:"pipelineValue"`
	ClosedWonValue     float64 `json:"closedWonValue"`
	ConversionRate     float64 `json:"conversionRate"`
	AvgDealSize        float64 `json:"avgDealSize"`
}

// StageSummary is one row of the per-stage pipeline breakdown.
type StageSummary struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeDashboardStats aggregates lead, organisation and contact snapshots
// into the dashboard summary. Pure: no I/O, deterministic for a given
// snapshot. A lead whose stage is outside the canonical vocabulary makes the
// whole computation fail with models.ErrUnknownStage; the caller decides
// whether to exclude the lead or block the read.
func ComputeDashboardStats(leads []models.Lead, organisations []models.Organisation, contacts []models.Contact) (DashboardStats, error) {
	stats := DashboardStats{
		TotalLeads:         len(leads),
		TotalOrganisations: len(organisations),
		TotalContacts:      len(contacts),
	}

	var wonCount, lostCount int
	for _, lead := range leads {
		class, err := models.ClassifyStage(lead.Stage)
		if err != nil {
			return DashboardStats{}, err
		}
		switch class {
		case models.StageActive:
			stats.ActiveLeads++
			stats.PipelineValue += lead.ExpectedValue
		case models.StageWon:
			wonCount++
			stats.ClosedWonValue += lead.ExpectedValue
		case models.StageLost:
			lostCount++
		}
	}

	totalClosed := wonCount + lostCount
	if totalClosed > 0 {
		stats.ConversionRate = round1(float64(wonCount) / float64(totalClosed) * 100)
	}
	if wonCount > 0 {
		stats.AvgDealSize = stats.ClosedWonValue / float64(wonCount)
	}

	return stats, nil
}

// ComputeWeightedPipelineValue sums expectedValue scaled by close probability
// over every lead, closed ones included.
func ComputeWeightedPipelineValue(leads []models.Lead) float64 {
	var total float64
	for _, lead := range leads {
		total += lead.ExpectedValue * float64(lead.Probability) / 100
	}
	return total
}

// ComputeChampionConversionRate derives a champion's conversion percentage
// from target attainment. Zero or negative targets yield 0; values above
// 100% are not clamped.
func ComputeChampionConversionRate(allocatedSale, activeClients int) float64 {
	if allocatedSale <= 0 {
		return 0
	}
	return round2(float64(activeClients) / float64(allocatedSale) * 100)
}

// ComputeStageBreakdown returns a count and expected-value rollup per
// canonical stage, in canonical pipeline order. Rows for empty stages are
// included so the pipeline board always shows all ten columns.
func ComputeStageBreakdown(leads []models.Lead) ([]StageSummary, error) {
	byStage := make(map[string]*StageSummary, len(models.PipelineStages))
	summaries := make([]StageSummary, len(models.PipelineStages))
	for i, stage := range models.PipelineStages {
		summaries[i] = StageSummary{Stage: stage}
		byStage[stage] = &summaries[i]
	}

	for _, lead := range leads {
		row, ok := byStage[lead.Stage]
		if !ok {
			return nil, models.ErrUnknownStage
		}
		row.Count++
		row.Value += lead.ExpectedValue
	}

	return summaries, nil
}

// ComputePriorityDistribution counts leads per priority label.
func ComputePriorityDistribution(leads []models.Lead) map[string]int {
	dist := make(map[string]int)
	for _, lead := range leads {
		dist[lead.Priority]++
	}
	return dist
}

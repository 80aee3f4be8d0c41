// services/stats_service_test.go
package services

import (
	"errors"
	"testing"

	"crmdesk-backend/models"
)

func lead(stage string, value float64, probability int) models.Lead {
	return models.Lead{Stage: stage, ExpectedValue: value, Probability: probability}
}

func TestComputeDashboardStats(t *testing.T) {
	leads := []models.Lead{
		lead(models.StageNewLead, 1000, 20),
		lead(models.StageClosedWon, 5000, 100),
		lead(models.StageClosedLost, 2000, 0),
	}
	organisations := make([]models.Organisation, 2)
	contacts := make([]models.Contact, 4)

	stats, err := ComputeDashboardStats(leads, organisations, contacts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalLeads != 3 {
		t.Errorf("TotalLeads = %d, want 3", stats.TotalLeads)
	}
	if stats.ActiveLeads != 1 {
		t.Errorf("ActiveLeads = %d, want 1", stats.ActiveLeads)
	}
	if stats.PipelineValue != 1000 {
		t.Errorf("PipelineValue = %v, want 1000", stats.PipelineValue)
	}
	if stats.ClosedWonValue != 5000 {
		t.Errorf("ClosedWonValue = %v, want 5000", stats.ClosedWonValue)
	}
	if stats.ConversionRate != 50.0 {
		t.Errorf("ConversionRate = %v, want 50.0", stats.ConversionRate)
	}
	if stats.AvgDealSize != 5000 {
		t.Errorf("AvgDealSize = %v, want 5000", stats.AvgDealSize)
	}
	if stats.TotalOrganisations != 2 || stats.TotalContacts != 4 {
		t.Errorf("entity counts = %d/%d, want 2/4", stats.TotalOrganisations, stats.TotalContacts)
	}
}

func TestComputeDashboardStatsZeroGuards(t *testing.T) {
	// No closed leads at all: both ratios must be 0, not NaN
	leads := []models.Lead{
		lead(models.StageNewLead, 1000, 50),
		lead(models.StageOnHold, 2000, 30),
	}

	stats, err := ComputeDashboardStats(leads, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ConversionRate != 0 {
		t.Errorf("ConversionRate = %v, want 0", stats.ConversionRate)
	}
	if stats.AvgDealSize != 0 {
		t.Errorf("AvgDealSize = %v, want 0", stats.AvgDealSize)
	}
	// On Hold counts as active pipeline
	if stats.ActiveLeads != 2 || stats.PipelineValue != 3000 {
		t.Errorf("active = %d/%v, want 2/3000", stats.ActiveLeads, stats.PipelineValue)
	}
}

func TestComputeDashboardStatsEmptySnapshot(t *testing.T) {
	stats, err := ComputeDashboardStats(nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats != (DashboardStats{}) {
		t.Errorf("empty snapshot should yield zero stats, got %+v", stats)
	}
}

func TestComputeDashboardStatsUnknownStage(t *testing.T) {
	leads := []models.Lead{lead("Negotiation", 1000, 50)}

	if _, err := ComputeDashboardStats(leads, nil, nil); !errors.Is(err, models.ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestComputeWeightedPipelineValue(t *testing.T) {
	leads := []models.Lead{
		lead(models.StageNewLead, 1000, 20),      // 200
		lead(models.StageClosedWon, 5000, 100),   // 5000, closed leads included
		lead(models.StageClosedLost, 2000, 50),   // 1000
	}

	want := 6200.0
	if got := ComputeWeightedPipelineValue(leads); got != want {
		t.Errorf("ComputeWeightedPipelineValue = %v, want %v", got, want)
	}
}

func TestComputeWeightedPipelineValueIdempotent(t *testing.T) {
	leads := []models.Lead{
		lead(models.StageQualifiedLead, 1234.56, 37),
		lead(models.StageAwaiting, 99.99, 81),
	}

	first := ComputeWeightedPipelineValue(leads)
	for i := 0; i < 100; i++ {
		if got := ComputeWeightedPipelineValue(leads); got != first {
			t.Fatalf("call %d: got %v, want %v", i, got, first)
		}
	}
}

func TestComputeChampionConversionRate(t *testing.T) {
	tests := []struct {
		allocated, active int
		want              float64
	}{
		{0, 10, 0},
		{-5, 10, 0},
		{40, 10, 25.00},
		{3, 1, 33.33},
		{10, 15, 150.00}, // not clamped above 100
	}

	for _, tt := range tests {
		if got := ComputeChampionConversionRate(tt.allocated, tt.active); got != tt.want {
			t.Errorf("ComputeChampionConversionRate(%d, %d) = %v, want %v",
				tt.allocated, tt.active, got, tt.want)
		}
	}
}

func TestComputeStageBreakdown(t *testing.T) {
	leads := []models.Lead{
		lead(models.StageNewLead, 1000, 20),
		lead(models.StageNewLead, 500, 10),
		lead(models.StageClosedWon, 5000, 100),
	}

	breakdown, err := ComputeStageBreakdown(leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(breakdown) != len(models.PipelineStages) {
		t.Fatalf("expected a row per canonical stage, got %d", len(breakdown))
	}
	// Rows come back in canonical order, empty stages included
	for i, row := range breakdown {
		if row.Stage != models.PipelineStages[i] {
			t.Errorf("row %d stage = %q, want %q", i, row.Stage, models.PipelineStages[i])
		}
	}
	if breakdown[0].Count != 2 || breakdown[0].Value != 1500 {
		t.Errorf("New Lead row = %d/%v, want 2/1500", breakdown[0].Count, breakdown[0].Value)
	}
	if breakdown[7].Count != 1 || breakdown[7].Value != 5000 {
		t.Errorf("Closed Won row = %d/%v, want 1/5000", breakdown[7].Count, breakdown[7].Value)
	}

	if _, err := ComputeStageBreakdown([]models.Lead{lead("Mystery", 1, 1)}); !errors.Is(err, models.ErrUnknownStage) {
		t.Errorf("expected ErrUnknownStage for unknown stage, got %v", err)
	}
}

func TestComputePriorityDistribution(t *testing.T) {
	leads := []models.Lead{
		{Priority: models.PriorityHigh},
		{Priority: models.PriorityHigh},
		{Priority: models.PriorityLow},
	}

	dist := ComputePriorityDistribution(leads)
	if dist[models.PriorityHigh] != 2 || dist[models.PriorityLow] != 1 {
		t.Errorf("unexpected distribution: %v", dist)
	}
}

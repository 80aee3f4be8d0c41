package models

import (
	"errors"
	"testing"
)

func TestPipelineStagesVocabulary(t *testing.T) {
	if len(PipelineStages) != 10 {
		t.Fatalf("expected 10 canonical stages, got %d", len(PipelineStages))
	}

	// Every canonical stage classifies into exactly one class
	for _, stage := range PipelineStages {
		class, err := ClassifyStage(stage)
		if err != nil {
			t.Errorf("ClassifyStage(%q) returned error: %v", stage, err)
			continue
		}

		want := StageActive
		switch stage {
		case StageClosedWon:
			want = StageWon
		case StageClosedLost:
			want = StageLost
		}
		if class != want {
			t.Errorf("ClassifyStage(%q) = %q, want %q", stage, class, want)
		}
	}
}

func TestClassifyStageOnHoldIsActive(t *testing.T) {
	class, err := ClassifyStage(StageOnHold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if class != StageActive {
		t.Fatalf("On Hold should count as active pipeline, got %q", class)
	}
}

func TestClassifyStageUnknown(t *testing.T) {
	for _, stage := range []string{"", "closed won", "Negotiation", "CLOSED WON"} {
		if _, err := ClassifyStage(stage); !errors.Is(err, ErrUnknownStage) {
			t.Errorf("ClassifyStage(%q) = %v, want ErrUnknownStage", stage, err)
		}
	}
}

func TestStageRankOrder(t *testing.T) {
	prev := -1
	for _, stage := range PipelineStages {
		rank, err := StageRank(stage)
		if err != nil {
			t.Fatalf("StageRank(%q): %v", stage, err)
		}
		if rank != prev+1 {
			t.Errorf("StageRank(%q) = %d, want %d", stage, rank, prev+1)
		}
		prev = rank
	}

	if _, err := StageRank("Discovery"); !errors.Is(err, ErrUnknownStage) {
		t.Errorf("StageRank for unknown stage should fail, got %v", err)
	}
}

func TestIsValidStage(t *testing.T) {
	if !IsValidStage(StageProposalSent) {
		t.Error("canonical stage rejected")
	}
	if IsValidStage("Proposal Sent") {
		t.Error("near-miss label accepted")
	}
}

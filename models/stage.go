package models

import "errors"

// StageClass groups pipeline stages for aggregation.
type StageClass string

const (
	StageActive StageClass = "active"
	StageWon    StageClass = "won"
	StageLost   StageClass = "lost"
)

// ErrUnknownStage is returned when a stage label is outside the canonical
// vocabulary. Callers must surface it, never coerce.
var ErrUnknownStage = errors.New("unknown pipeline stage")

const (
	StageNewLead       = "New Lead"
	StageQualifiedLead = "Qualified Lead"
	StageEngaged       = "Engaged – Under Discussion"
	StageProposalSent  = "Proposal / Pricing Sent"
	StageSecurity      = "Security Assessment"
	StageAwaiting      = "Awaiting Decision"
	StageContracting   = "Contracting / Legal"
	StageClosedWon     = "Closed Won"
	StageClosedLost    = "Closed Lost"
	StageOnHold        = "On Hold"
)

// PipelineStages is the canonical stage vocabulary in pipeline order.
// Index is the sort rank. No other component may invent a stage label.
var PipelineStages = []string{
	StageNewLead,
	StageQualifiedLead,
	StageEngaged,
	StageProposalSent,
	StageSecurity,
	StageAwaiting,
	StageContracting,
	StageClosedWon,
	StageClosedLost,
	StageOnHold,
}

var stageRanks = func() map[string]int {
	ranks := make(map[string]int, len(PipelineStages))
	for i, s := range PipelineStages {
		ranks[s] = i
	}
	return ranks
}()

// IsValidStage reports whether the label belongs to the canonical vocabulary.
func IsValidStage(stage string) bool {
	_, ok := stageRanks[stage]
	return ok
}

// StageRank returns the canonical sort rank of a stage, or ErrUnknownStage.
func StageRank(stage string) (int, error) {
	rank, ok := stageRanks[stage]
	if !ok {
		return 0, ErrUnknownStage
	}
	return rank, nil
}

// ClassifyStage maps a canonical stage label to its class. Closed Won is won,
// Closed Lost is lost, everything else (On Hold included) is active pipeline.
func ClassifyStage(stage string) (StageClass, error) {
	if !IsValidStage(stage) {
		return "", ErrUnknownStage
	}
	switch stage {
	case StageClosedWon:
		return StageWon, nil
	case StageClosedLost:
		return StageLost, nil
	default:
		return StageActive, nil
	}
}

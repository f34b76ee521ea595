package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome event types.
const (
	OutcomeResolved   = "resolved"
	OutcomeReassigned = "reassigned"
	OutcomeEscalated  = "escalated"
)

// OutcomeRequest is an event recorded against a work item. EventID is
// client-generated and must be unique per submission; the ingest service
// uses it to deduplicate retries.
type OutcomeRequest struct {
	EventID       string `json:"event_id"`
	DecisionID    string `json:"decision_id,omitempty"`
	Type          string `json:"type"`
	ActorID       string `json:"actor_id"`
	Timestamp     string `json:"timestamp"`
	NewAssigneeID string `json:"new_assignee_id,omitempty"`
}

// OutcomeResponse is the ingest service's acknowledgement of a recorded outcome.
type OutcomeResponse struct {
	OutcomeID string `json:"outcome_id,omitempty"`
	Processed bool   `json:"processed"`
	Message   string `json:"message"`
}

// ValidOutcomeTypes contains all valid outcome type values.
var ValidOutcomeTypes = []string{OutcomeResolved, OutcomeReassigned, OutcomeEscalated}

// IsValidOutcomeType checks if the given outcome type is valid.
func IsValidOutcomeType(t string) bool {
	for _, v := range ValidOutcomeTypes {
		if v == t {
			return true
		}
	}
	return false
}

// NewOutcomeRequest builds an outcome event with a fresh event ID and the
// current timestamp.
func NewOutcomeRequest(outcomeType, actorID string) OutcomeRequest {
	return OutcomeRequest{
		EventID:   uuid.NewString(),
		Type:      outcomeType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

package events

import (
	"time"

	"github.com/google/uuid"
)

const LeaveLifecycleTopic = "elms.leave.lifecycle.v1"

const (
	LeaveRequestSubmitted = "leave.request_submitted"
	LeaveStepApproved     = "leave.step_approved"
	LeaveStepRejected     = "leave.step_rejected"
	LeaveRequestFinalized = "leave.request_finalized"
	LeaveRequestCancelled = "leave.request_cancelled"
)

// LeaveEvent is the payload of every message on LeaveLifecycleTopic.
// StepID, Role and ApproverID describe the step that moved, when one did.
// NextApproverID is set when another step became active.
type LeaveEvent struct {
	EventID        uuid.UUID  `json:"event_id"`
	EventType      string     `json:"event_type"`
	RequestID      uuid.UUID  `json:"request_id"`
	Reference      string     `json:"reference"`
	RequesterID    uuid.UUID  `json:"requester_id"`
	StepID         *uuid.UUID `json:"step_id,omitempty"`
	Role           string     `json:"role,omitempty"`
	ApproverID     *uuid.UUID `json:"approver_id,omitempty"`
	NextApproverID *uuid.UUID `json:"next_approver_id,omitempty"`
	Status         string     `json:"status"`
	Days           int        `json:"days"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

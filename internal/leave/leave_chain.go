package leave

import (
	"errors"
	"fmt"
	"time"

	"go-elms/internal/domain"
	"go-elms/internal/events"
	leaveerrors "go-elms/internal/leave/errors"

	"github.com/google/uuid"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func ParseDecision(v string) (Decision, error) {
	switch d := Decision(v); d {
	case DecisionApprove, DecisionReject:
		return d, nil
	default:
		return "", leaveerrors.ErrInvalidDecision
	}
}

const selfHeldComment = "auto-approved: requester holds this step"

// Approver is the user resolved for one role of the chain at submit time.
type Approver struct {
	Role   domain.Role
	UserID uuid.UUID
}

// Transition is the outcome of applying one lifecycle operation. Request and
// Steps are copies; the inputs are never mutated. Changed lists the indexes
// of Steps that must be persisted.
type Transition struct {
	Request LeaveRequest
	Steps   []ApprovalStep
	Changed []int
	Events  []events.LeaveEvent

	// Debit is set when the request reached approved in this transition.
	Debit bool
	// Overdraft is set when the final approval came from an admin override
	// or the system sweeper.
	Overdraft bool
}

// Chain drives a request through an ordered list of approver roles. It holds
// no state beyond its configuration and is safe for concurrent use.
type Chain struct {
	roles         []domain.Role
	adminOverride bool
}

func NewChain(roles []domain.Role, adminOverride bool) (*Chain, error) {
	if len(roles) == 0 {
		return nil, errors.New("approval chain must list at least one role")
	}
	normalized := make([]domain.Role, 0, len(roles))
	seen := make(map[domain.Role]struct{}, len(roles))
	for _, raw := range roles {
		r, err := domain.ParseRole(string(raw))
		if err != nil {
			return nil, fmt.Errorf("approval chain: %w", err)
		}
		if r == domain.RoleStaff {
			return nil, fmt.Errorf("approval chain: %q cannot approve leave", raw)
		}
		if _, dup := seen[r]; dup {
			return nil, fmt.Errorf("approval chain: %q listed twice", raw)
		}
		seen[r] = struct{}{}
		normalized = append(normalized, r)
	}
	return &Chain{roles: normalized, adminOverride: adminOverride}, nil
}

func (c *Chain) Roles() []domain.Role {
	return append([]domain.Role(nil), c.roles...)
}

func (c *Chain) Len() int { return len(c.roles) }

// Seed builds the steps for a new request. approvers must follow the chain
// order one to one.
func (c *Chain) Seed(req LeaveRequest, approvers []Approver, now time.Time) (Transition, error) {
	if len(approvers) != len(c.roles) {
		return Transition{}, fmt.Errorf("seed: got %d approvers for %d roles", len(approvers), len(c.roles))
	}

	steps := make([]ApprovalStep, len(c.roles))
	changed := make([]int, len(c.roles))
	for i, role := range c.roles {
		if approvers[i].Role != role {
			return Transition{}, fmt.Errorf("seed: approver %d is %q, chain expects %q", i, approvers[i].Role, role)
		}
		approverID := approvers[i].UserID
		steps[i] = ApprovalStep{
			ID:         uuid.New(),
			RequestID:  req.ID,
			Sequence:   i,
			Role:       string(role),
			ApproverID: &approverID,
			Status:     StepWaiting,
			CreatedAt:  now,
		}
		changed[i] = i
	}

	req.Status = StatusPending
	req.CurrentStep = 0
	req.FinalizedAt = nil
	if req.Version == 0 {
		req.Version = 1
	}

	t := Transition{Request: req, Steps: steps, Changed: changed}
	submitted := len(t.Events)
	t.Events = append(t.Events, newEvent(events.LeaveRequestSubmitted, req, nil, now))

	c.activate(&t, 0, now, false)

	t.Events[submitted].Status = string(t.Request.Status)
	if !t.Request.Status.IsTerminal() {
		t.Events[submitted].NextApproverID = t.Steps[t.Request.CurrentStep].ApproverID
	}
	return t, nil
}

// Decide applies an approver's decision to the step identified by stepID.
func (c *Chain) Decide(req LeaveRequest, steps []ApprovalStep, stepID uuid.UUID, actor domain.Actor, decision Decision, comment string, now time.Time) (Transition, error) {
	if req.Status.IsTerminal() {
		return Transition{}, leaveerrors.ErrAlreadyFinalized
	}

	idx := -1
	for i := range steps {
		if steps[i].ID == stepID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Transition{}, leaveerrors.ErrStepNotFound
	}
	if steps[idx].Status != StepPending || steps[idx].Sequence != req.CurrentStep {
		return Transition{}, leaveerrors.ErrStepNotActive
	}

	held := steps[idx].HeldBy(actor.ID)
	override := !held && actor.IsAdmin() && c.adminOverride
	if !held && !override && !actor.IsSystem() {
		return Transition{}, leaveerrors.ErrNotAuthorized
	}

	if decision != DecisionApprove && decision != DecisionReject {
		return Transition{}, leaveerrors.ErrInvalidDecision
	}

	t := Transition{Request: req, Steps: append([]ApprovalStep(nil), steps...)}
	t.Request.Version++
	t.Request.UpdatedAt = now

	decidedBy := actor.ID
	step := &t.Steps[idx]
	step.Comment = comment
	step.DecidedBy = &decidedBy
	step.DecidedAt = &now
	t.Changed = append(t.Changed, idx)

	if decision == DecisionReject {
		step.Status = StepRejected
		t.Events = append(t.Events, newEvent(events.LeaveStepRejected, t.Request, step, now))
		c.skipOpen(&t)
		c.finalize(&t, StatusRejected, now)
		return t, nil
	}

	step.Status = StepApproved
	t.Events = append(t.Events, newEvent(events.LeaveStepApproved, t.Request, step, now))
	c.activate(&t, idx+1, now, override || actor.IsSystem())
	if !t.Request.Status.IsTerminal() {
		t.Events[0].NextApproverID = t.Steps[t.Request.CurrentStep].ApproverID
	}
	return t, nil
}

// Cancel withdraws a pending request on behalf of its requester.
func (c *Chain) Cancel(req LeaveRequest, steps []ApprovalStep, actor domain.Actor, now time.Time) (Transition, error) {
	if req.Status.IsTerminal() {
		return Transition{}, leaveerrors.ErrAlreadyFinalized
	}
	if actor.ID != req.UserID {
		return Transition{}, leaveerrors.ErrNotAuthorized
	}

	t := Transition{Request: req, Steps: append([]ApprovalStep(nil), steps...)}
	t.Request.Version++
	t.Request.UpdatedAt = now

	// the event names the approver who was waiting on this request
	var active *ApprovalStep
	for i := range t.Steps {
		if t.Steps[i].Status == StepPending {
			s := t.Steps[i]
			active = &s
		}
	}
	c.skipOpen(&t)

	t.Request.Status = StatusCancelled
	t.Request.FinalizedAt = &now
	t.Events = append(t.Events, newEvent(events.LeaveRequestCancelled, t.Request, active, now))
	return t, nil
}

// activate makes the step at from the active one. Steps held by the requester are
// approved on the spot, and a chain that runs out finalizes as approved.
func (c *Chain) activate(t *Transition, from int, now time.Time, overdraft bool) {
	requester := t.Request.UserID
	for i := from; i < len(t.Steps); i++ {
		step := &t.Steps[i]
		step.ActivatedAt = &now
		t.Changed = appendIndex(t.Changed, i)

		if !step.HeldBy(requester) {
			step.Status = StepPending
			t.Request.CurrentStep = i
			return
		}

		step.Status = StepApproved
		step.DecidedBy = &requester
		step.DecidedAt = &now
		step.Comment = selfHeldComment
		t.Events = append(t.Events, newEvent(events.LeaveStepApproved, t.Request, step, now))
	}

	t.Request.CurrentStep = len(t.Steps) - 1
	t.Debit = true
	t.Overdraft = overdraft
	c.finalize(t, StatusApproved, now)
}

func (c *Chain) skipOpen(t *Transition) {
	for i := range t.Steps {
		if t.Steps[i].Status == StepWaiting || t.Steps[i].Status == StepPending {
			t.Steps[i].Status = StepSkipped
			t.Changed = appendIndex(t.Changed, i)
		}
	}
}

func (c *Chain) finalize(t *Transition, status Status, now time.Time) {
	t.Request.Status = status
	t.Request.FinalizedAt = &now
	t.Events = append(t.Events, newEvent(events.LeaveRequestFinalized, t.Request, nil, now))
}

func newEvent(eventType string, req LeaveRequest, step *ApprovalStep, now time.Time) events.LeaveEvent {
	e := events.LeaveEvent{
		EventID:     uuid.New(),
		EventType:   eventType,
		RequestID:   req.ID,
		Reference:   req.Reference,
		RequesterID: req.UserID,
		Status:      string(req.Status),
		Days:        req.Days,
		OccurredAt:  now,
	}
	if step != nil {
		id := step.ID
		e.StepID = &id
		e.Role = step.Role
		e.ApproverID = step.ApproverID
	}
	return e
}

func appendIndex(idx []int, i int) []int {
	for _, v := range idx {
		if v == i {
			return idx
		}
	}
	return append(idx, i)
}

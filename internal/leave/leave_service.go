package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-elms/internal/balance"
	"go-elms/internal/domain"
	"go-elms/internal/events"
	leaveerrors "go-elms/internal/leave/errors"
	"go-elms/internal/leavetype"
	"go-elms/internal/messaging/kafka"
	"go-elms/internal/shared/apperror"
	"go-elms/internal/shared/contextutil"
	"go-elms/internal/shared/counter"
	"go-elms/internal/shared/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	referencePrefix  = "LV"
	counterType      = "leave_request"
	aggregateType    = "leave_request"
	escalationBatch  = 100
	escalatedComment = "auto-approved after %d days without a decision"
)

type LeaveTypeFinder interface {
	Find(ctx context.Context, id string) (leavetype.LeaveType, error)
}

type HolidayCalendar interface {
	DatesBetween(ctx context.Context, from, to time.Time) (map[string]struct{}, error)
}

type ApproverSource interface {
	Resolve(ctx context.Context, departmentID *uuid.UUID, roles []domain.Role) ([]Approver, error)
}

type Options struct {
	DayCountMode      DayCountMode
	EscalationEnabled bool
	EscalateAfterDays int
	Now               func() time.Time
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	Get(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	ListAll(ctx context.Context, q ListLeavesQuery, page, pageSize int) ([]LeaveResponse, response.PaginationMeta, error)
	ListPendingForApprover(ctx context.Context, actor domain.Actor) ([]PendingApprovalResponse, error)
	Decide(ctx context.Context, actor domain.Actor, leaveID, stepID string, req DecisionRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	EscalateStale(ctx context.Context, now time.Time) (EscalationResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    balance.Ledger
	types     LeaveTypeFinder
	holidays  HolidayCalendar
	approvers ApproverSource
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	chain     *Chain
	validator *Validator
	opts      Options
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger balance.Ledger,
	types LeaveTypeFinder,
	holidays HolidayCalendar,
	approvers ApproverSource,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	chain *Chain,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.DayCountMode == "" {
		opts.DayCountMode = DayCountWorking
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    ledger,
		types:     types,
		holidays:  holidays,
		approvers: approvers,
		counter:   counterRepo,
		outbox:    outboxRepo,
		chain:     chain,
		validator: NewValidator(repo, ledger),
		opts:      opts,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("service submit leave",
		zap.String("request_id", rid),
		zap.String("user_id", actor.ID.String()),
		zap.String("leave_type_id", req.LeaveTypeID),
	)

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	lt, err := s.types.Find(ctx, req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, err
	}

	days, err := s.countDays(ctx, start, end)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := s.validator.Validate(ctx, ValidationInput{
		RequesterID:   actor.ID,
		RequesterRole: actor.Role,
		LeaveType:     lt,
		StartDate:     start,
		EndDate:       end,
		Days:          days,
		AttachmentRef: req.AttachmentRef,
	}); err != nil {
		s.logger.Warn("submit leave rejected by validator",
			zap.String("user_id", actor.ID.String()),
			zap.Int("days", days),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	approvers, err := s.approvers.Resolve(ctx, actor.DepartmentID, s.chain.Roles())
	if err != nil {
		s.logger.Warn("submit leave approver resolution failed",
			zap.String("user_id", actor.ID.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// a concurrent submit of the same user may have committed since Validate
	if err := qtx.LockRequester(ctx, actor.ID); err != nil {
		s.logger.Error("submit leave lock requester failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	overlap, err := qtx.HasOverlap(ctx, actor.ID, start, end)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected in tx", zap.String("user_id", actor.ID.String()))
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, strconv.Itoa(start.Year()), counterType)
	if err != nil {
		s.logger.Error("submit leave generate reference failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	now := s.opts.Now()
	leave := LeaveRequest{
		ID:            uuid.New(),
		Reference:     counter.FormatReference(referencePrefix, start.Year(), seq),
		UserID:        actor.ID,
		DepartmentID:  actor.DepartmentID,
		LeaveTypeID:   lt.ID,
		StartDate:     start,
		EndDate:       end,
		Days:          days,
		DayCountMode:  string(s.opts.DayCountMode),
		Reason:        req.Reason,
		AttachmentRef: req.AttachmentRef,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	t, err := s.chain.Seed(leave, approvers, now)
	if err != nil {
		s.logger.Error("submit leave seed chain failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := qtx.Create(ctx, &t.Request, t.Steps); err != nil {
		s.logger.Error("submit leave persist failed",
			zap.String("leave_id", leave.ID.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if t.Debit {
		if err := s.debit(ctx, tx, t, lt, actor); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := s.enqueue(ctx, tx, rid, t); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", t.Request.ID.String()),
		zap.String("reference", t.Request.Reference),
		zap.String("status", string(t.Request.Status)),
	)
	return mapToResponse(t.Request, t.Steps), nil
}

func (s *service) Get(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	req, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	steps, err := s.repo.FindSteps(ctx, leaveID)
	if err != nil {
		s.logger.Error("get leave steps failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	// callers outside the request see the same error as for a missing id
	if !canView(actor, *req, steps) {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*req, steps), nil
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	leaves, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("list my leaves failed", zap.String("user_id", actor.ID.String()), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListAll(ctx context.Context, q ListLeavesQuery, page, pageSize int) ([]LeaveResponse, response.PaginationMeta, error) {
	f := ListFilter{
		Status: Status(q.Status),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if q.UserID != "" {
		uid, err := uuid.Parse(q.UserID)
		if err != nil {
			return nil, response.PaginationMeta{}, apperror.ErrInvalidInput
		}
		f.UserID = &uid
	}
	if q.From != "" {
		from, err := time.Parse(dateLayout, q.From)
		if err != nil {
			return nil, response.PaginationMeta{}, leaveerrors.ErrInvalidDateFormat
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := time.Parse(dateLayout, q.To)
		if err != nil {
			return nil, response.PaginationMeta{}, leaveerrors.ErrInvalidDateFormat
		}
		f.To = &to
	}

	leaves, total, err := s.repo.ListAll(ctx, f)
	if err != nil {
		s.logger.Error("list all leaves failed", zap.Error(err))
		return nil, response.PaginationMeta{}, err
	}
	return mapToListResponse(leaves), response.NewPaginationMeta(total, page, pageSize), nil
}

func (s *service) ListPendingForApprover(ctx context.Context, actor domain.Actor) ([]PendingApprovalResponse, error) {
	items, err := s.repo.ListPendingForApprover(ctx, actor.ID)
	if err != nil {
		s.logger.Error("list pending approvals failed", zap.String("approver_id", actor.ID.String()), zap.Error(err))
		return nil, err
	}

	out := make([]PendingApprovalResponse, 0, len(items))
	for _, it := range items {
		out = append(out, PendingApprovalResponse{
			Leave: mapToResponse(it.Request, nil),
			Step:  mapStep(it.Step),
		})
	}
	return out, nil
}

func (s *service) Decide(ctx context.Context, actor domain.Actor, leaveID, stepID string, req DecisionRequest) (LeaveResponse, error) {
	lid, err := uuid.Parse(leaveID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	sid, err := uuid.Parse(stepID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrStepNotFound
	}
	decision, err := ParseDecision(req.Decision)
	if err != nil {
		return LeaveResponse{}, err
	}

	t, err := s.applyLocked(ctx, lid, actor, func(cur LeaveRequest, steps []ApprovalStep, now time.Time) (Transition, error) {
		return s.chain.Decide(cur, steps, sid, actor, decision, req.Comment, now)
	})
	if err != nil {
		s.logger.Warn("decide leave failed",
			zap.String("leave_id", leaveID),
			zap.String("step_id", stepID),
			zap.String("actor_id", actor.ID.String()),
			zap.String("decision", string(decision)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("decide leave success",
		zap.String("leave_id", leaveID),
		zap.String("step_id", stepID),
		zap.String("decision", string(decision)),
		zap.String("status", string(t.Request.Status)),
	)
	return mapToResponse(t.Request, t.Steps), nil
}

func (s *service) Cancel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	lid, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	t, err := s.applyLocked(ctx, lid, actor, func(cur LeaveRequest, steps []ApprovalStep, now time.Time) (Transition, error) {
		return s.chain.Cancel(cur, steps, actor, now)
	})
	if err != nil {
		s.logger.Warn("cancel leave failed",
			zap.String("leave_id", id),
			zap.String("actor_id", actor.ID.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("cancel leave success", zap.String("leave_id", id))
	return mapToResponse(t.Request, t.Steps), nil
}

// EscalateStale approves every step left active longer than the configured
// window. Each step commits on its own, so a rerun only sees what is left.
func (s *service) EscalateStale(ctx context.Context, now time.Time) (EscalationResponse, error) {
	if !s.opts.EscalationEnabled {
		s.logger.Debug("escalation disabled, sweep skipped")
		return EscalationResponse{Enabled: false}, nil
	}

	cutoff := now.Add(-time.Duration(s.opts.EscalateAfterDays) * 24 * time.Hour)
	stale, err := s.repo.ListStale(ctx, cutoff, escalationBatch)
	if err != nil {
		s.logger.Error("list stale steps failed", zap.Error(err))
		return EscalationResponse{}, err
	}

	out := EscalationResponse{Enabled: true, Processed: len(stale)}
	system := domain.SystemActor()
	comment := fmt.Sprintf(escalatedComment, s.opts.EscalateAfterDays)

	var failures []error
	for _, step := range stale {
		stepID := step.ID
		_, err := s.applyLocked(ctx, step.RequestID, system, func(cur LeaveRequest, steps []ApprovalStep, _ time.Time) (Transition, error) {
			return s.chain.Decide(cur, steps, stepID, system, DecisionApprove, comment, now)
		})
		switch {
		case err == nil:
			out.Escalated++
		case leaveerrors.IsState(err), errors.Is(err, leaveerrors.ErrConcurrentUpdate):
			out.Skipped++
		default:
			out.Skipped++
			failures = append(failures, fmt.Errorf("escalate step %s: %w", stepID, err))
			s.logger.Error("escalate step failed",
				zap.String("step_id", stepID.String()),
				zap.String("leave_id", step.RequestID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("escalation sweep done",
		zap.Int("processed", out.Processed),
		zap.Int("escalated", out.Escalated),
		zap.Int("skipped", out.Skipped),
	)
	return out, errors.Join(failures...)
}

type transitionFunc func(cur LeaveRequest, steps []ApprovalStep, now time.Time) (Transition, error)

// applyLocked runs fn against the locked request and persists its outcome,
// the ledger debit and the outbox rows in one tx.
func (s *service) applyLocked(ctx context.Context, leaveID uuid.UUID, actor domain.Actor, fn transitionFunc) (Transition, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return Transition{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cur, err := qtx.LockByID(ctx, leaveID)
	if err != nil {
		return Transition{}, mapRepositoryError(err)
	}
	steps, err := qtx.FindSteps(ctx, leaveID)
	if err != nil {
		return Transition{}, err
	}

	t, err := fn(*cur, steps, s.opts.Now())
	if err != nil {
		return Transition{}, err
	}

	if err := qtx.SaveTransition(ctx, cur.Version, &t.Request, changedSteps(t)); err != nil {
		return Transition{}, err
	}

	if t.Debit {
		lt, err := s.types.Find(ctx, t.Request.LeaveTypeID.String())
		if err != nil {
			return Transition{}, err
		}
		if err := s.debit(ctx, tx, t, lt, actor); err != nil {
			return Transition{}, err
		}
	}

	if err := s.enqueue(ctx, tx, rid, t); err != nil {
		return Transition{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return Transition{}, err
	}
	return t, nil
}

func (s *service) debit(ctx context.Context, tx *sql.Tx, t Transition, lt leavetype.LeaveType, actor domain.Actor) error {
	if !lt.UsesBalance() {
		return nil
	}

	var actorID *uuid.UUID
	if !actor.IsSystem() {
		id := actor.ID
		actorID = &id
	}

	_, err := s.ledger.WithTx(tx).Debit(ctx, balance.DebitInput{
		UserID:            t.Request.UserID,
		LeaveTypeID:       lt.ID,
		Year:              t.Request.StartDate.Year(),
		Days:              decimal.NewFromInt(int64(t.Request.Days)),
		RequestID:         t.Request.ID,
		DefaultAllocation: lt.DefaultAllocation,
		AllowOverdraft:    t.Overdraft,
		ActorID:           actorID,
	})
	if err != nil {
		s.logger.Warn("leave debit failed",
			zap.String("leave_id", t.Request.ID.String()),
			zap.Int("days", t.Request.Days),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, rid string, t Transition) error {
	if s.outbox == nil || len(t.Events) == 0 {
		return nil
	}

	outboxRepo := s.outbox.WithTx(tx)
	for _, event := range t.Events {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return err
		}
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            event.EventID.String(),
			RequestID:     rid,
			AggregateType: aggregateType,
			AggregateID:   t.Request.ID.String(),
			EventType:     event.EventType,
			Topic:         events.LeaveLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("leave outbox persist failed",
				zap.String("leave_id", t.Request.ID.String()),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

func (s *service) countDays(ctx context.Context, start, end time.Time) (int, error) {
	var holidays map[string]struct{}
	if s.opts.DayCountMode == DayCountWorking && s.holidays != nil && !end.Before(start) {
		var err error
		holidays, err = s.holidays.DatesBetween(ctx, start, end)
		if err != nil {
			s.logger.Error("load holidays failed", zap.Error(err))
			return 0, err
		}
	}
	return CountDays(start, end, s.opts.DayCountMode, holidays), nil
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return start, end, nil
}

// canView lets the requester, anyone on the chain and admins or directors
// read a request.
func canView(actor domain.Actor, req LeaveRequest, steps []ApprovalStep) bool {
	if actor.ID == req.UserID || actor.IsAdmin() {
		return true
	}
	for _, st := range steps {
		if st.HeldBy(actor.ID) {
			return true
		}
	}
	return false
}

func changedSteps(t Transition) []ApprovalStep {
	out := make([]ApprovalStep, 0, len(t.Changed))
	for _, i := range t.Changed {
		out = append(out, t.Steps[i])
	}
	return out
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func mapToResponse(l LeaveRequest, steps []ApprovalStep) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		Reference:     l.Reference,
		UserID:        l.UserID.String(),
		LeaveTypeID:   l.LeaveTypeID.String(),
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		Days:          l.Days,
		DayCountMode:  l.DayCountMode,
		Reason:        l.Reason,
		AttachmentRef: l.AttachmentRef,
		Status:        string(l.Status),
		CurrentStep:   l.CurrentStep,
		Version:       l.Version,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
		FinalizedAt:   formatTime(l.FinalizedAt),
	}
	for _, st := range steps {
		resp.Steps = append(resp.Steps, mapStep(st))
	}
	return resp
}

func mapStep(st ApprovalStep) StepResponse {
	return StepResponse{
		ID:          st.ID.String(),
		Sequence:    st.Sequence,
		Role:        st.Role,
		ApproverID:  uuidString(st.ApproverID),
		Status:      string(st.Status),
		Comment:     st.Comment,
		DecidedBy:   uuidString(st.DecidedBy),
		ActivatedAt: formatTime(st.ActivatedAt),
		DecidedAt:   formatTime(st.DecidedAt),
	}
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, mapToResponse(l, nil))
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}

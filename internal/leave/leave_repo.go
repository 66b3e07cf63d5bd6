package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-elms/internal/leave/errors"
	"go-elms/internal/shared/connection"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows the admin listing. Zero values do not filter.
type ListFilter struct {
	Status Status
	UserID *uuid.UUID
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// PendingItem is an active step joined with its request.
type PendingItem struct {
	Request LeaveRequest
	Step    ApprovalStep
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockRequester(ctx context.Context, userID uuid.UUID) error
	Create(ctx context.Context, req *LeaveRequest, steps []ApprovalStep) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	LockByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindSteps(ctx context.Context, requestID uuid.UUID) ([]ApprovalStep, error)
	SaveTransition(ctx context.Context, prevVersion int, req *LeaveRequest, steps []ApprovalStep) error
	HasOverlap(ctx context.Context, userID uuid.UUID, start, end time.Time) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]LeaveRequest, error)
	ListAll(ctx context.Context, f ListFilter) ([]LeaveRequest, int64, error)
	ListPendingForApprover(ctx context.Context, approverID uuid.UUID) ([]PendingItem, error)
	ListStale(ctx context.Context, activatedBefore time.Time, limit int) ([]ApprovalStep, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

// LockRequester serialises submits of one user until the tx ends, so the
// overlap check inside the tx sees every committed request.
func (r *repository) LockRequester(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec("SELECT 1 FROM users WHERE id = ? FOR UPDATE", userID).Error
}

func (r *repository) Create(ctx context.Context, req *LeaveRequest, steps []ApprovalStep) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(req).Error; err != nil {
		if isExclusionViolation(err) {
			return leaveerrors.ErrLeaveOverlap
		}
		return err
	}
	if len(steps) == 0 {
		return nil
	}
	return db.Create(&steps).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var req LeaveRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// LockByID holds the request row until the surrounding tx ends.
func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindSteps(ctx context.Context, requestID uuid.UUID) ([]ApprovalStep, error) {
	var steps []ApprovalStep
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("sequence ASC").
		Find(&steps).Error
	return steps, err
}

// SaveTransition writes the request only if its version is still
// prevVersion, then the given steps.
func (r *repository) SaveTransition(ctx context.Context, prevVersion int, req *LeaveRequest, steps []ApprovalStep) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&LeaveRequest{}).
		Where("id = ? AND version = ?", req.ID, prevVersion).
		Updates(map[string]any{
			"status":       req.Status,
			"current_step": req.CurrentStep,
			"version":      req.Version,
			"updated_at":   req.UpdatedAt,
			"finalized_at": req.FinalizedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leaveerrors.ErrConcurrentUpdate
	}

	for i := range steps {
		if err := db.Save(&steps[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) HasOverlap(ctx context.Context, userID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []Status{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) ListAll(ctx context.Context, f ListFilter) ([]LeaveRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&LeaveRequest{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("end_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_date <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []LeaveRequest
	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&leaves).Error; err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

func (r *repository) ListPendingForApprover(ctx context.Context, approverID uuid.UUID) ([]PendingItem, error) {
	var steps []ApprovalStep
	err := r.db.WithContext(ctx).
		Joins("JOIN leave_requests lr ON lr.id = leave_approval_steps.request_id").
		Where("leave_approval_steps.approver_id = ?", approverID).
		Where("leave_approval_steps.status = ?", StepPending).
		Where("lr.status = ?", StatusPending).
		Order("leave_approval_steps.activated_at ASC").
		Find(&steps).Error
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return []PendingItem{}, nil
	}

	ids := make([]uuid.UUID, len(steps))
	for i, s := range steps {
		ids[i] = s.RequestID
	}
	var requests []LeaveRequest
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&requests).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]LeaveRequest, len(requests))
	for _, req := range requests {
		byID[req.ID] = req
	}

	items := make([]PendingItem, 0, len(steps))
	for _, s := range steps {
		if req, ok := byID[s.RequestID]; ok {
			items = append(items, PendingItem{Request: req, Step: s})
		}
	}
	return items, nil
}

func (r *repository) ListStale(ctx context.Context, activatedBefore time.Time, limit int) ([]ApprovalStep, error) {
	var steps []ApprovalStep
	err := r.db.WithContext(ctx).
		Where("status = ? AND activated_at < ?", StepPending, activatedBefore).
		Order("activated_at ASC").
		Limit(limit).
		Find(&steps).Error
	return steps, err
}

// ex_leave_requests_no_overlap backs up the in-tx overlap check.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

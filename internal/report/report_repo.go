package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveRow is one line of the leave report.
type LeaveRow struct {
	RequestID     uuid.UUID
	Reference     string
	UserName      string
	UserEmail     string
	LeaveTypeName string
	StartDate     time.Time
	EndDate       time.Time
	Days          int
	Status        string
	CurrentRole   *string
	CreatedAt     time.Time
}

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	LeavesInRange(ctx context.Context, from, to time.Time) ([]LeaveRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// LeavesInRange returns requests whose dates intersect [from, to]. The
// current role is only set while the request is pending.
func (r *repository) LeavesInRange(ctx context.Context, from, to time.Time) ([]LeaveRow, error) {
	var rows []LeaveRow
	err := r.db.WithContext(ctx).
		Table("leave_requests AS lr").
		Select(`lr.id AS request_id, lr.reference, u.name AS user_name, u.email AS user_email,
			lt.name AS leave_type_name, lr.start_date, lr.end_date, lr.days, lr.status,
			s.role AS current_role, lr.created_at`).
		Joins("JOIN users u ON u.id = lr.user_id").
		Joins("JOIN leave_types lt ON lt.id = lr.leave_type_id").
		Joins("LEFT JOIN leave_approval_steps s ON s.request_id = lr.id AND s.sequence = lr.current_step AND lr.status = ?", "pending").
		Where("lr.end_date >= ? AND lr.start_date <= ?", from, to).
		Order("lr.start_date ASC, lr.reference ASC").
		Scan(&rows).Error
	return rows, err
}

package leave

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsTerminal() bool {
	return s != StatusPending
}

type StepStatus string

const (
	StepWaiting  StepStatus = "waiting"
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
	StepSkipped  StepStatus = "skipped"
)

type LeaveRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference     string     `gorm:"type:varchar(20);not null;uniqueIndex"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	DepartmentID  *uuid.UUID `gorm:"type:uuid"`
	LeaveTypeID   uuid.UUID  `gorm:"type:uuid;not null"`
	StartDate     time.Time  `gorm:"type:date;not null"`
	EndDate       time.Time  `gorm:"type:date;not null"`
	Days          int        `gorm:"not null"`
	DayCountMode  string     `gorm:"type:varchar(10);not null"`
	Reason        string     `gorm:"type:text"`
	AttachmentRef *string    `gorm:"type:text"`
	Status        Status     `gorm:"type:varchar(20);not null;index"`
	CurrentStep   int        `gorm:"not null;default:0"`
	Version       int        `gorm:"not null;default:1"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	FinalizedAt   *time.Time
}

type ApprovalStep struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequestID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Sequence    int        `gorm:"not null"`
	Role        string     `gorm:"type:varchar(30);not null"`
	ApproverID  *uuid.UUID `gorm:"type:uuid;index"`
	Status      StepStatus `gorm:"type:varchar(20);not null"`
	Comment     string     `gorm:"type:text"`
	DecidedBy   *uuid.UUID `gorm:"type:uuid"`
	ActivatedAt *time.Time
	DecidedAt   *time.Time
	CreatedAt   time.Time
}

func (ApprovalStep) TableName() string {
	return "leave_approval_steps"
}

// HeldBy reports whether the step is assigned to userID.
func (s ApprovalStep) HeldBy(userID uuid.UUID) bool {
	return s.ApproverID != nil && *s.ApproverID == userID
}

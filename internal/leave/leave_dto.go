package leave

const dateLayout = "2006-01-02"

type SubmitLeaveRequest struct {
	LeaveTypeID   string  `json:"leave_type_id" binding:"required,uuid"`
	StartDate     string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate       string  `json:"end_date" binding:"required,datetime=2006-01-02"`
	Reason        string  `json:"reason" binding:"max=1000"`
	AttachmentRef *string `json:"attachment_ref"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Comment  string `json:"comment" binding:"max=1000"`
}

type ListLeavesQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type StepResponse struct {
	ID          string  `json:"id"`
	Sequence    int     `json:"sequence"`
	Role        string  `json:"role"`
	ApproverID  *string `json:"approver_id,omitempty"`
	Status      string  `json:"status"`
	Comment     string  `json:"comment,omitempty"`
	DecidedBy   *string `json:"decided_by,omitempty"`
	ActivatedAt *string `json:"activated_at,omitempty"`
	DecidedAt   *string `json:"decided_at,omitempty"`
}

type LeaveResponse struct {
	ID            string         `json:"id"`
	Reference     string         `json:"reference"`
	UserID        string         `json:"user_id"`
	LeaveTypeID   string         `json:"leave_type_id"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	Days          int            `json:"days"`
	DayCountMode  string         `json:"day_count_mode"`
	Reason        string         `json:"reason"`
	AttachmentRef *string        `json:"attachment_ref,omitempty"`
	Status        string         `json:"status"`
	CurrentStep   int            `json:"current_step"`
	Version       int            `json:"version"`
	CreatedAt     string         `json:"created_at"`
	FinalizedAt   *string        `json:"finalized_at,omitempty"`
	Steps         []StepResponse `json:"steps,omitempty"`
}

type PendingApprovalResponse struct {
	Leave LeaveResponse `json:"leave"`
	Step  StepResponse  `json:"step"`
}

type EscalationResponse struct {
	Enabled   bool `json:"enabled"`
	Processed int  `json:"processed"`
	Escalated int  `json:"escalated"`
	Skipped   int  `json:"skipped"`
}

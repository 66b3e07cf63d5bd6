package leavetype

type CreateLeaveTypeRequest struct {
	Code               string   `json:"code" binding:"required,max=30"`
	Name               string   `json:"name" binding:"required,max=100"`
	MaxDays            int      `json:"max_days" binding:"gte=0"`
	DefaultAllocation  float64  `json:"default_allocation" binding:"gte=0"`
	RequiresAttachment bool     `json:"requires_attachment"`
	IsPaid             bool     `json:"is_paid"`
	TracksBalance      bool     `json:"tracks_balance"`
	AccrualRate        float64  `json:"accrual_rate" binding:"gte=0"`
	CarryForward       bool     `json:"carry_forward"`
	MaxCarryForward    *float64 `json:"max_carry_forward" binding:"omitempty,gte=0"`
	ApplicableRoles    []string `json:"applicable_roles" binding:"dive,oneof=staff head_of_department director admin"`
	Color              string   `json:"color" binding:"omitempty,hexcolor"`
}

type UpdateLeaveTypeRequest struct {
	CreateLeaveTypeRequest
	IsActive bool `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID                 string   `json:"id"`
	Code               string   `json:"code"`
	Name               string   `json:"name"`
	MaxDays            int      `json:"max_days"`
	DefaultAllocation  float64  `json:"default_allocation"`
	RequiresAttachment bool     `json:"requires_attachment"`
	IsPaid             bool     `json:"is_paid"`
	TracksBalance      bool     `json:"tracks_balance"`
	AccrualRate        float64  `json:"accrual_rate"`
	CarryForward       bool     `json:"carry_forward"`
	MaxCarryForward    *float64 `json:"max_carry_forward,omitempty"`
	ApplicableRoles    []string `json:"applicable_roles"`
	Color              string   `json:"color"`
	IsActive           bool     `json:"is_active"`
}

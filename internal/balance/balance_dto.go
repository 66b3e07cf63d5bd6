package balance

type BalanceResponse struct {
	ID             string  `json:"id,omitempty"`
	UserID         string  `json:"user_id"`
	LeaveTypeID    string  `json:"leave_type_id"`
	LeaveTypeCode  string  `json:"leave_type_code"`
	LeaveTypeName  string  `json:"leave_type_name"`
	Year           int     `json:"year"`
	TotalDays      float64 `json:"total_days"`
	UsedDays       float64 `json:"used_days"`
	CarriedForward float64 `json:"carried_forward"`
	RemainingDays  float64 `json:"remaining_days"`
	// Persisted is false for a type the user has not drawn from yet.
	Persisted bool `json:"persisted"`
}

type CreditRequest struct {
	UserID      string  `json:"user_id" binding:"required,uuid"`
	LeaveTypeID string  `json:"leave_type_id" binding:"required,uuid"`
	Year        int     `json:"year" binding:"required,gte=1970,lte=9999"`
	Days        float64 `json:"days" binding:"required,gt=0"`
	Note        string  `json:"note" binding:"required,max=500"`
}

type RolloverRequest struct {
	FromYear int `json:"from_year" binding:"required,gte=1970,lte=9998"`
}

type AccrualRequest struct {
	Year  int `json:"year" binding:"required,gte=1970,lte=9999"`
	Month int `json:"month" binding:"required,gte=1,lte=12"`
}

type RunResponse struct {
	Processed int     `json:"processed"`
	Applied   int     `json:"applied"`
	Skipped   int     `json:"skipped"`
	TotalDays float64 `json:"total_days"`
}

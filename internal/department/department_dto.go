package department

type CreateDepartmentRequest struct {
	Name       string  `json:"name" binding:"required,max=255"`
	HeadUserID *string `json:"head_user_id" binding:"omitempty,uuid"`
}

type AssignHeadRequest struct {
	HeadUserID string `json:"head_user_id" binding:"required,uuid"`
}

type DepartmentResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	HeadUserID *string `json:"head_user_id"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

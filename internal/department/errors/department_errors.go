package departmenterrors

import (
	"net/http"

	"go-elms/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Department not found",
		http.StatusNotFound,
	)

	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid department ID",
		http.StatusBadRequest,
	)

	ErrHeadUserNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Head user does not exist",
		http.StatusBadRequest,
	)
)

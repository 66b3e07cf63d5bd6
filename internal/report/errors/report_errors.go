package reporterrors

import (
	"net/http"

	"go-elms/internal/shared/apperror"
)

var (
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"from and to must be dates (YYYY-MM-DD) with from not after to",
		http.StatusBadRequest,
	)
	ErrRangeTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"report range cannot exceed 366 days",
		http.StatusBadRequest,
	)
)

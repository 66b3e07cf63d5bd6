package balanceerrors

import (
	"net/http"

	"go-elms/internal/shared/apperror"
)

var (
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusConflict,
	)

	// ErrAlreadyDebited signals a second debit for the same request.
	ErrAlreadyDebited = apperror.New(
		apperror.CodeConflict,
		"leave request already debited",
		http.StatusConflict,
	)

	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)

	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be greater than zero",
		http.StatusBadRequest,
	)

	// ErrCreditExceedsUsed keeps used_days from going below zero.
	ErrCreditExceedsUsed = apperror.New(
		apperror.CodeInvalidInput,
		"credit exceeds days used",
		http.StatusBadRequest,
	)

	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)

	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave type does not track a balance",
		http.StatusBadRequest,
	)
)

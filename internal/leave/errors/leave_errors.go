package leaveerrors

import (
	"errors"
	"net/http"

	balanceerrors "go-elms/internal/balance/errors"
	"go-elms/internal/shared/apperror"
)

// Validation failures.
var (
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidDateRange,
		"start_date must be on or before end_date and cover at least one leave day",
		http.StatusBadRequest,
	)
	ErrNotApplicable = apperror.New(
		apperror.CodeNotApplicable,
		"leave type is not available for this requester",
		http.StatusBadRequest,
	)
	ErrExceedsMaxDays = apperror.New(
		apperror.CodeExceedsMaxDays,
		"requested days exceed the maximum for this leave type",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeLeaveOverlap,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrInsufficientBalance = balanceerrors.ErrInsufficientBalance
	ErrMissingAttachment   = apperror.New(
		apperror.CodeMissingAttachment,
		"this leave type requires an attachment",
		http.StatusBadRequest,
	)
)

// Authorization failures.
var (
	ErrNotAuthorized = apperror.New(
		apperror.CodeNotAuthorized,
		"actor is not allowed to act on this step",
		http.StatusForbidden,
	)
)

// State failures.
var (
	ErrStepNotActive = apperror.New(
		apperror.CodeStepNotActive,
		"approval step is not the active one",
		http.StatusConflict,
	)
	ErrAlreadyFinalized = apperror.New(
		apperror.CodeAlreadyFinalized,
		"leave request is already finalized",
		http.StatusConflict,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"leave request was modified concurrently, retry",
		http.StatusConflict,
	)
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrStepNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval step not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approve or reject",
		http.StatusBadRequest,
	)
	ErrApproverUnavailable = apperror.New(
		apperror.CodeInvalidState,
		"no active approver available for a required role",
		http.StatusConflict,
	)
)

var validationErrors = []error{
	ErrInvalidDateRange, ErrNotApplicable, ErrExceedsMaxDays,
	ErrLeaveOverlap, ErrInsufficientBalance, ErrMissingAttachment,
}

func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

func IsState(err error) bool {
	return errors.Is(err, ErrStepNotActive) || errors.Is(err, ErrAlreadyFinalized)
}

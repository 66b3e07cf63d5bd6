package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"
	CodeRateLimited  = "RATE_LIMITED"

	// Leave lifecycle (4xx)
	CodeInvalidDateRange    = "INVALID_DATE_RANGE"
	CodeLeaveOverlap        = "LEAVE_OVERLAP"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeMissingAttachment   = "MISSING_ATTACHMENT"
	CodeNotApplicable       = "NOT_APPLICABLE"
	CodeExceedsMaxDays      = "EXCEEDS_MAX_DAYS"
	CodeNotAuthorized       = "NOT_AUTHORIZED"
	CodeStepNotActive       = "STEP_NOT_ACTIVE"
	CodeAlreadyFinalized    = "ALREADY_FINALIZED"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

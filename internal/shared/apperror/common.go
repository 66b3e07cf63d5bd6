package apperror

import "net/http"

// Generic sentinels. Modules define their own in <module>/errors.
var (
	ErrNotFound     = New(CodeNotFound, "Resource not found", http.StatusNotFound)
	ErrForbidden    = New(CodeForbidden, "You do not have permission to access this resource", http.StatusForbidden)
	ErrUnauthorized = New(CodeUnauthorized, "Authentication is required", http.StatusUnauthorized)
	ErrInvalidInput = New(CodeInvalidInput, "The provided input is invalid", http.StatusBadRequest)
	ErrInternal     = New(CodeInternalError, "An unexpected error occurred", http.StatusInternalServerError)
)

// Token errors raised by the auth middleware.
var (
	ErrInvalidToken = New(CodeUnauthorized, "Invalid or malformed token", http.StatusUnauthorized)
	ErrTokenExpired = New(CodeUnauthorized, "Token has expired", http.StatusUnauthorized)
)

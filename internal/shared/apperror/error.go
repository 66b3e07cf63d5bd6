package apperror

import "fmt"

// AppError is an error the HTTP layer can render as-is. Sentinels are
// compared by identity, so wrap them with %w or WithCause instead of copying.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Wrap returns nil for a nil err.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// WithCause keeps e's code and status but records why it happened.
// errors.Is(result, e) still holds.
func (e *AppError) WithCause(cause error) error {
	return fmt.Errorf("%w: %w", e, cause)
}

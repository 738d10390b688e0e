package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Webhook Capture (HOOK) ----

// ErrNotFound renders every absence identically: a webhook that does not
// exist, one owned by another user, and an unknown request id all produce
// the same response so callers cannot probe for existence.
func ErrNotFound(entity string) *AppError {
	return New("HOOK_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ErrWebhookNotFound is the ingestion-boundary 404. Unknown tokens and
// deactivated webhooks share this error so deactivation is unobservable.
func ErrWebhookNotFound() *AppError {
	return New("HOOK_001", "Webhook not found or inactive", http.StatusNotFound)
}

func ErrPayloadTooLarge() *AppError {
	return New("HOOK_002", "Payload too large", http.StatusRequestEntityTooLarge)
}

// Validation returns a field-level validation error.
func Validation(message string) *AppError {
	return New("HOOK_003", message, http.StatusBadRequest)
}

func ErrConflict(message string) *AppError {
	return New("HOOK_004", message, http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
// The wrapped cause is logged server-side and never serialized.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_002", "Internal database error", http.StatusInternalServerError, err)
}

func ErrStorageError(err error) *AppError {
	return Wrap("SYS_003", "Object storage failure", http.StatusInternalServerError, err)
}

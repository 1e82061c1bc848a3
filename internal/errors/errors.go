// Package errors provides custom error types for the churchbooks API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// ResourceID points at an existing record when the error is about one
// (for example the ledger transaction that already owns an external id).
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	ResourceID string `json:"resource_id,omitempty"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// errors.Is(err, ErrAlreadyProcessed) works on wrapped copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		ResourceID: sentinel.ResourceID,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		ResourceID: sentinel.ResourceID,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithResourceID creates a new AppError that references an existing record.
func WithResourceID(sentinel *AppError, resourceID string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		ResourceID: resourceID,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Member directory errors.
var (
	ErrMemberNotFound = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Member not found", StatusCode: http.StatusNotFound}
)

// Ledger transaction errors.
var (
	ErrTransactionNotFound      = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransaction       = &AppError{Code: "INVALID_TRANSACTION", Message: "Transaction failed validation", StatusCode: http.StatusBadRequest}
	ErrDuplicateExternalID      = &AppError{Code: "DUPLICATE_EXTERNAL_ID", Message: "A transaction with this external id already exists", StatusCode: http.StatusConflict}
	ErrTransactionAlreadyLinked = &AppError{Code: "TRANSACTION_ALREADY_LINKED", Message: "Transaction is already linked to another bank transaction", StatusCode: http.StatusConflict}
)

// Bank statement and reconciliation errors.
var (
	ErrBankTransactionNotFound = &AppError{Code: "BANK_TRANSACTION_NOT_FOUND", Message: "Bank transaction not found", StatusCode: http.StatusNotFound}
	ErrAlreadyProcessed        = &AppError{Code: "ALREADY_PROCESSED", Message: "Bank transaction has already been processed", StatusCode: http.StatusConflict}
	ErrInvalidDecision         = &AppError{Code: "INVALID_DECISION", Message: "Invalid reconciliation decision", StatusCode: http.StatusBadRequest}
	ErrUnsupportedStatement    = &AppError{Code: "UNSUPPORTED_STATEMENT", Message: "Statement file could not be read", StatusCode: http.StatusBadRequest}
)

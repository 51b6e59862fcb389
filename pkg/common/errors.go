package common

import (
	"errors"
	"net/http"
)

// Error codes returned by the trust and reward engine.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidCode        = "INVALID_CODE"
	CodeDuplicateConflict  = "DUPLICATE_CONFLICT"
	CodeCriteriaNotMet     = "CRITERIA_NOT_MET"
	CodeInsufficientPoints = "INSUFFICIENT_POINTS"
	CodeForbidden          = "FORBIDDEN"
	CodeStepUpRequired     = "STEP_UP_REQUIRED"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL"
)

// AppError is a structured application error carrying an HTTP status and code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// AsAppError extracts an *AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewInvalidInputError reports a missing or malformed required field
func NewInvalidInputError(message string, err error) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message, Status: http.StatusBadRequest, Err: err}
}

// NewInvalidCodeError reports an OTP mismatch or expiry
func NewInvalidCodeError(message string) *AppError {
	return &AppError{Code: CodeInvalidCode, Message: message, Status: http.StatusBadRequest}
}

// NewDuplicateConflictError reports a PAN or device already associated elsewhere
func NewDuplicateConflictError(message string) *AppError {
	return &AppError{Code: CodeDuplicateConflict, Message: message, Status: http.StatusConflict}
}

// NewCriteriaNotMetError reports a failed business-rule gate
func NewCriteriaNotMetError(message string) *AppError {
	return &AppError{Code: CodeCriteriaNotMet, Message: message, Status: http.StatusUnprocessableEntity}
}

// NewInsufficientPointsError reports a redemption below balance
func NewInsufficientPointsError(message string) *AppError {
	return &AppError{Code: CodeInsufficientPoints, Message: message, Status: http.StatusPaymentRequired}
}

// NewForbiddenError reports an authorization failure
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, Status: http.StatusForbidden}
}

// NewStepUpRequiredError reports that a critical action needs a second factor
func NewStepUpRequiredError(message string) *AppError {
	return &AppError{Code: CodeStepUpRequired, Message: message, Status: http.StatusUnauthorized}
}

// NewNotFoundError reports an absent profile or entity
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Status: http.StatusNotFound, Err: err}
}

// NewInternalError wraps an unexpected failure
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal server error", Status: http.StatusInternalServerError, Err: err}
}

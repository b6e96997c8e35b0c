package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized  ErrorType = "UNAUTHORIZED"
	ErrorTypeLoginRequired ErrorType = "LOGIN_REQUIRED"
	ErrorTypeRateLimited   ErrorType = "RATE_LIMITED"
	ErrorTypeIntegrity     ErrorType = "INTEGRITY_ERROR"
	ErrorTypeStorage       ErrorType = "STORAGE_ERROR"
	ErrorTypeInternal      ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidLevel     ErrorCode = "INVALID_SECURITY_LEVEL"
	ErrCodeRequired         ErrorCode = "REQUIRED"

	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeLoginRequired      ErrorCode = "LOGIN_REQUIRED"
	ErrCodeTooManyAttempts    ErrorCode = "TOO_MANY_ATTEMPTS"

	ErrCodeDecryptionFailed ErrorCode = "DECRYPTION_FAILED"
	ErrCodeStorage          ErrorCode = "STORAGE_UNAVAILABLE"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so that a sentinel still matches after WithCause
// copied it.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy carrying cause. Sentinels are shared, so they are
// never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v *ValidationErrors) Add(field, message string, code ErrorCode) {
	v.Errors = append(v.Errors, ValidationError{Field: field, Message: message, Code: string(code)})
}

// Err returns nil when nothing was added.
func (v ValidationErrors) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    v,
	}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	var v ValidationErrors
	v.Add(field, message, code)
	return v.Err().(*AppError)
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewStorageError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Code:       ErrCodeStorage,
		Message:    "storage unavailable",
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	// ErrNotFound is also what a denied operation looks like to the caller.
	ErrNotFound = NewNotFoundError("page not found", ErrCodeNotFound)

	ErrInvalidCredentials = NewUnauthorizedError("invalid username and/or password", ErrCodeInvalidCredentials)

	ErrLoginRequired = &AppError{
		Type:       ErrorTypeLoginRequired,
		Code:       ErrCodeLoginRequired,
		Message:    "please log in to continue",
		StatusCode: http.StatusSeeOther,
	}

	ErrTooManyAttempts = &AppError{
		Type:       ErrorTypeRateLimited,
		Code:       ErrCodeTooManyAttempts,
		Message:    "too many login attempts, try again later",
		StatusCode: http.StatusTooManyRequests,
	}
)

// IntegrityError reports a stored record whose ciphertext no longer decrypts.
// Only the record id is exposed.
type IntegrityError struct {
	RecordID int64 `json:"record_id"`
	Cause    error `json:"-"`
}

func NewIntegrityError(recordID int64, cause error) *IntegrityError {
	return &IntegrityError{RecordID: recordID, Cause: cause}
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("record %d failed integrity check", e.RecordID)
}

func (e *IntegrityError) Unwrap() error {
	return e.Cause
}

func (e *IntegrityError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     ErrorType `json:"type"`
		Code     ErrorCode `json:"code"`
		RecordID int64     `json:"record_id"`
		Message  string    `json:"message"`
	}{
		Type:     ErrorTypeIntegrity,
		Code:     ErrCodeDecryptionFailed,
		RecordID: e.RecordID,
		Message:  "record could not be decrypted",
	})
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode defines the error code type
type ErrorCode string

const (
	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"

	// Configuration errors
	ErrCodeInvalidConfig   ErrorCode = "INVALID_CONFIG"
	ErrCodeMissingSecret   ErrorCode = "MISSING_SECRET"
	ErrCodeUnknownCategory ErrorCode = "UNKNOWN_CATEGORY"

	// Anonymization errors
	ErrCodeInvalidKValue     ErrorCode = "INVALID_K_VALUE"
	ErrCodeInvalidEpsilon    ErrorCode = "INVALID_EPSILON"
	ErrCodeUnknownLevel      ErrorCode = "UNKNOWN_ANONYMIZATION_LEVEL"
	ErrCodeMissingQuasiIDs   ErrorCode = "MISSING_QUASI_IDENTIFIERS"
	ErrCodePipelineExecution ErrorCode = "PIPELINE_EXECUTION_ERROR"

	// Clustering errors
	ErrCodeInvalidClusterCount ErrorCode = "INVALID_CLUSTER_COUNT"

	// Cache errors
	ErrCodeCacheConnection ErrorCode = "CACHE_CONNECTION_ERROR"
	ErrCodeCacheOperation  ErrorCode = "CACHE_OPERATION_ERROR"
	ErrCodeCacheMiss       ErrorCode = "CACHE_MISS"
)

// ErrorSeverity defines how serious an error is
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "low"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityHigh     ErrorSeverity = "high"
	SeverityCritical ErrorSeverity = "critical"
)

// AppError is the application error structure
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Cause     error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error code to an HTTP status code
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidKValue,
		ErrCodeInvalidEpsilon, ErrCodeUnknownLevel, ErrCodeMissingQuasiIDs,
		ErrCodeInvalidClusterCount:
		return http.StatusBadRequest
	case ErrCodeTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  getSeverityByCode(code),
		Timestamp: time.Now(),
		Cause:     cause,
		Context:   make(map[string]interface{}),
	}
}

// NewAppErrorWithDetails creates a new application error with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	err := NewAppError(code, message, cause)
	err.Details = details
	return err
}

// WithContext attaches contextual information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// getSeverityByCode derives severity from the error code
func getSeverityByCode(code ErrorCode) ErrorSeverity {
	switch code {
	case ErrCodeInternal, ErrCodeMissingSecret:
		return SeverityCritical
	case ErrCodePipelineExecution:
		return SeverityHigh
	case ErrCodeCacheConnection, ErrCodeCacheOperation:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// IsRetryable reports whether retrying the operation may succeed
func (e *AppError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeTimeout, ErrCodeCacheConnection:
		return true
	default:
		return false
	}
}

// WrapError wraps a standard error into an AppError
func WrapError(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewAppError(code, message, err)
}

// IsAppError checks whether err is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts an AppError, or nil if err is not one
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return nil
}

package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestNewAppError(t *testing.T) {
	err := NewAppError(ErrCodeInvalidKValue, "k must be at least 1", nil)

	if err.Code != ErrCodeInvalidKValue {
		t.Errorf("Expected code %s, got %s", ErrCodeInvalidKValue, err.Code)
	}

	if err.Message != "k must be at least 1" {
		t.Errorf("Expected message 'k must be at least 1', got %s", err.Message)
	}

	if err.Severity != SeverityLow {
		t.Errorf("Expected severity %s, got %s", SeverityLow, err.Severity)
	}
}

func TestAppErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		code           ErrorCode
		expectedStatus int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInvalidKValue, http.StatusBadRequest},
		{ErrCodeInvalidEpsilon, http.StatusBadRequest},
		{ErrCodeInvalidClusterCount, http.StatusBadRequest},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeTimeout, http.StatusRequestTimeout},
	}

	for _, test := range tests {
		err := NewAppError(test.code, "Test", nil)
		status := err.HTTPStatus()

		if status != test.expectedStatus {
			t.Errorf("Code %s: expected status %d, got %d", test.code, test.expectedStatus, status)
		}
	}
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewAppError(ErrCodeInvalidConfig, "Test error", nil)
	err = err.WithContext("asset_id", "asset-123")

	if err.Context["asset_id"] != "asset-123" {
		t.Errorf("Expected context asset_id 'asset-123', got %v", err.Context["asset_id"])
	}
}

func TestWrapError(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	wrappedErr := WrapError(originalErr, ErrCodeCacheOperation, "Cache error")

	if wrappedErr.Code != ErrCodeCacheOperation {
		t.Errorf("Expected code %s, got %s", ErrCodeCacheOperation, wrappedErr.Code)
	}

	if wrappedErr.Cause != originalErr {
		t.Error("Wrapped error should preserve original error")
	}

	// Wrapping an AppError returns it unchanged
	rewrapped := WrapError(wrappedErr, ErrCodeInternal, "Other")
	if rewrapped != wrappedErr {
		t.Error("Wrapping an AppError should return the same error")
	}
}

func TestGetSeverityByCode(t *testing.T) {
	tests := []struct {
		code             ErrorCode
		expectedSeverity ErrorSeverity
	}{
		{ErrCodeInternal, SeverityCritical},
		{ErrCodeMissingSecret, SeverityCritical},
		{ErrCodePipelineExecution, SeverityHigh},
		{ErrCodeCacheOperation, SeverityMedium},
		{ErrCodeInvalidInput, SeverityLow},
	}

	for _, test := range tests {
		severity := getSeverityByCode(test.code)
		if severity != test.expectedSeverity {
			t.Errorf("Code %s: expected severity %s, got %s", test.code, test.expectedSeverity, severity)
		}
	}
}

func TestIsAppError(t *testing.T) {
	appErr := NewAppError(ErrCodeInternal, "Test", nil)
	standardErr := fmt.Errorf("standard error")

	if !IsAppError(appErr) {
		t.Error("Should recognize AppError")
	}

	if IsAppError(standardErr) {
		t.Error("Should not recognize standard error as AppError")
	}

	if GetAppError(standardErr) != nil {
		t.Error("Should return nil for standard error")
	}
}

// Package errors provides the standardized error catalogue shared by the HTTP
// transport, the CLI and the job worker.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeModelLoadFailed        ErrorCode = "MODEL_LOAD_FAILED"
	ErrCodeSchemaMissing          ErrorCode = "SCHEMA_MISSING"
	ErrCodeIncompatibleArtifact   ErrorCode = "INCOMPATIBLE_ARTIFACT"
	ErrCodeApplicationValidation  ErrorCode = "APPLICATION_VALIDATION_FAILED"
	ErrCodeInvalidRequest         ErrorCode = "INVALID_REQUEST"
	ErrCodeUnrecognizedPrediction ErrorCode = "UNRECOGNIZED_PREDICTION"
	ErrCodePredictionFailed       ErrorCode = "PREDICTION_FAILED"
	ErrCodeRateLimited            ErrorCode = "RATE_LIMITED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewModelLoadFailedError reports an artifact that could not be read or decoded.
func NewModelLoadFailedError(path string, err error) *StandardError {
	return newError(ErrCodeModelLoadFailed, "Classifier artifact could not be loaded",
		fmt.Sprintf("path: %s, error: %v", path, err), false, err)
}

// NewSchemaMissingError reports an artifact without a feature-name list.
func NewSchemaMissingError(path string, err error) *StandardError {
	return newError(ErrCodeSchemaMissing, "Classifier artifact declares no feature schema",
		fmt.Sprintf("path: %s", path), false, err)
}

// NewIncompatibleArtifactError reports an artifact whose parts disagree.
func NewIncompatibleArtifactError(path string, err error) *StandardError {
	return newError(ErrCodeIncompatibleArtifact, "Classifier artifact is incompatible",
		fmt.Sprintf("path: %s, error: %v", path, err), false, err)
}

// NewApplicationValidationError reports raw input outside the form bounds.
func NewApplicationValidationError(details string) *StandardError {
	return newError(ErrCodeApplicationValidation, "Application failed validation", details, false, nil)
}

// NewInvalidRequestError reports a body that could not be decoded.
func NewInvalidRequestError(err error) *StandardError {
	return newError(ErrCodeInvalidRequest, "Request could not be decoded", err.Error(), false, err)
}

// NewUnrecognizedPredictionError reports a classifier label outside {0,1}.
func NewUnrecognizedPredictionError(err error) *StandardError {
	return newError(ErrCodeUnrecognizedPrediction, "Classifier returned an unrecognized prediction",
		err.Error(), false, err)
}

// NewPredictionFailedError reports any other classifier failure.
func NewPredictionFailedError(err error) *StandardError {
	return newError(ErrCodePredictionFailed, "Prediction failed", err.Error(), true, err)
}

// NewRateLimitedError reports a client over its request budget.
func NewRateLimitedError(client string) *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests", fmt.Sprintf("client: %s", client), true, nil)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Error Conversion
// ==========================

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodePredictionFailed:
		return 3
	case ErrCodeRateLimited:
		return 2
	default:
		return 0 // business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// HTTPStatus maps an error code to the status the web layer responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeApplicationValidation:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUnrecognizedPrediction:
		return http.StatusBadGateway
	case ErrCodeModelLoadFailed, ErrCodeSchemaMissing, ErrCodeIncompatibleArtifact:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "MODEL") || strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "ARTIFACT"):
		return "ARTIFACT"
	case strings.Contains(codeStr, "PREDICTION"):
		return "CLASSIFIER"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "RATE"):
		return "THROTTLING"
	default:
		return "OTHER"
	}
}

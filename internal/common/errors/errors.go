// internal/common/errors/errors.go

// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Recovered locally by the context sources; only ever surfaces in logs and metrics.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// Treated as a cache miss.
	ErrCodeCacheCorruption ErrorCode = "CACHE_CORRUPTION"

	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"

	ErrCodeHistoryWriteFailed ErrorCode = "HISTORY_WRITE_FAILED"
	ErrCodeRequestCancelled   ErrorCode = "REQUEST_CANCELLED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata returns the error with key set in its metadata.
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

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError is raised before any upstream IO happens.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid narrative request", details, false)
}

// NewGenerationFailedError reports that no variant could be generated.
func NewGenerationFailedError(details string) *StandardError {
	return newError(ErrCodeGenerationFailed, "Narrative generation failed", details, false)
}

func NewGenerationTimeoutError(details string) *StandardError {
	return newError(ErrCodeGenerationTimeout, "Narrative generation timed out", details, false)
}

func NewUpstreamUnavailableError(source string, err error) *StandardError {
	return newError(ErrCodeUpstreamUnavailable, fmt.Sprintf("Upstream '%s' unavailable", source), errDetails(err), true)
}

func NewCacheCorruptionError(key string, err error) *StandardError {
	return newError(ErrCodeCacheCorruption, "Cache entry could not be decoded", fmt.Sprintf("key: %s, error: %s", key, errDetails(err)), false)
}

func NewHistoryWriteFailedError(err error) *StandardError {
	return newError(ErrCodeHistoryWriteFailed, "Story history write failed", errDetails(err), true)
}

// NewRequestCancelledError covers job timeouts. Nothing was written, so the job can run again.
func NewRequestCancelledError(err error) *StandardError {
	return newError(ErrCodeRequestCancelled, "Request cancelled before completion", errDetails(err), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errDetails(err), true)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes modelled on boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidRequest:      "INVALID_REQUEST",
	ErrCodeGenerationFailed:    "GENERATION_FAILED",
	ErrCodeGenerationTimeout:   "GENERATION_FAILED",
	ErrCodeUpstreamUnavailable: "UPSTREAM_UNAVAILABLE",
	ErrCodeCacheCorruption:     "CACHE_CORRUPTION",
	ErrCodeHistoryWriteFailed:  "HISTORY_WRITE_FAILED",
	ErrCodeRequestCancelled:    "REQUEST_CANCELLED",
	ErrCodeInternal:            "INTERNAL_ERROR",
}

// GetRetryCount returns how many job retries an error code warrants. Generation is
// never retried automatically; a new request is the retry.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeInternal, ErrCodeHistoryWriteFailed:
		return 2
	case ErrCodeUpstreamUnavailable, ErrCodeRequestCancelled:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

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
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "GENERATION"):
		return "GENERATION"
	case strings.Contains(codeStr, "UPSTREAM") || strings.Contains(codeStr, "CACHE"):
		return "CONTEXT"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "HISTORY"):
		return "DATABASE"
	default:
		return "OTHER"
	}
}

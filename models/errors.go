package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	// Extraction failures.
	ErrCodeNoContent  = "NO_CONTENT_FOUND"
	ErrCodeFetchError = "FETCH_ERROR"

	// Upstream (LLM / embedding collaborator) failures.
	ErrCodeLLMFailure       = "LLM_FAILURE"
	ErrCodeLLMAuthFailure   = "LLM_AUTH_FAILURE"
	ErrCodeLLMRateLimited   = "LLM_RATE_LIMITED"
	ErrCodeEmbeddingFailure = "EMBEDDING_FAILURE"

	// Request-level errors.
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type APIError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(code, message string, err error) *APIError {
	return &APIError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *APIError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

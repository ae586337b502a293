package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies generation failures for the pipeline's taxonomy.
type ErrorType string

const (
	// ErrorTypeUnavailable means the provider cannot be reached or is not
	// configured (missing credential, bad endpoint). Hard failure.
	ErrorTypeUnavailable ErrorType = "capability_unavailable"
	// ErrorTypeGeneration means the provider responded with an error or the
	// call timed out. Hard failure.
	ErrorTypeGeneration ErrorType = "generation_failed"
	// ErrorTypeAuth means the credential was rejected. Hard failure.
	ErrorTypeAuth ErrorType = "auth_failed"
	// ErrorTypeUnknown is the catch-all classification.
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents a structured generation error with classification.
type Error struct {
	Type       ErrorType // Classification of the error
	Message    string    // Human-readable message
	Cause      error     // Underlying error
	StatusCode int       // HTTP status code if applicable
	Model      string    // Model name if known
	Provider   Provider  // Provider identity if known
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new structured generation error.
func NewError(errType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// ClassifyError categorizes an error and returns a structured Error.
// This consolidates error classification logic for consistent handling.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	// Check if already an *Error
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	// Extract HTTP status code from error string
	statusCode := 0
	for _, code := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			statusCode = code
			break
		}
	}

	// Authentication errors
	if strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") {
		llmErr := NewError(ErrorTypeAuth, "authentication failed", err)
		llmErr.StatusCode = statusCode
		return llmErr
	}

	// Connection errors - the capability cannot be reached
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") ||
		strings.Contains(errStr, "404") {
		llmErr := NewError(ErrorTypeUnavailable, "provider unreachable", err)
		llmErr.StatusCode = statusCode
		return llmErr
	}

	// Timeout and deadline exceeded
	if strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "context canceled") {
		llmErr := NewError(ErrorTypeGeneration, "request timeout", err)
		llmErr.StatusCode = statusCode
		return llmErr
	}

	// Rate limiting and server errors - the provider answered, badly
	if strings.Contains(errStr, "429") || strings.Contains(lower, "rate limit") ||
		strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504") {
		llmErr := NewError(ErrorTypeGeneration, "provider error", err)
		llmErr.StatusCode = statusCode
		return llmErr
	}

	llmErr = NewError(ErrorTypeUnknown, "generation error", err)
	llmErr.StatusCode = statusCode
	return llmErr
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}

// IsUnavailable reports whether err means the capability cannot be used at all.
func IsUnavailable(err error) bool {
	t := GetErrorType(err)
	return t == ErrorTypeUnavailable || t == ErrorTypeAuth
}

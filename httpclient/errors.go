package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ClientError represents the categories of executor errors
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error
type ErrorType string

const (
	NetworkError      ErrorType = "network"
	TimeoutError      ErrorType = "timeout"
	HTTPError         ErrorType = "http"
	ValidationError   ErrorType = "validation"
	CancellationError ErrorType = "cancellation"
)

// networkError represents a transport failure during one attempt
type networkError struct {
	message string
	attempt int
	wrapped error
}

func (e *networkError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("network error: %s (attempt: %d): %v", e.message, e.attempt+1, e.wrapped)
	}
	return fmt.Sprintf("network error: %s (attempt: %d)", e.message, e.attempt+1)
}

func (e *networkError) Type() ErrorType {
	return NetworkError
}

func (e *networkError) Unwrap() error {
	return e.wrapped
}

// timeoutError represents an attempt that exceeded its transport timeout
type timeoutError struct {
	message string
	attempt int
	timeout time.Duration
	wrapped error
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (attempt: %d, timeout: %v)", e.message, e.attempt+1, e.timeout)
}

func (e *timeoutError) Type() ErrorType {
	return TimeoutError
}

func (e *timeoutError) Unwrap() error {
	return e.wrapped
}

// httpError represents a response that was obtained but rejected by the caller
type httpError struct {
	message    string
	statusCode int
	body       []byte
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error: %s (status: %d)", e.message, e.statusCode)
}

func (e *httpError) Type() ErrorType {
	return HTTPError
}

func (e *httpError) StatusCode() int {
	return e.statusCode
}

func (e *httpError) Body() []byte {
	return e.body
}

// validationError represents request validation errors
type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType {
	return ValidationError
}

// cancellationError reports that the caller's context ended mid-retry
type cancellationError struct {
	message string
	attempt int
	wrapped error
}

func (e *cancellationError) Error() string {
	return fmt.Sprintf("cancelled: %s (attempt: %d): %v", e.message, e.attempt+1, e.wrapped)
}

func (e *cancellationError) Type() ErrorType {
	return CancellationError
}

func (e *cancellationError) Unwrap() error {
	return e.wrapped
}

// AggregateError is returned when every attempt of a logical call failed at
// the transport level and no response was ever obtained. Errors keeps the
// per-attempt failures in attempt order.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("all %d attempts failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the causes to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewNetworkError creates a new network error for the given 0-based attempt
func NewNetworkError(message string, attempt int, wrapped error) ClientError {
	return &networkError{
		message: message,
		attempt: attempt,
		wrapped: wrapped,
	}
}

// NewTimeoutError creates a new timeout error for the given 0-based attempt
func NewTimeoutError(message string, attempt int, timeout time.Duration, wrapped error) ClientError {
	return &timeoutError{
		message: message,
		attempt: attempt,
		timeout: timeout,
		wrapped: wrapped,
	}
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(message string, statusCode int, body []byte) ClientError {
	return &httpError{
		message:    message,
		statusCode: statusCode,
		body:       body,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message, field string) ClientError {
	return &validationError{
		message: message,
		field:   field,
	}
}

// NewCancellationError creates a new cancellation error wrapping the context error
func NewCancellationError(message string, attempt int, wrapped error) ClientError {
	return &cancellationError{
		message: message,
		attempt: attempt,
		wrapped: wrapped,
	}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsTransportError reports whether err is a retryable per-attempt failure.
func IsTransportError(err error) bool {
	return IsErrorType(err, NetworkError) || IsErrorType(err, TimeoutError)
}

// IsHTTPStatusError checks if an error is an HTTP error with a specific status code
func IsHTTPStatusError(err error, statusCode int) bool {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode() == statusCode
	}
	return false
}

// IsOK reports whether a status code ends the retry loop. Only 200 does.
func IsOK(statusCode int) bool {
	return statusCode == http.StatusOK
}

// CheckStatus converts a non-200 response into an HTTP error.
// Execute itself never does this; callers opt in.
func CheckStatus(resp *Response) error {
	if resp == nil {
		return NewValidationError("response cannot be nil", "response")
	}
	if IsOK(resp.StatusCode) {
		return nil
	}
	return NewHTTPError(
		fmt.Sprintf("request failed with status %d", resp.StatusCode),
		resp.StatusCode,
		resp.Body,
	)
}

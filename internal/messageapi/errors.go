package messageapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// ErrorType represents the category of a failed fetch
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error not covered below
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request exceeded its deadline
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening at the endpoint
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates the endpoint host could not be resolved
	ErrTypeDNS
	// ErrTypeCanceled indicates the caller abandoned the request
	ErrTypeCanceled
	// ErrTypeHTTP indicates a non-2xx response without a usable payload
	ErrTypeHTTP
	// ErrTypeParse indicates the body was not a JSON object or the message was not text
	ErrTypeParse
	// ErrTypeMissingField indicates the JSON object had no message field
	ErrTypeMissingField
	// ErrTypeValidation indicates an unusable endpoint address
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeCanceled:
		return "Canceled"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeMissingField:
		return "Missing Field"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// FetchError describes why a fetch produced no message.
type FetchError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Endpoint   string    // Endpoint address (for context)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a transport error onto an ErrorType.
func ClassifyNetworkError(err error) ErrorType {
	if err == nil {
		return ErrTypeNetwork
	}

	if errors.Is(err, context.Canceled) {
		return ErrTypeCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return ErrTypeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return ErrTypeTimeout
		}
		return ErrTypeDNS
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrTypeConnectionRefused
	}

	return ErrTypeNetwork
}

// NewNetworkError creates a transport error with automatic classification
func NewNetworkError(endpoint, message string, err error) *FetchError {
	return &FetchError{
		Type:     ClassifyNetworkError(err),
		Message:  message,
		Endpoint: endpoint,
		Err:      err,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(endpoint string, statusCode int, message string, err error) *FetchError {
	return &FetchError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Err:        err,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *FetchError {
	return &FetchError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewMissingFieldError creates an error for an absent or null field
func NewMissingFieldError(field string) *FetchError {
	return &FetchError{
		Type:    ErrTypeMissingField,
		Message: fmt.Sprintf("response has no %q field", field),
	}
}

// NewValidationError creates an endpoint validation error
func NewValidationError(endpoint, message string) *FetchError {
	return &FetchError{
		Type:     ErrTypeValidation,
		Message:  message,
		Endpoint: endpoint,
	}
}

func errorType(err error) (ErrorType, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Type, true
	}
	return 0, false
}

// IsNetworkError checks if an error is a transport error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeNetwork ||
		t == ErrTypeTimeout ||
		t == ErrTypeConnectionRefused ||
		t == ErrTypeDNS)
}

// IsCanceled checks if the fetch was abandoned by its caller
func IsCanceled(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeCanceled
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeParse
}

// IsMissingFieldError checks if the payload lacked the message field
func IsMissingFieldError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeMissingField
}

// IsValidationError checks if an error is an endpoint validation error
func IsValidationError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeValidation
}

// Hint returns troubleshooting advice for an error
func Hint(err error) []string {
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		return []string{"An unexpected error occurred. Please try again."}
	}

	switch fetchErr.Type {
	case ErrTypeTimeout:
		return []string{
			"The backend did not respond in time.",
			"Check that the backend process is running",
			"Raise timeout_seconds in the config file or remove it",
		}

	case ErrTypeConnectionRefused:
		return []string{
			"Nothing is listening at " + fetchErr.Endpoint + ".",
			"Start the backend, or point --api-url at the right host and port",
			"The default backend address is 127.0.0.1:5000",
		}

	case ErrTypeDNS:
		return []string{
			"Could not resolve the endpoint hostname.",
			"Use an IP address instead of a hostname",
			"Check your network DNS settings",
		}

	case ErrTypeNetwork:
		return []string{
			"Network communication failed.",
			"Check your network connection",
			"Verify the endpoint address: " + fetchErr.Endpoint,
		}

	case ErrTypeHTTP:
		if fetchErr.StatusCode == 404 {
			return []string{
				"The backend has no route at " + fetchErr.Endpoint + ".",
				"The default path is /api; set api_url if your backend differs",
			}
		}
		return []string{fmt.Sprintf("The backend returned HTTP %d without a message.", fetchErr.StatusCode)}

	case ErrTypeParse, ErrTypeMissingField:
		return []string{
			"The backend response is not in the expected shape.",
			`Expected a JSON object such as {"message": "hello"}`,
			"Run with MSGVIEW_LOG_LEVEL=debug to see the raw body",
		}

	case ErrTypeValidation:
		return []string{
			"The endpoint address is not usable.",
			"Use an http, https, ws or wss URL, or a path such as /api",
		}

	default:
		return []string{"An error occurred. Please check the error message for details."}
	}
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		return err.Error()
	}

	switch fetchErr.Type {
	case ErrTypeTimeout:
		return "Backend not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Backend refused connection - is it running?"
	case ErrTypeDNS:
		return "Cannot resolve backend hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeCanceled:
		return "Request canceled"
	case ErrTypeHTTP:
		return fmt.Sprintf("Backend error (HTTP %d)", fetchErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse backend response"
	case ErrTypeMissingField:
		return "Backend response has no message"
	default:
		return strings.TrimSpace(fetchErr.Message)
	}
}

// Category names the broad kind of failure for logs.
func Category(err error) string {
	switch {
	case IsCanceled(err):
		return "canceled"
	case IsNetworkError(err):
		return "network"
	case IsHTTPError(err):
		return "http"
	case IsParseError(err), IsMissingFieldError(err):
		return "payload"
	case IsValidationError(err):
		return "endpoint"
	default:
		return "unknown"
	}
}

// LogFields describes err as structured log fields: its type, category,
// a short summary and troubleshooting hints.
func LogFields(err error) []zap.Field {
	fields := make([]zap.Field, 0, 5)
	if t, ok := errorType(err); ok {
		fields = append(fields, zap.Stringer("type", t))
	}
	fields = append(fields,
		zap.String("category", Category(err)),
		zap.String("summary", ShortMessage(err)),
		zap.Strings("hints", Hint(err)),
	)

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
		fields = append(fields, zap.Int("status_code", fetchErr.StatusCode))
	}
	return fields
}

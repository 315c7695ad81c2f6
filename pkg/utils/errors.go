package utils

import (
	"context"
	"errors"
	"net"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrRetryFailed      = errors.New("request failed after all attempts") // Wraps the last underlying error
	ErrClientHTTPError  = errors.New("client HTTP error (4xx)")           // Wraps original error/status
	ErrServerHTTPError  = errors.New("server HTTP error (5xx)")           // Wraps original error/status
	ErrOtherHTTPError   = errors.New("other HTTP error (non-2xx)")        // Wraps original error/status
	ErrUnresolvable     = errors.New("no working scheme for URL")         // Neither https nor http probe succeeded
	ErrParsing          = errors.New("parsing error")                     // Wraps specific parsing error (HTML, URL, CSV)
	ErrRequestCreation  = errors.New("failed to create HTTP request")
	ErrResponseBodyRead = errors.New("failed to read response body")
	ErrTable            = errors.New("table error") // Structural input/output table failure (fatal)
	ErrConfigValidation = errors.New("configuration validation error")
)

// IsTransient reports whether err belongs to the retryable failure class:
// network-level errors (connection, DNS, TLS, read timeouts) and retryable
// HTTP statuses (5xx, 429). Client errors, malformed URLs and context
// cancellation are terminal.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrServerHTTPError) {
		return true
	}
	if errors.Is(err, ErrClientHTTPError) || errors.Is(err, ErrOtherHTTPError) ||
		errors.Is(err, ErrRequestCreation) || errors.Is(err, ErrParsing) {
		return false
	}
	if errors.Is(err, ErrResponseBodyRead) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Fallback substring checks for wrapped transport errors that don't
	// implement net.Error (TLS alerts, peer resets, DNS failures)
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "tls"),
		strings.Contains(msg, "certificate"),
		strings.Contains(msg, "unexpected eof"):
		return true
	}
	return false
}

// CategorizeError maps an error to a predefined category string for logging and run summaries.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	// Check against sentinel errors first
	switch {
	case errors.Is(err, ErrRetryFailed):
		// The last attempt's error is chained in; errors.Is/As walk the
		// whole chain, unlike a single Unwrap
		if errors.Is(err, ErrServerHTTPError) {
			return "RetryFailed_HTTPServer"
		}
		if errors.Is(err, ErrClientHTTPError) {
			return "RetryFailed_HTTPClient"
		}
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline exceeded") {
			return "RetryFailed_NetworkTimeout"
		}
		if strings.Contains(errMsg, "connection refused") {
			return "RetryFailed_ConnectionRefused"
		}
		if strings.Contains(errMsg, "no such host") {
			return "RetryFailed_DNSLookup"
		}
		if strings.Contains(errMsg, "tls") || strings.Contains(errMsg, "certificate") {
			return "RetryFailed_TLS"
		}
		return "RetryFailed_NetworkOther"
	case errors.Is(err, ErrUnresolvable):
		return "Scheme_Unresolvable"
	case errors.Is(err, ErrClientHTTPError):
		errMsg := err.Error()
		if strings.Contains(errMsg, " 404 ") {
			return "HTTP_404"
		}
		if strings.Contains(errMsg, " 403 ") {
			return "HTTP_403"
		}
		if strings.Contains(errMsg, " 429 ") {
			return "HTTP_429"
		}
		return "HTTP_4xx"
	case errors.Is(err, ErrServerHTTPError):
		return "HTTP_5xx"
	case errors.Is(err, ErrOtherHTTPError):
		return "HTTP_OtherStatus"
	case errors.Is(err, ErrParsing):
		errMsg := err.Error()
		if strings.Contains(errMsg, "URL") {
			return "Content_ParsingURL"
		}
		if strings.Contains(errMsg, "HTML") {
			return "Content_ParsingHTML"
		}
		if strings.Contains(errMsg, "CSV") {
			return "Content_ParsingCSV"
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrResponseBodyRead):
		return "Network_BodyRead"
	case errors.Is(err, ErrTable):
		return "Table_Structural"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	}

	// --- Fallback checks for common underlying error types/strings ---

	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "Network_Timeout"
		}
	}
	lowerErrMsg := strings.ToLower(err.Error())
	if strings.Contains(lowerErrMsg, "timeout") {
		return "Network_TimeoutGeneric"
	}
	if strings.Contains(lowerErrMsg, "connection refused") {
		return "Network_ConnectionRefused"
	}
	if strings.Contains(lowerErrMsg, "no such host") {
		return "Network_DNSLookup"
	}
	if strings.Contains(lowerErrMsg, "tls") || strings.Contains(lowerErrMsg, "certificate") {
		return "Network_TLS"
	}
	if strings.Contains(lowerErrMsg, "reset by peer") {
		return "Network_ConnectionReset"
	}

	return "Unknown"
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown            ErrorType = iota
	ErrorTypeTransient                    // Temporary network issues
	ErrorTypePermanent                    // Bad endpoint, rejected credentials
	ErrorTypeTimeout                      // Request timeouts
	ErrorTypeRateLimit                    // 429 from a model backend
	ErrorTypeServiceUnavailable           // 5xx, model still loading
	ErrorTypeInvalidInput                 // 4xx other than 429
	ErrorTypeCanceled                     // caller gave up
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeUnknown:
		return "Unknown"
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypePermanent:
		return "Permanent"
	case ErrorTypeTimeout:
		return "Timeout"
	case ErrorTypeRateLimit:
		return "RateLimit"
	case ErrorTypeServiceUnavailable:
		return "ServiceUnavailable"
	case ErrorTypeInvalidInput:
		return "InvalidInput"
	case ErrorTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Original == nil {
		return e.Type.String()
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// StatusError reports a non-2xx answer from an HTTP backend.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Endpoint, e.Code, e.Body)
}

// ClassifyError categorizes an error for appropriate handling
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.Canceled) {
		return &ClassifiedError{Original: err, Type: ErrorTypeCanceled, Retryable: false}
	}

	var status *StatusError
	if errors.As(err, &status) {
		return classifyStatus(err, status.Code)
	}

	if isTimeoutError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTimeout,
			Message:   fmt.Sprintf("Timeout error: %v", err),
			Retryable: true,
		}
	}

	if isNetworkError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTransient,
			Message:   fmt.Sprintf("Network error: %v", err),
			Retryable: true,
		}
	}

	return &ClassifiedError{
		Original:  err,
		Type:      ErrorTypeUnknown,
		Message:   fmt.Sprintf("Unknown error: %v", err),
		Retryable: false,
	}
}

func classifyStatus(err error, code int) *ClassifiedError {
	switch {
	case code == http.StatusTooManyRequests:
		return &ClassifiedError{Original: err, Type: ErrorTypeRateLimit, Retryable: true}
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return &ClassifiedError{Original: err, Type: ErrorTypeTimeout, Retryable: true}
	case code >= 500:
		return &ClassifiedError{Original: err, Type: ErrorTypeServiceUnavailable, Retryable: true}
	case code == http.StatusUnauthorized || code == http.StatusForbidden || code == http.StatusNotFound:
		return &ClassifiedError{Original: err, Type: ErrorTypePermanent, Retryable: false}
	default:
		return &ClassifiedError{Original: err, Type: ErrorTypeInvalidInput, Retryable: false}
	}
}

// isNetworkError checks if an error is network-related
func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}

// isTimeoutError checks if an error is timeout-related
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// NewTransientError creates a new transient error
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates a new permanent error
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}

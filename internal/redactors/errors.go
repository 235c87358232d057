// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"errors"
	"fmt"
)

// RedactionErrorType defines the type of redaction error
type RedactionErrorType int

const (
	// ErrorConfiguration indicates an invalid mode or strategy selection
	ErrorConfiguration RedactionErrorType = iota

	// ErrorPlan indicates a rewrite plan that is unordered, overlapping or out of range
	ErrorPlan

	// ErrorGeneration indicates a pseudonym could not be produced
	ErrorGeneration
)

// String returns the string representation of the error type
func (ret RedactionErrorType) String() string {
	switch ret {
	case ErrorConfiguration:
		return "configuration"
	case ErrorPlan:
		return "plan"
	case ErrorGeneration:
		return "generation"
	default:
		return "unknown"
	}
}

// RedactionError represents an error that occurred during redaction
type RedactionError struct {
	// Type is the type of error
	Type RedactionErrorType

	// Message is the error message
	Message string

	// Component is the component that generated the error
	Component string

	// Cause is the underlying error that caused this error
	Cause error
}

// Error implements the error interface
func (re *RedactionError) Error() string {
	if re.Cause != nil {
		return fmt.Sprintf("[%s] %s (component: %s): %s", re.Type, re.Message, re.Component, re.Cause)
	}
	return fmt.Sprintf("[%s] %s (component: %s)", re.Type, re.Message, re.Component)
}

// Unwrap returns the underlying error for error unwrapping
func (re *RedactionError) Unwrap() error {
	return re.Cause
}

// NewRedactionError creates a new RedactionError
func NewRedactionError(errorType RedactionErrorType, message, component string, cause error) *RedactionError {
	return &RedactionError{
		Type:      errorType,
		Message:   message,
		Component: component,
		Cause:     cause,
	}
}

// IsErrorType reports whether err is a RedactionError of type t.
func IsErrorType(err error, t RedactionErrorType) bool {
	var re *RedactionError
	return errors.As(err, &re) && re.Type == t
}

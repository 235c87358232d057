// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StandardObserver times pipeline operations and reports them through logrus.
type StandardObserver struct {
	level         ObservabilityLevel
	logger        *logrus.Logger
	DebugObserver *DebugObserver // set when level is ObservabilityDebug
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewLogger builds the process logger. format is "text" or "json".
func NewLogger(level, format string, w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	return logger, nil
}

// NewStandardObserver creates an observer logging through logger.
// A nil logger falls back to the logrus standard logger.
func NewStandardObserver(level ObservabilityLevel, logger *logrus.Logger) *StandardObserver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	o := &StandardObserver{
		level:  level,
		logger: logger,
	}
	if level == ObservabilityDebug {
		o.DebugObserver = &DebugObserver{StandardObserver: o}
	}
	return o
}

// Nop returns an observer that records nothing.
func Nop() *StandardObserver {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewStandardObserver(ObservabilityOff, logger)
}

// Logger exposes the underlying logger for components that log directly.
func (o *StandardObserver) Logger() *logrus.Logger {
	return o.logger
}

// NewRequestID returns an identifier correlating the log lines of one document.
func NewRequestID() string {
	return "req-" + uuid.NewString()
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, subject string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Subject:    subject,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o.level == ObservabilityOff {
		return
	}

	fields := logrus.Fields{
		"component":   data.Component,
		"operation":   data.Operation,
		"duration_ms": data.DurationMs,
		"success":     data.Success,
	}
	if data.RequestID != "" {
		fields["request_id"] = data.RequestID
	}
	if data.Subject != "" {
		fields["subject"] = data.Subject
	}
	if data.Error != "" {
		fields["error"] = data.Error
	}
	for k, v := range data.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch {
	case !data.Success:
		entry.Warn("operation failed")
	case o.level == ObservabilityDebug:
		entry.Debug("operation completed")
	default:
		entry.Info("operation completed")
	}
}

// StandardObservabilityData for all components. Subject names what was
// processed (a file path or a request id), never the text itself.
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	RequestID  string                 `json:"request_id"`
	Subject    string                 `json:"subject,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DebugObserver traces individual pipeline steps at debug level.
type DebugObserver struct {
	*StandardObserver
}

// StartStep begins a processing step.
func (d *DebugObserver) StartStep(component, step, subject string) func(success bool, details string) {
	start := time.Now()
	d.logger.WithFields(logrus.Fields{"component": component, "step": step, "subject": subject}).Debug("step started")

	return func(success bool, details string) {
		entry := d.logger.WithFields(logrus.Fields{
			"component":   component,
			"step":        step,
			"subject":     subject,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if details != "" {
			entry = entry.WithField("details", details)
		}
		if success {
			entry.Debug("step completed")
		} else {
			entry.Debug("step failed")
		}
	}
}

// LogMetric logs a metric value
func (d *DebugObserver) LogMetric(component, metric string, value interface{}) {
	d.logger.WithFields(logrus.Fields{"component": component, "metric": metric, "value": value}).Debug("metric")
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerRejectsBadSettings(t *testing.T) {
	_, err := NewLogger("loud", "text", &bytes.Buffer{})
	assert.Error(t, err)
	_, err = NewLogger("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestStartTimingWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("debug", "json", &buf)
	require.NoError(t, err)

	obs := NewStandardObserver(ObservabilityMetrics, logger)
	done := obs.StartTiming("analyzer", "analyze", "req-1")
	done(true, map[string]interface{}{"span_count": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analyzer", entry["component"])
	assert.Equal(t, "analyze", entry["operation"])
	assert.Equal(t, float64(3), entry["span_count"])
	assert.Equal(t, true, entry["success"])
}

func TestObservabilityOffIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("debug", "text", &buf)
	require.NoError(t, err)

	NewStandardObserver(ObservabilityOff, logger).StartTiming("x", "y", "")(false, nil)
	assert.Empty(t, buf.String())
}

func TestDebugObserverSteps(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("debug", "text", &buf)
	require.NoError(t, err)

	obs := NewStandardObserver(ObservabilityDebug, logger)
	require.NotNil(t, obs.DebugObserver)
	obs.DebugObserver.StartStep("rewriter", "apply", "req-2")(true, "4 replacements")
	assert.True(t, strings.Contains(buf.String(), "step completed"))
}

func TestNewRequestIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
}

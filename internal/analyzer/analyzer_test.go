// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-anonymizer/internal/detector"
)

func fixed(name string, delay time.Duration, spans ...detector.Span) detector.Recognizer {
	return detector.RecognizerFunc{ID: name, Fn: func(ctx context.Context, text string) ([]detector.Span, error) {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return spans, nil
	}}
}

func failing(name string, err error) detector.Recognizer {
	return detector.RecognizerFunc{ID: name, Fn: func(ctx context.Context, text string) ([]detector.Span, error) {
		return nil, err
	}}
}

const sample = "Jean Dupont travaille chez UBS à Genève."

func TestAnalyzeConcatenatesInRecognizerOrder(t *testing.T) {
	slow := fixed("slow", 30*time.Millisecond, detector.Span{Start: 0, End: 11, EntityType: detector.Person, Score: 0.9})
	fast := fixed("fast", 0, detector.Span{Start: 27, End: 30, EntityType: detector.Organization, Score: 0.8})

	spans, err := New([]detector.Recognizer{slow, fast}).Analyze(context.Background(), sample)
	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.Equal(t, "slow", spans[0].Source)
	assert.Equal(t, "fast", spans[1].Source)
}

func TestAnalyzeOverwritesSource(t *testing.T) {
	r := fixed("model", 0, detector.Span{Start: 0, End: 4, EntityType: detector.Person, Score: 0.9, Source: "other"})
	spans, err := New([]detector.Recognizer{r}).Analyze(context.Background(), sample)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "model", spans[0].Source)
}

func TestAnalyzeDropsInvalidSpans(t *testing.T) {
	r := fixed("model", 0,
		detector.Span{Start: 5, End: 500, EntityType: detector.Person, Score: 0.9},
		detector.Span{Start: 4, End: 4, EntityType: detector.Person, Score: 0.9},
		detector.Span{Start: 0, End: 4, EntityType: detector.Person, Score: 0.9},
	)
	spans, err := New([]detector.Recognizer{r}).Analyze(context.Background(), sample)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, 0, spans[0].Start)
}

func TestAnalyzeFailureIsFatalByDefault(t *testing.T) {
	boom := errors.New("model crashed")
	a := New([]detector.Recognizer{
		fixed("ok", 0, detector.Span{Start: 0, End: 4, EntityType: detector.Person, Score: 0.9}),
		failing("broken", boom),
	})

	_, err := a.Analyze(context.Background(), sample)
	require.Error(t, err)
	var rerr *RecognizerError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "broken", rerr.Recognizer)
	assert.ErrorIs(t, err, boom)
}

func TestAnalyzeDegradedModeKeepsHealthySpans(t *testing.T) {
	a := New([]detector.Recognizer{
		fixed("ok", 0, detector.Span{Start: 0, End: 4, EntityType: detector.Person, Score: 0.9}),
		failing("broken", errors.New("model crashed")),
	}, WithDegradedMode(true))

	spans, err := a.Analyze(context.Background(), sample)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "ok", spans[0].Source)
}

func TestAnalyzeTimeoutFailsEvenWhenDegraded(t *testing.T) {
	a := New([]detector.Recognizer{
		fixed("ok", 0, detector.Span{Start: 0, End: 4, EntityType: detector.Person, Score: 0.9}),
		fixed("stuck", time.Minute),
	}, WithDegradedMode(true), WithTimeout(20*time.Millisecond))

	_, err := a.Analyze(context.Background(), sample)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAnalyzeEmptyText(t *testing.T) {
	called := false
	r := detector.RecognizerFunc{ID: "x", Fn: func(ctx context.Context, text string) ([]detector.Span, error) {
		called = true
		return nil, nil
	}}
	spans, err := New([]detector.Recognizer{r}).Analyze(context.Background(), " \n\t")
	require.NoError(t, err)
	assert.Empty(t, spans)
	assert.False(t, called)
}

func TestAnalyzeOffsetsInCharacters(t *testing.T) {
	text := "Hélène Müller"
	r := fixed("m", 0, detector.Span{Start: 7, End: 13, EntityType: detector.Person, Score: 0.9})
	spans, err := New([]detector.Recognizer{r}).Analyze(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "Müller", detector.Slice(text, spans[0]))
}

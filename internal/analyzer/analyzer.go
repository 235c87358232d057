// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package analyzer runs a set of recognizers over one text and gathers their
// spans.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/observability"
)

// RecognizerError reports which recognizer failed.
type RecognizerError struct {
	Recognizer string
	Err        error
}

func (e *RecognizerError) Error() string {
	return fmt.Sprintf("recognizer %s failed: %v", e.Recognizer, e.Err)
}

func (e *RecognizerError) Unwrap() error { return e.Err }

// ErrTimeout is returned when the analysis deadline expires.
var ErrTimeout = errors.New("analysis timed out")

// Analyzer aggregates spans from several recognizers.
type Analyzer struct {
	recognizers []detector.Recognizer
	degraded    bool
	timeout     time.Duration
	observer    *observability.StandardObserver
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDegradedMode keeps the spans of healthy recognizers when another one
// fails, instead of failing the document.
func WithDegradedMode(enabled bool) Option {
	return func(a *Analyzer) { a.degraded = enabled }
}

// WithTimeout bounds a whole Analyze call. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.timeout = d }
}

// WithObserver sets the observer.
func WithObserver(o *observability.StandardObserver) Option {
	return func(a *Analyzer) { a.observer = o }
}

// New creates an Analyzer. Recognizer order determines output order.
func New(recognizers []detector.Recognizer, opts ...Option) *Analyzer {
	a := &Analyzer{
		recognizers: recognizers,
		observer:    observability.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Recognizers returns the configured recognizers.
func (a *Analyzer) Recognizers() []detector.Recognizer {
	return a.recognizers
}

// Analyze runs every recognizer concurrently and concatenates their spans in
// recognizer order. Each span's Source is set to the producing recognizer.
// Spans with invalid offsets are dropped.
func (a *Analyzer) Analyze(ctx context.Context, text string) ([]detector.Span, error) {
	if strings.TrimSpace(text) == "" || len(a.recognizers) == 0 {
		return nil, nil
	}

	requestID, _ := ctx.Value(requestIDKey{}).(string)
	done := a.observer.StartTiming("analyzer", "analyze", requestID)

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	textLen := detector.TextLen(text)
	results := make([][]detector.Span, len(a.recognizers))
	g, gctx := errgroup.WithContext(ctx)

	for i, rec := range a.recognizers {
		g.Go(func() error {
			spans, err := rec.Recognize(gctx, text)
			if err != nil {
				rerr := &RecognizerError{Recognizer: rec.Name(), Err: err}
				if a.degraded && ctx.Err() == nil {
					a.logger(requestID).WithField("recognizer", rec.Name()).WithError(err).
						Warn("recognizer failed, continuing without it")
					return nil
				}
				return rerr
			}
			results[i] = a.tag(rec.Name(), spans, textLen, requestID)
			return nil
		})
	}

	err := g.Wait()
	if ctx.Err() != nil {
		err = a.contextError(ctx)
	}
	if err != nil {
		done(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	var out []detector.Span
	for _, spans := range results {
		out = append(out, spans...)
	}
	done(true, map[string]interface{}{"span_count": len(out), "recognizers": len(a.recognizers)})
	return out, nil
}

func (a *Analyzer) tag(name string, spans []detector.Span, textLen int, requestID string) []detector.Span {
	out := make([]detector.Span, 0, len(spans))
	for _, s := range spans {
		s.Source = name
		if err := s.Validate(textLen); err != nil {
			a.logger(requestID).WithField("recognizer", name).WithError(err).Warn("dropping invalid span")
			continue
		}
		out = append(out, s)
	}
	return out
}

func (a *Analyzer) contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
	return ctx.Err()
}

func (a *Analyzer) logger(requestID string) *logrus.Entry {
	entry := a.observer.Logger().WithField("component", "analyzer")
	if requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	return entry
}

type requestIDKey struct{}

// WithRequestID attaches a request id that shows up in analyzer log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

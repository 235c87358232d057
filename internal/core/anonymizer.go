// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core wires recognizers, reconciliation and substitution into a
// single text anonymizer.
package core

import (
	"context"
	"fmt"
	"strings"

	"pii-anonymizer/internal/allowlist"
	"pii-anonymizer/internal/analyzer"
	"pii-anonymizer/internal/cache"
	"pii-anonymizer/internal/config"
	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/observability"
	"pii-anonymizer/internal/reconcile"
	"pii-anonymizer/internal/redactors"
	"pii-anonymizer/internal/redactors/replacement"
)

// Result describes one anonymized text.
type Result struct {
	RequestID string
	Text      string
	// Spans are the reconciled spans, in the coordinates of the input text.
	Spans []detector.Span
	// Raw is the number of spans reported before reconciliation.
	Raw int
}

// Anonymizer detects and rewrites PII. It is safe for concurrent use; all
// calls share one consistency cache.
type Anonymizer struct {
	analyzer   *analyzer.Analyzer
	reconciler *reconcile.Reconciler
	allow      *allowlist.Manager
	registry   *redactors.Registry
	cache      *cache.Cache
	observer   *observability.StandardObserver
}

type options struct {
	cache    *cache.Cache
	observer *observability.StandardObserver
	allow    *allowlist.Manager
	extra    []detector.Recognizer
	only     []detector.Recognizer
}

// Option configures an Anonymizer.
type Option func(*options)

// WithCache shares a cache between anonymizers, e.g. across a batch of files.
func WithCache(c *cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithObserver sets the observer used by every stage.
func WithObserver(obs *observability.StandardObserver) Option {
	return func(o *options) { o.observer = obs }
}

// WithAllowList replaces the allow list built from the configuration.
func WithAllowList(m *allowlist.Manager) Option {
	return func(o *options) { o.allow = m }
}

// WithRecognizers adds recognizers in front of the configured ones, e.g.
// in-process models.
func WithRecognizers(r ...detector.Recognizer) Option {
	return func(o *options) { o.extra = append(o.extra, r...) }
}

// WithOnlyRecognizers replaces the configured recognizers entirely.
func WithOnlyRecognizers(r ...detector.Recognizer) Option {
	return func(o *options) { o.only = r }
}

// New builds an Anonymizer from a validated configuration.
func New(cfg *config.Config, opts ...Option) (*Anonymizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	o := options{observer: observability.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = cache.New()
	}

	recognizers := o.only
	if recognizers == nil {
		built, err := BuildRecognizers(cfg, o.observer.Logger())
		if err != nil {
			return nil, err
		}
		recognizers = append(append([]detector.Recognizer(nil), o.extra...), built...)
	}

	if o.allow == nil {
		allow, err := BuildAllowList(cfg)
		if err != nil {
			return nil, err
		}
		o.allow = allow
	}

	whitelist, _ := cfg.EntityKinds()
	selected, _ := cfg.PseudonymizeKinds()
	mode, _ := cfg.ResolvedMode()
	timeout, _ := cfg.AnalysisTimeout()

	gens, err := replacement.New(o.cache,
		replacement.WithSeed(cfg.Pseudonym.Seed),
		replacement.WithAgeRange(cfg.Pseudonym.AgeMin, cfg.Pseudonym.AgeMax),
		replacement.WithIDLength(cfg.Pseudonym.IDLength),
	)
	if err != nil {
		return nil, fmt.Errorf("pseudonym generators: %w", err)
	}
	registry, err := redactors.NewRegistry(mode, selected, gens)
	if err != nil {
		return nil, err
	}

	return &Anonymizer{
		analyzer: analyzer.New(recognizers,
			analyzer.WithDegradedMode(cfg.Analysis.Degraded),
			analyzer.WithTimeout(timeout),
			analyzer.WithObserver(o.observer),
		),
		reconciler: reconcile.New(whitelist),
		allow:      o.allow,
		registry:   registry,
		cache:      o.cache,
		observer:   o.observer,
	}, nil
}

// Cache returns the consistency cache.
func (a *Anonymizer) Cache() *cache.Cache { return a.cache }

// Analyze returns the reconciled spans for text without rewriting it.
func (a *Anonymizer) Analyze(ctx context.Context, text string) ([]detector.Span, error) {
	raw, err := a.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	return a.reconciler.Reconcile(a.allow.Filter(text, raw)), nil
}

// Anonymize returns text with every detected entity replaced.
func (a *Anonymizer) Anonymize(ctx context.Context, text string) (string, error) {
	res, err := a.Process(ctx, text)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Process runs the whole pipeline and reports what was replaced.
// Empty or whitespace-only text is returned unchanged.
func (a *Anonymizer) Process(ctx context.Context, text string) (*Result, error) {
	requestID := observability.NewRequestID()
	if strings.TrimSpace(text) == "" {
		return &Result{RequestID: requestID, Text: text}, nil
	}
	done := a.observer.StartTiming("anonymizer", "process", requestID)

	raw, err := a.analyzer.Analyze(analyzer.WithRequestID(ctx, requestID), text)
	if err != nil {
		done(false, nil)
		return nil, fmt.Errorf("analyzing text: %w", err)
	}
	spans := a.reconciler.Reconcile(a.allow.Filter(text, raw))

	var finishStep func(bool, string)
	if a.observer.DebugObserver != nil {
		a.observer.DebugObserver.LogMetric("reconciler", "dropped_spans", len(raw)-len(spans))
		finishStep = a.observer.DebugObserver.StartStep("registry", "plan", requestID)
	}
	plan, err := a.registry.Plan(text, spans)
	if finishStep != nil {
		finishStep(err == nil, fmt.Sprintf("%d replacements", len(plan)))
	}
	if err != nil {
		done(false, nil)
		return nil, err
	}
	out, err := redactors.Rewrite(text, plan)
	if err != nil {
		done(false, nil)
		return nil, err
	}

	done(true, map[string]interface{}{
		"raw_spans":    len(raw),
		"replacements": len(plan),
		"mode":         a.registry.Mode().String(),
	})
	return &Result{RequestID: requestID, Text: out, Spans: spans, Raw: len(raw)}, nil
}

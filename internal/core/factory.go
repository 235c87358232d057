// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"pii-anonymizer/internal/allowlist"
	"pii-anonymizer/internal/config"
	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/resilience"
	"pii-anonymizer/internal/validators/ner"
	"pii-anonymizer/internal/validators/pattern"
)

// BuildPatternRecognizers compiles the embedded recognizers, then the ones
// from recognizers.pattern_file, then recognizers.custom. Later layers
// replace earlier recognizers with the same name.
func BuildPatternRecognizers(cfg *config.Config) ([]*pattern.Recognizer, error) {
	var layers [][]pattern.RecognizerConfig

	if !cfg.Recognizers.DisableDefaults {
		defaults, err := pattern.DefaultConfigs()
		if err != nil {
			return nil, fmt.Errorf("loading default recognizers: %w", err)
		}
		layers = append(layers, defaults)
	}
	if cfg.Recognizers.PatternFile != "" {
		rf, err := pattern.LoadRecognizerFile(cfg.Recognizers.PatternFile)
		if err != nil {
			return nil, err
		}
		layers = append(layers, rf.Recognizers)
	}
	layers = append(layers, cfg.Recognizers.Custom)

	opts := []pattern.Option{
		pattern.WithLanguage(cfg.Language),
		pattern.WithMinScore(cfg.Recognizers.MinScore),
		pattern.WithContextWindowFactor(cfg.Recognizers.ContextWindowFactor),
		pattern.WithContextSimilarityFactor(cfg.Recognizers.ContextSimilarityFactor),
	}
	return pattern.FromConfigs(pattern.MergeRecognizers(layers...), opts...)
}

// BuildModelRecognizers creates an HTTP client for every enabled model.
func BuildModelRecognizers(cfg *config.Config, logger logrus.FieldLogger) ([]detector.Recognizer, error) {
	var out []detector.Recognizer
	for _, m := range cfg.Models {
		if !m.IsEnabled() {
			continue
		}
		timeout, err := m.RequestTimeout()
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.Name, err)
		}
		retry := resilience.DefaultRetryConfig()
		if m.Retries > 0 {
			retry.MaxRetries = m.Retries
		}
		out = append(out, ner.NewClient(m.Name, m.Endpoint,
			ner.WithHTTPClient(&http.Client{Timeout: timeout}),
			ner.WithRetry(retry),
			ner.WithLogger(logger),
		))
	}
	return out, nil
}

// BuildRecognizers returns the model recognizers followed by the pattern
// recognizers. The order is the order spans are reported in.
func BuildRecognizers(cfg *config.Config, logger logrus.FieldLogger) ([]detector.Recognizer, error) {
	models, err := BuildModelRecognizers(cfg, logger)
	if err != nil {
		return nil, err
	}
	patterns, err := BuildPatternRecognizers(cfg)
	if err != nil {
		return nil, err
	}
	out := models
	for _, p := range patterns {
		out = append(out, p)
	}
	return out, nil
}

// BuildAllowList loads allow_list.file, if set, and adds allow_list.values.
// It returns nil when nothing is allowed.
func BuildAllowList(cfg *config.Config) (*allowlist.Manager, error) {
	var m *allowlist.Manager
	if cfg.AllowList.File != "" {
		loaded, err := allowlist.Load(cfg.AllowList.File)
		if err != nil {
			return nil, err
		}
		m = loaded
	}
	if len(cfg.AllowList.Values) > 0 {
		inline := allowlist.FromValues(cfg.AllowList.Values)
		if m == nil {
			return inline, nil
		}
		m.Merge(inline)
	}
	return m, nil
}

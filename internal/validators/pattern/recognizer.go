// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pattern implements regex recognizers whose score is boosted when
// context words appear near a match.
package pattern

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"pii-anonymizer/internal/detector"
)

const (
	// DefaultMinScore drops matches that stay below it after context boosting.
	DefaultMinScore = 0.5
	// DefaultContextSimilarityFactor is added to the base score when a
	// context word is found near the match.
	DefaultContextSimilarityFactor = 0.35
	// DefaultLanguage selects which context words apply.
	DefaultLanguage = "fr"
)

type compiledPattern struct {
	name  string
	re    *regexp.Regexp
	score float64
}

// Recognizer matches a set of regexes for a single entity kind.
type Recognizer struct {
	name      string
	entity    detector.EntityKind
	patterns  []compiledPattern
	context   []string
	minScore  float64
	boost     float64
	language  string
	extractor *detector.ContextExtractor
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithMinScore sets the acceptance threshold.
func WithMinScore(score float64) Option {
	return func(r *Recognizer) { r.minScore = score }
}

// WithContextSimilarityFactor sets the boost applied when context is present.
func WithContextSimilarityFactor(boost float64) Option {
	return func(r *Recognizer) { r.boost = boost }
}

// WithContextWindowFactor sets the context window to factor characters per
// matched character.
func WithContextWindowFactor(factor int) Option {
	return func(r *Recognizer) {
		if factor > 0 {
			r.extractor.WithFactor(factor)
		}
	}
}

// WithLanguage selects the language whose context words are used.
func WithLanguage(lang string) Option {
	return func(r *Recognizer) { r.language = lang }
}

// New compiles a recognizer. Invalid regexes, scores and entity kinds are
// reported here rather than at match time.
func New(cfg RecognizerConfig, opts ...Option) (*Recognizer, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("recognizer without a name")
	}
	kind, err := detector.ParseEntityKind(cfg.SupportedEntity)
	if err != nil {
		return nil, fmt.Errorf("recognizer %q: %w", cfg.Name, err)
	}
	if len(cfg.Patterns) == 0 {
		return nil, fmt.Errorf("recognizer %q: no patterns", cfg.Name)
	}

	r := &Recognizer{
		name:      cfg.Name,
		entity:    kind,
		minScore:  DefaultMinScore,
		boost:     DefaultContextSimilarityFactor,
		language:  DefaultLanguage,
		extractor: detector.NewContextExtractor(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, p := range cfg.Patterns {
		if p.Score < 0 || p.Score > 1 {
			return nil, fmt.Errorf("recognizer %q pattern %q: score %.2f outside [0,1]", cfg.Name, p.Name, p.Score)
		}
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q in recognizer %q: %w", p.Name, cfg.Name, err)
		}
		r.patterns = append(r.patterns, compiledPattern{name: p.Name, re: re, score: p.Score})
	}
	for _, w := range cfg.ContextFor(r.language) {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			r.context = append(r.context, w)
		}
	}
	return r, nil
}

// FromConfigs compiles every enabled recognizer, failing on the first error.
func FromConfigs(cfgs []RecognizerConfig, opts ...Option) ([]*Recognizer, error) {
	var out []*Recognizer
	for _, cfg := range cfgs {
		if !cfg.IsEnabled() {
			continue
		}
		r, err := New(cfg, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Defaults compiles the embedded recognizers.
func Defaults(opts ...Option) ([]*Recognizer, error) {
	cfgs, err := DefaultConfigs()
	if err != nil {
		return nil, err
	}
	return FromConfigs(cfgs, opts...)
}

func (r *Recognizer) Name() string { return r.name }

// Entity returns the kind this recognizer reports.
func (r *Recognizer) Entity() detector.EntityKind { return r.entity }

// Recognize reports one span per regex match. If the pattern has a capturing
// group the span covers group 1 only.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]detector.Span, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	offsets := runeOffsets(text)
	runes := []rune(text)

	var spans []detector.Span
	for _, p := range r.patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if len(m) >= 4 && m[2] >= 0 {
				start, end = m[2], m[3]
			}
			if start == end {
				continue
			}
			score := r.score(runes, offsets[m[0]], offsets[m[1]], p.score)
			if score < r.minScore {
				continue
			}
			spans = append(spans, detector.Span{
				Start:      offsets[start],
				End:        offsets[end],
				EntityType: r.entity,
				Score:      score,
				Source:     r.name,
			})
		}
	}
	return spans, nil
}

// score applies the context boost for a match covering runes[start:end].
func (r *Recognizer) score(runes []rune, start, end int, base float64) float64 {
	if len(r.context) == 0 {
		return base
	}
	info := r.extractor.Extract(runes, start, end)
	before := strings.ToLower(info.BeforeText)
	after := strings.ToLower(info.AfterText)
	for _, w := range r.context {
		if strings.Contains(before, w) || strings.Contains(after, w) {
			return min(1.0, base+r.boost)
		}
	}
	return base
}

// runeOffsets maps every byte index of text (plus len(text)) to its
// character index. Indexes inside a multi-byte rune map to that rune.
func runeOffsets(text string) []int {
	offsets := make([]int, len(text)+1)
	n := 0
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		for j := 0; j < size; j++ {
			offsets[i+j] = n
		}
		i += size
		n++
	}
	offsets[len(text)] = n
	return offsets
}

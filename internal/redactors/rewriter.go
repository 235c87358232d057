// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"regexp"
	"strings"

	"pii-anonymizer/internal/detector"
)

// Replacement pairs a span with the text that replaces it.
type Replacement struct {
	Span       detector.Span
	Substitute string
}

// Plan is a list of replacements sorted by start, none overlapping.
type Plan []Replacement

// Validate checks ordering, disjointness and bounds against a text of
// textLen characters.
func (p Plan) Validate(textLen int) error {
	for i, r := range p {
		if err := r.Span.Validate(textLen); err != nil {
			return NewRedactionError(ErrorPlan, fmt.Sprintf("replacement %d", i), "rewriter", err)
		}
		if i > 0 && p[i-1].Span.End > r.Span.Start {
			return NewRedactionError(ErrorPlan,
				fmt.Sprintf("replacement %d %s overlaps or precedes %s", i, r.Span, p[i-1].Span), "rewriter", nil)
		}
	}
	return nil
}

// Apply substitutes every planned span. Replacements run from the last span
// to the first, so each one uses the offsets of the original text.
// The result is not normalized.
func Apply(text string, plan Plan) (string, error) {
	runes := []rune(text)
	if err := plan.Validate(len(runes)); err != nil {
		return "", err
	}
	for i := len(plan) - 1; i >= 0; i-- {
		r := plan[i]
		tail := append([]rune(r.Substitute), runes[r.Span.End:]...)
		runes = append(runes[:r.Span.Start], tail...)
	}
	return string(runes), nil
}

// Rewrite applies plan and normalizes the result.
func Rewrite(text string, plan Plan) (string, error) {
	out, err := Apply(text, plan)
	if err != nil {
		return "", err
	}
	return Normalize(out), nil
}

var (
	repeatedDots   = regexp.MustCompile(`\.{2,}`)
	repeatedCommas = regexp.MustCompile(`,{2,}`)
)

// Normalize tidies text after substitution: whitespace runs become a single
// space, spaces before "." and "," are removed, and runs of the same
// punctuation mark collapse to one. Normalize is idempotent.
func Normalize(text string) string {
	text = collapseSpaces(text)
	text = strings.ReplaceAll(text, " ,", ",")
	text = strings.ReplaceAll(text, " .", ".")
	text = collapseSpaces(text)
	text = repeatedDots.ReplaceAllString(text, ".")
	return repeatedCommas.ReplaceAllString(text, ",")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

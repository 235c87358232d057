// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Span is a candidate PII region reported by a recognizer.
//
// Start and End are half-open character (rune) offsets into the text the
// recognizer was given, never byte offsets.
type Span struct {
	Start      int        `json:"start"`
	End        int        `json:"end"`
	EntityType EntityKind `json:"entity_type"`
	Score      float64    `json:"score"`
	Source     string     `json:"source,omitempty"`
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether the two half-open ranges intersect.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Validate checks the span against a text of textLen characters.
func (s Span) Validate(textLen int) error {
	switch {
	case s.Start < 0:
		return fmt.Errorf("span %s: negative start %d", s.EntityType, s.Start)
	case s.Start >= s.End:
		return fmt.Errorf("span %s: empty or inverted range [%d,%d)", s.EntityType, s.Start, s.End)
	case s.End > textLen:
		return fmt.Errorf("span %s: end %d past text length %d", s.EntityType, s.End, textLen)
	case s.Score < 0 || s.Score > 1:
		return fmt.Errorf("span %s: score %.3f outside [0,1]", s.EntityType, s.Score)
	}
	return nil
}

func (s Span) String() string {
	return fmt.Sprintf("%s[%d,%d)@%.2f", s.EntityType, s.Start, s.End, s.Score)
}

// Recognizer is anything that can report PII spans over a text: regex
// pattern sets, statistical taggers behind an HTTP API, or plain functions.
type Recognizer interface {
	// Name identifies the recognizer in span provenance and logs.
	Name() string
	// Recognize returns the spans found in text. Implementations must not
	// retain or modify text.
	Recognize(ctx context.Context, text string) ([]Span, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc struct {
	ID string
	Fn func(ctx context.Context, text string) ([]Span, error)
}

func (f RecognizerFunc) Name() string { return f.ID }

func (f RecognizerFunc) Recognize(ctx context.Context, text string) ([]Span, error) {
	return f.Fn(ctx, text)
}

// TextLen returns the length of text in characters, the unit Span offsets use.
func TextLen(text string) int {
	return utf8.RuneCountInString(text)
}

// Slice returns the characters covered by span. Out-of-range spans yield "".
func Slice(text string, span Span) string {
	runes := []rune(text)
	if span.Validate(len(runes)) != nil {
		return ""
	}
	return string(runes[span.Start:span.End])
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

// ContextInfo holds the text surrounding a match.
type ContextInfo struct {
	BeforeText string
	AfterText  string
}

// ContextExtractor cuts a window of characters on either side of a match.
// The window grows with the match: Factor characters per matched character,
// but never less than MinChars.
type ContextExtractor struct {
	Factor   int
	MinChars int
}

// NewContextExtractor returns an extractor with the default window.
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{
		Factor:   5,
		MinChars: 10,
	}
}

// WithFactor sets the per-character window multiplier.
func (ce *ContextExtractor) WithFactor(factor int) *ContextExtractor {
	ce.Factor = factor
	return ce
}

// WithMinChars sets the minimum window size.
func (ce *ContextExtractor) WithMinChars(chars int) *ContextExtractor {
	ce.MinChars = chars
	return ce
}

// Window returns the window size for a match of matchLen characters.
func (ce *ContextExtractor) Window(matchLen int) int {
	return max(matchLen*ce.Factor, ce.MinChars)
}

// Extract returns the context around runes[start:end].
func (ce *ContextExtractor) Extract(runes []rune, start, end int) ContextInfo {
	w := ce.Window(end - start)
	from := max(0, start-w)
	to := min(len(runes), end+w)
	return ContextInfo{
		BeforeText: string(runes[from:start]),
		AfterText:  string(runes[end:to]),
	}
}

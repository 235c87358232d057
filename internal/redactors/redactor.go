// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package redactors decides what replaces each detected span and rewrites
// the text accordingly.
package redactors

import (
	"fmt"
	"strings"
)

// Strategy is how a single span is replaced.
type Strategy int

const (
	// StrategySuppress replaces the span with a fixed per-kind token.
	StrategySuppress Strategy = iota
	// StrategyFlag marks the span with its kind.
	StrategyFlag
	// StrategyPseudonym replaces the span with a generated look-alike value.
	StrategyPseudonym
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategySuppress:
		return "suppress"
	case StrategyFlag:
		return "flag"
	case StrategyPseudonym:
		return "pseudonym"
	default:
		return "unknown"
	}
}

// Mode selects the strategy for every kind at once.
type Mode int

const (
	// ModeSuppress suppresses every kind.
	ModeSuppress Mode = iota
	// ModeFlag flags every kind except AGE, which is always pseudonymized.
	ModeFlag
	// ModePseudonymize pseudonymizes the selected kinds and suppresses the rest.
	ModePseudonymize
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeSuppress:
		return "suppress"
	case ModeFlag:
		return "flag"
	case ModePseudonymize:
		return "pseudonymize-selected"
	default:
		return "unknown"
	}
}

// ParseMode converts a configured mode name. Unlike strategies, an unknown
// mode is an error rather than a silent fallback.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "suppress", "redact":
		return ModeSuppress, nil
	case "flag", "flag-only", "flag_only":
		return ModeFlag, nil
	case "pseudonymize", "pseudonymize-selected", "pseudonymize_selected":
		return ModePseudonymize, nil
	default:
		return ModeSuppress, NewRedactionError(ErrorConfiguration, fmt.Sprintf("unknown mode %q", s), "registry", nil)
	}
}

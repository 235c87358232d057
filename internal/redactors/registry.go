// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"

	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/redactors/replacement"
)

var suppressTokens = map[detector.EntityKind]string{
	detector.PhoneNumber:   " <ANONYM_PHONE>",
	detector.Person:        " <ANONYM_PER>",
	detector.Location:      " <ANONYM_LOC>",
	detector.Organization:  " <ANONYM_ORG>",
	detector.Age:           " <ANONYM_AGE>",
	detector.DateTime:      " <ANONYM_DATE_TIME>",
	detector.ID:            " <ANONYM_ID>",
	detector.EmailAddress:  " <ANONYM_EMAIL>",
	detector.URL:           " <ANONYM_URL>",
	detector.ZipCode:       " <ANONYM_ZIP>",
	detector.BankAccount:   " <ANONYM_BK_ACCOUNT>",
	detector.AddressNumber: " <ANONYM_ADS_NUM>",
}

const defaultSuppressToken = " <ANONYMIZED>"

// SuppressToken returns the fixed replacement for kind.
func SuppressToken(kind detector.EntityKind) string {
	if tok, ok := suppressTokens[kind]; ok {
		return tok
	}
	return defaultSuppressToken
}

// FlagToken marks a span with its kind.
func FlagToken(kind detector.EntityKind) string {
	return fmt.Sprintf(" <FLAG %s> ", kind)
}

// Registry maps each entity kind to its replacement strategy.
type Registry struct {
	mode       Mode
	selected   map[detector.EntityKind]struct{}
	generators *replacement.Generators
}

// NewRegistry validates the mode against the available generators.
// In ModePseudonymize every kind in pseudonymize must have a generator;
// ModeFlag needs one for AGE. generators may be nil in ModeSuppress.
func NewRegistry(mode Mode, pseudonymize []detector.EntityKind, generators *replacement.Generators) (*Registry, error) {
	r := &Registry{
		mode:       mode,
		selected:   make(map[detector.EntityKind]struct{}),
		generators: generators,
	}

	switch mode {
	case ModeSuppress:
	case ModeFlag:
		if generators == nil {
			return nil, NewRedactionError(ErrorConfiguration, "flag mode needs pseudonym generators for AGE", "registry", nil)
		}
	case ModePseudonymize:
		for _, k := range pseudonymize {
			if generators == nil || !generators.Supports(k) {
				return nil, NewRedactionError(ErrorConfiguration,
					fmt.Sprintf("cannot pseudonymize %s: no generator", k), "registry", nil)
			}
			r.selected[k] = struct{}{}
		}
	default:
		return nil, NewRedactionError(ErrorConfiguration, fmt.Sprintf("unknown mode %d", mode), "registry", nil)
	}
	return r, nil
}

// Mode returns the configured mode.
func (r *Registry) Mode() Mode { return r.mode }

// StrategyFor returns the strategy applied to kind.
func (r *Registry) StrategyFor(kind detector.EntityKind) Strategy {
	switch r.mode {
	case ModeFlag:
		if kind == detector.Age {
			return StrategyPseudonym
		}
		return StrategyFlag
	case ModePseudonymize:
		if _, ok := r.selected[kind]; ok {
			return StrategyPseudonym
		}
	}
	return StrategySuppress
}

// Substitute returns the text replacing original, a span of the given kind.
// Pseudonyms are padded with a space on each side; normalization removes
// the excess afterwards.
func (r *Registry) Substitute(kind detector.EntityKind, original string) (string, error) {
	switch r.StrategyFor(kind) {
	case StrategyFlag:
		return FlagToken(kind), nil
	case StrategyPseudonym:
		v, err := r.generators.Pseudonymize(kind, original)
		if err != nil {
			return "", NewRedactionError(ErrorGeneration, fmt.Sprintf("pseudonymizing %s", kind), "registry", err)
		}
		return " " + v + " ", nil
	default:
		return SuppressToken(kind), nil
	}
}

// Plan resolves a substitute for every span. spans must already be
// reconciled: sorted by start and disjoint.
func (r *Registry) Plan(text string, spans []detector.Span) (Plan, error) {
	runes := []rune(text)
	plan := make(Plan, 0, len(spans))
	for _, s := range spans {
		if err := s.Validate(len(runes)); err != nil {
			return nil, NewRedactionError(ErrorPlan, "invalid span", "registry", err)
		}
		sub, err := r.Substitute(s.EntityType, string(runes[s.Start:s.End]))
		if err != nil {
			return nil, err
		}
		plan = append(plan, Replacement{Span: s, Substitute: sub})
	}
	if err := plan.Validate(len(runes)); err != nil {
		return nil, err
	}
	return plan, nil
}

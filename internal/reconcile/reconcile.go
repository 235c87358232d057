// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package reconcile turns the overlapping spans of several recognizers into a
// disjoint set ordered by position.
package reconcile

import (
	"sort"

	"pii-anonymizer/internal/detector"
)

// Reconciler filters spans by entity kind and resolves overlaps.
type Reconciler struct {
	allowed map[detector.EntityKind]struct{}
}

// New creates a Reconciler accepting only the given kinds.
func New(whitelist []detector.EntityKind) *Reconciler {
	allowed := make(map[detector.EntityKind]struct{}, len(whitelist))
	for _, k := range whitelist {
		allowed[k] = struct{}{}
	}
	return &Reconciler{allowed: allowed}
}

// Reconcile filters then resolves. The result is sorted by Start and no two
// spans overlap.
func (r *Reconciler) Reconcile(spans []detector.Span) []detector.Span {
	return Resolve(r.Filter(spans))
}

// Filter drops spans whose kind is not whitelisted.
func (r *Reconciler) Filter(spans []detector.Span) []detector.Span {
	out := make([]detector.Span, 0, len(spans))
	for _, s := range spans {
		if _, ok := r.allowed[s.EntityType]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Resolve keeps a maximal set of non-overlapping spans, preferring higher
// score, then longer span, then earlier start. Ties beyond that keep input
// order. A losing span is discarded whole, never trimmed.
func Resolve(spans []detector.Span) []detector.Span {
	candidates := append([]detector.Span(nil), spans...)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		return a.Start < b.Start
	})

	// accepted stays sorted by Start so each check is a binary search.
	accepted := make([]detector.Span, 0, len(candidates))
	for _, c := range candidates {
		i := sort.Search(len(accepted), func(i int) bool { return accepted[i].Start >= c.Start })
		if i < len(accepted) && accepted[i].Overlaps(c) {
			continue
		}
		if i > 0 && accepted[i-1].Overlaps(c) {
			continue
		}
		accepted = append(accepted, detector.Span{})
		copy(accepted[i+1:], accepted[i:])
		accepted[i] = c
	}
	return accepted
}

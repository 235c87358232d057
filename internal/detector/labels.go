// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "strings"

// ModelEntity is one entity as reported by a statistical tagger, before its
// label is mapped onto an EntityKind. Offsets are in characters.
type ModelEntity struct {
	Label string
	Score float64
	Start int
	End   int
}

// Label sets used by the French and Swiss medical taggers.
var modelLabels = map[string]EntityKind{
	"PER":     Person,
	"PERSON":  Person,
	"PATIENT": Person,
	"STAFF":   Person,
	"LOC":     Location,
	"ORG":     Organization,
	"HOSP":    Organization,
	"PATORG":  Organization,
	"AGE":     Age,
	"ID":      ID,
	"EMAIL":   EmailAddress,
	"DATE":    DateTime,
	"PHONE":   PhoneNumber,
	"MISC":    Misc,
}

// MapModelLabel translates a tagger label to an EntityKind. IOB prefixes
// ("B-", "I-") are ignored; unknown labels pass through upper-cased.
func MapModelLabel(label string) EntityKind {
	l := strings.ToUpper(strings.TrimSpace(label))
	if len(l) > 2 && (l[:2] == "B-" || l[:2] == "I-") {
		l = l[2:]
	}
	if kind, ok := modelLabels[l]; ok {
		return kind
	}
	return EntityKind(l)
}

// FromModel converts tagger output to spans. Scores are clamped into [0,1].
func FromModel(entities []ModelEntity) []Span {
	spans := make([]Span, 0, len(entities))
	for _, e := range entities {
		score := e.Score
		if score < 0 {
			score = 0
		} else if score > 1 {
			score = 1
		}
		spans = append(spans, Span{
			Start:      e.Start,
			End:        e.End,
			EntityType: MapModelLabel(e.Label),
			Score:      score,
		})
	}
	return spans
}

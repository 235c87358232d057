// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanValidate(t *testing.T) {
	tests := []struct {
		name    string
		span    Span
		textLen int
		wantErr bool
	}{
		{"valid", Span{Start: 0, End: 3, EntityType: Person, Score: 0.5}, 3, false},
		{"negative start", Span{Start: -1, End: 3, Score: 0.5}, 5, true},
		{"empty", Span{Start: 2, End: 2, Score: 0.5}, 5, true},
		{"past end", Span{Start: 2, End: 6, Score: 0.5}, 5, true},
		{"score above one", Span{Start: 0, End: 1, Score: 1.2}, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.span.Validate(tt.textLen)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSpanOverlaps(t *testing.T) {
	a := Span{Start: 0, End: 10}
	assert.True(t, a.Overlaps(Span{Start: 2, End: 8}))
	assert.True(t, a.Overlaps(Span{Start: 9, End: 12}))
	assert.False(t, a.Overlaps(Span{Start: 10, End: 12}), "half-open ranges that touch do not overlap")
}

func TestSliceUsesCharacterOffsets(t *testing.T) {
	text := "Hélène à Genève"
	assert.Equal(t, 15, TextLen(text))
	assert.Equal(t, "Genève", Slice(text, Span{Start: 9, End: 15, Score: 1}))
	assert.Equal(t, "", Slice(text, Span{Start: 9, End: 40, Score: 1}))
}

func TestParseEntityKind(t *testing.T) {
	k, err := ParseEntityKind("ch_zipcode")
	require.NoError(t, err)
	assert.Equal(t, ZipCode, k)

	k, err = ParseEntityKind(" person ")
	require.NoError(t, err)
	assert.Equal(t, Person, k)

	_, err = ParseEntityKind("PASSPORT")
	assert.Error(t, err)

	_, err = ParseEntityKinds([]string{"PERSON", "NOPE"})
	assert.Error(t, err)
}

func TestMapModelLabel(t *testing.T) {
	tests := map[string]EntityKind{
		"PER":     Person,
		"PATIENT": Person,
		"STAFF":   Person,
		"B-LOC":   Location,
		"HOSP":    Organization,
		"PATORG":  Organization,
		"DATE":    DateTime,
		"PHONE":   PhoneNumber,
		"EMAIL":   EmailAddress,
		"misc":    Misc,
		"TITLE":   EntityKind("TITLE"),
	}
	for label, want := range tests {
		assert.Equal(t, want, MapModelLabel(label), label)
	}
}

func TestFromModelClampsScores(t *testing.T) {
	spans := FromModel([]ModelEntity{{Label: "PER", Score: 1.3, Start: 0, End: 4}})
	require.Len(t, spans, 1)
	assert.Equal(t, 1.0, spans[0].Score)
	assert.Equal(t, Person, spans[0].EntityType)
}

func TestContextExtractorWindow(t *testing.T) {
	ce := NewContextExtractor().WithFactor(2).WithMinChars(3)
	runes := []rune("le compte CH1234 chez nous")
	info := ce.Extract(runes, 10, 16)
	assert.Equal(t, "le compte ", info.BeforeText)
	assert.Equal(t, " chez nous", info.AfterText)
	assert.Equal(t, 3, ce.Window(1))
}

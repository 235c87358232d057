// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-anonymizer/internal/detector"
)

func rep(start, end int, sub string) Replacement {
	return Replacement{Span: detector.Span{Start: start, End: end, EntityType: detector.Person, Score: 1}, Substitute: sub}
}

func TestApplyKeepsUntouchedSegments(t *testing.T) {
	text := "Jean et Marie vont à Genève."
	plan := Plan{rep(0, 4, "<A>"), rep(8, 13, "<BB>"), rep(21, 27, "<CCC>")}

	out, err := Apply(text, plan)
	require.NoError(t, err)
	assert.Equal(t, "<A> et <BB> vont à <CCC>.", out)

	// Every untouched segment appears in order, and nothing else changed.
	var b strings.Builder
	prev := 0
	runes := []rune(text)
	for _, r := range plan {
		b.WriteString(string(runes[prev:r.Span.Start]))
		b.WriteString(r.Substitute)
		prev = r.Span.End
	}
	b.WriteString(string(runes[prev:]))
	assert.Equal(t, b.String(), out)
}

func TestApplySubstitutesOfDifferentLength(t *testing.T) {
	out, err := Apply("ab cd ef", Plan{rep(0, 2, "x"), rep(3, 5, "yyyyyy"), rep(6, 8, "")})
	require.NoError(t, err)
	assert.Equal(t, "x yyyyyy ", out)
}

func TestApplyRejectsBadPlans(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
	}{
		{"overlap", Plan{rep(0, 5, "a"), rep(3, 8, "b")}},
		{"unsorted", Plan{rep(6, 8, "a"), rep(0, 2, "b")}},
		{"out of range", Plan{rep(0, 50, "a")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply("0123456789", tt.plan)
			require.Error(t, err)
			assert.True(t, IsErrorType(err, ErrorPlan))
		})
	}
}

func TestApplyEmptyPlan(t *testing.T) {
	out, err := Apply("rien à cacher", nil)
	require.NoError(t, err)
	assert.Equal(t, "rien à cacher", out)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Mon compte est  <ANONYM_BK_ACCOUNT> chez  <ANONYM_ORG>.": "Mon compte est <ANONYM_BK_ACCOUNT> chez <ANONYM_ORG>.",
		"Bouchot  311 ,  4512 , Etoy":                             "Bouchot 311, 4512, Etoy",
		"fin ..":                                                  "fin.",
		"a ,, b":                                                  "a, b",
		"  ligne\n\tsuivante  ":                                   "ligne suivante",
		"a . , .":                                                 "a.,.",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", " ", "a , , b", " . .", "x ,. .", "a .. b ,, c", "<FLAG PERSON>  ,  ",
		"Il habite  Rue du Lac 3 ,  1000 , Lausanne ..", "..,,..", " , a",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestRewriteNormalizes(t *testing.T) {
	text := "Appelez M. Dupont."
	out, err := Rewrite(text, Plan{rep(11, 17, " <ANONYM_PER>")})
	require.NoError(t, err)
	assert.Equal(t, "Appelez M. <ANONYM_PER>.", out)
}

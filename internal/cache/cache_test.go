// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-anonymizer/internal/detector"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"M. Dupont":            "dupont",
		"  Mme   Marie Curie ":  "marie curie",
		"Dr Watson":            "watson",
		"Monsieur Jean Dupont": "jean dupont",
		"Marie":                "marie",
		"M.":                   "m.",
		"Prof. Piccard":        "piccard",
		"Mathilde Martin":      "mathilde martin",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestNormalizeComposesUnicode(t *testing.T) {
	decomposed := "Genève"
	assert.Equal(t, Normalize("Genève"), Normalize(decomposed))
}

func TestSplitTitleKeepsOriginalSpelling(t *testing.T) {
	title, rest := SplitTitle("MME  Dubois")
	assert.Equal(t, "MME", title)
	assert.Equal(t, "Dubois", rest)

	title, rest = SplitTitle("Martin")
	assert.Empty(t, title)
	assert.Equal(t, "Martin", rest)
}

func TestKeysIgnoreTitleAndCase(t *testing.T) {
	assert.Equal(t, NewKey("M. Dupont", detector.Person), NewKey("dupont", detector.Person))
	assert.NotEqual(t, NewKey("Dupont", detector.Person), NewKey("Dupont", detector.Organization))
}

func TestStoreFirstWriterWins(t *testing.T) {
	c := New()
	k := NewKey("UBS", detector.Organization)
	assert.Equal(t, "Favre Banque", c.Store(k, "Favre Banque"))
	assert.Equal(t, "Favre Banque", c.Store(k, "Rochat Banque"))

	v, ok := c.Lookup(k)
	require.True(t, ok)
	assert.Equal(t, "Favre Banque", v)
}

func TestGetOrCreateGeneratesOnce(t *testing.T) {
	c := New()
	k := NewKey("M. Dupont", detector.Person)
	var calls atomic.Int32

	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrCreate(k, func() (string, error) {
				n := calls.Add(1)
				return fmt.Sprintf("Nom%d", n), nil
			})
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}

func TestGetOrCreateErrorStoresNothing(t *testing.T) {
	c := New()
	k := NewKey("x", detector.ID)
	_, err := c.GetOrCreate(k, func() (string, error) { return "", errors.New("no entropy") })
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestReset(t *testing.T) {
	c := New()
	c.Store(NewKey("a", detector.ID), "b")
	require.Equal(t, 1, c.Len())
	c.Reset()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Lookup(NewKey("a", detector.ID))
	assert.False(t, ok)
}

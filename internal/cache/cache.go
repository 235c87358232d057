// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package cache keeps substitutes consistent: once a value of a given kind
// has been replaced, every later occurrence gets the same replacement.
package cache

import (
	"sync"

	"pii-anonymizer/internal/detector"
)

// Key identifies an entity value independently of casing, spacing and
// honorific.
type Key struct {
	Value string
	Kind  detector.EntityKind
}

// NewKey normalizes original into a Key.
func NewKey(original string, kind detector.EntityKind) Key {
	return Key{Value: Normalize(original), Kind: kind}
}

// Cache maps keys to substitutes. It never evicts; Reset clears it.
// A Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]string
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]string)}
}

// Lookup returns the stored substitute for key.
func (c *Cache) Lookup(key Key) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Store records substitute for key unless a value is already present, and
// returns whichever value the cache now holds.
func (c *Cache) Store(key Key, substitute string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return v
	}
	c.entries[key] = substitute
	return substitute
}

// GetOrCreate returns the cached substitute for key, calling generate to
// create it on a miss. The lookup, generation and store happen under one
// lock, so concurrent callers with the same key all see the same value.
// A generate error is returned and nothing is stored.
func (c *Cache) GetOrCreate(key Key, generate func() (string, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	v, err := generate()
	if err != nil {
		return "", err
	}
	c.entries[key] = v
	return v, nil
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]string)
}

// Len returns the number of stored substitutes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// French and English honorifics recognised in front of a name.
var titles = map[string]struct{}{
	"mr": {}, "mrs": {}, "dr": {}, "ms": {}, "miss": {}, "m": {}, "mme": {},
	"me": {}, "mlle": {}, "prof": {}, "monsieur": {}, "madame": {},
	"mademoiselle": {},
}

// IsTitle reports whether word, with or without a trailing dot, is an
// honorific. Case is ignored.
func IsTitle(word string) bool {
	w := strings.TrimSuffix(strings.ToLower(word), ".")
	_, ok := titles[w]
	return ok
}

// SplitTitle separates a leading honorific from the rest of s. The title is
// returned as written; rest is trimmed. Text that consists of a title alone
// is not split.
func SplitTitle(s string) (title, rest string) {
	s = strings.TrimSpace(s)
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return "", s
	}
	first := fields[0]
	// "M.Dupont" is not split; the title must be its own word.
	if !IsTitle(first) {
		return "", s
	}
	return first, strings.TrimSpace(strings.TrimPrefix(s, first))
}

// Normalize canonicalises an entity value for cache lookups: Unicode NFC,
// whitespace collapsed, leading honorific removed, lower-cased.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	_, s = SplitTitle(s)
	return strings.ToLower(s)
}

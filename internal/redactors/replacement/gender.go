// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package replacement

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Gender is the gender usually associated with a given name.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
	GenderAndy // used for both
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderAndy:
		return "andy"
	default:
		return "unknown"
	}
}

var genderByName = buildGenderTable()

func buildGenderTable() map[string]Gender {
	t := make(map[string]Gender)
	add := func(names []string, g Gender) {
		for _, n := range names {
			key := genderKey(n)
			if prev, ok := t[key]; ok && prev != g {
				t[key] = GenderAndy
				continue
			}
			t[key] = g
		}
	}
	add(maleFirstNames, GenderMale)
	add(femaleFirstNames, GenderFemale)
	add(unisexFirstNames, GenderAndy)
	// common names outside the generation tables
	add([]string{"Jean-Pierre", "Jean-Marc", "Paul", "Henri", "René", "Roger", "Marcel",
		"Georges", "Léon", "Noah", "Liam", "Mohamed", "Luca", "Matteo", "Leon", "Hans",
		"Peter", "Thomas", "John", "James", "Michael"}, GenderMale)
	add([]string{"Marie-Claire", "Anne-Marie", "Jeanne", "Denise", "Odette", "Yvonne",
		"Mia", "Lina", "Elena", "Sofia", "Anna", "Maria", "Ursula", "Mary", "Jennifer",
		"Elizabeth"}, GenderFemale)
	return t
}

func genderKey(name string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(name)))
}

// InferGender guesses the gender of the first given name in fullName.
// Compound names ("Jean-Luc") fall back to their first part.
func InferGender(fullName string) Gender {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return GenderUnknown
	}
	first := strings.Trim(fields[0], ".,;:")
	if g, ok := genderByName[genderKey(first)]; ok {
		return g
	}
	if i := strings.Index(first, "-"); i > 0 {
		if g, ok := genderByName[genderKey(first[:i])]; ok {
			return g
		}
	}
	return GenderUnknown
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"fmt"
	"sort"
	"strings"
)

// EntityKind names a class of PII. The set is open: model backends may emit
// labels outside the known kinds, which downstream code treats as Default.
type EntityKind string

const (
	Person        EntityKind = "PERSON"
	Location      EntityKind = "LOCATION"
	Organization  EntityKind = "ORGANIZATION"
	Age           EntityKind = "AGE"
	DateTime      EntityKind = "DATE_TIME"
	ID            EntityKind = "ID"
	EmailAddress  EntityKind = "EMAIL_ADDRESS"
	URL           EntityKind = "URL"
	ZipCode       EntityKind = "ZIP_CODE"
	BankAccount   EntityKind = "BANK_ACCOUNT"
	AddressNumber EntityKind = "ADDRESS_NUMBER"
	PhoneNumber   EntityKind = "PHONE_NUMBER"
	Misc          EntityKind = "MISC"
	Default       EntityKind = "DEFAULT"
)

var knownKinds = map[EntityKind]struct{}{
	Person: {}, Location: {}, Organization: {}, Age: {}, DateTime: {}, ID: {},
	EmailAddress: {}, URL: {}, ZipCode: {}, BankAccount: {}, AddressNumber: {},
	PhoneNumber: {}, Misc: {}, Default: {},
}

// aliases accepted in configuration files
var kindAliases = map[string]EntityKind{
	"CH_ZIPCODE": ZipCode,
	"ZIPCODE":    ZipCode,
	"EMAIL":      EmailAddress,
	"PHONE":      PhoneNumber,
	"DATE":       DateTime,
	"IBAN":       BankAccount,
}

// ParseEntityKind resolves a configured kind name. Unknown names are an error.
func ParseEntityKind(s string) (EntityKind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if alias, ok := kindAliases[name]; ok {
		return alias, nil
	}
	kind := EntityKind(name)
	if !kind.Known() {
		return "", fmt.Errorf("unknown entity kind %q", s)
	}
	return kind, nil
}

// ParseEntityKinds resolves a list of names, failing on the first unknown one.
func ParseEntityKinds(names []string) ([]EntityKind, error) {
	kinds := make([]EntityKind, 0, len(names))
	for _, n := range names {
		k, err := ParseEntityKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Known reports whether k is one of the predefined kinds.
func (k EntityKind) Known() bool {
	_, ok := knownKinds[k]
	return ok
}

func (k EntityKind) String() string { return string(k) }

// KnownKinds returns every predefined kind in lexical order.
func KnownKinds() []EntityKind {
	kinds := make([]EntityKind, 0, len(knownKinds))
	for k := range knownKinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

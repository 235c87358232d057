// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"bytes"
	"strings"
	"testing"

	"pii-anonymizer/internal/cache"
	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/redactors/replacement"
	"pii-anonymizer/internal/validators/pattern"
)

func catalog(t *testing.T) []EntityInfo {
	t.Helper()
	gens, err := replacement.New(cache.New(), replacement.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	cfgs, err := pattern.DefaultConfigs()
	if err != nil {
		t.Fatal(err)
	}
	return BuildCatalog(gens, cfgs, "fr")
}

func TestBuildCatalog(t *testing.T) {
	cat := catalog(t)

	for _, info := range cat {
		if info.Kind == detector.Default {
			t.Errorf("catalog should not list %s", detector.Default)
		}
	}

	bank, ok := Find(cat, "IBAN")
	if !ok {
		t.Fatal("IBAN alias should resolve to BANK_ACCOUNT")
	}
	if bank.SuppressToken != "<ANONYM_BK_ACCOUNT>" {
		t.Errorf("SuppressToken = %q", bank.SuppressToken)
	}
	if !bank.Pseudonym {
		t.Error("BANK_ACCOUNT should be pseudonymizable")
	}
	if len(bank.Recognizers) == 0 {
		t.Error("BANK_ACCOUNT should list its pattern recognizer")
	}

	misc, ok := Find(cat, "MISC")
	if !ok || misc.Pseudonym {
		t.Errorf("MISC = %+v, want listed without pseudonym", misc)
	}

	if _, ok := Find(cat, "NOPE"); ok {
		t.Error("unknown kind should not be found")
	}
}

func TestShowEntities(t *testing.T) {
	var buf bytes.Buffer
	NewSystem(&buf, true).ShowEntities(catalog(t))

	out := buf.String()
	for _, want := range []string{"PERSON", "<ANONYM_PER>", "ZIP_CODE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("colors should be disabled")
	}
}

func TestShowEntity(t *testing.T) {
	info, _ := Find(catalog(t), "PERSON")
	var buf bytes.Buffer
	NewSystem(&buf, true).ShowEntity(info)

	out := buf.String()
	if !strings.Contains(out, "<FLAG PERSON>") {
		t.Errorf("output missing flag token:\n%s", out)
	}
	if !strings.Contains(out, "consistent across documents") {
		t.Errorf("output missing pseudonym line:\n%s", out)
	}
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package allowlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pii-anonymizer/internal/detector"
)

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allow.yaml")
	if err := os.WriteFile(path, []byte("rules: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestAddAndIsAllowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allow.yaml")
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	rule, err := m.Add("ORGANIZATION", "Hôpital de Sion", "public institution", "tester", nil, false)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if rule.ID != "ALW-000001" {
		t.Errorf("ID = %q", rule.ID)
	}

	if ok, _ := m.IsAllowed(detector.Organization, "  hôpital   de Sion "); !ok {
		t.Error("normalized value should be allowed")
	}
	if ok, _ := m.IsAllowed(detector.Location, "Hôpital de Sion"); ok {
		t.Error("rule is restricted to ORGANIZATION")
	}

	if _, err := m.Add("ORGANIZATION", "hôpital de sion", "", "", nil, false); err == nil {
		t.Error("duplicate should be rejected")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := reloaded.IsAllowed(detector.Organization, "Hôpital de Sion"); !ok {
		t.Error("rule should survive a reload")
	}
}

func TestHashOnlyRule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allow.yaml")
	m, _ := Load(path)
	if _, err := m.Add("", "Jean Muster", "fictional", "", nil, true); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Muster") {
		t.Error("hash-only rule should not store the value")
	}
	if ok, _ := m.IsAllowed(detector.Person, "jean muster"); !ok {
		t.Error("hash-only rule should match any kind")
	}
}

func TestExpiredRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allow.yaml")
	m, _ := Load(path)
	past := time.Now().Add(-time.Hour)
	if _, err := m.Add("", "UBS", "", "", &past, false); err != nil {
		t.Fatal(err)
	}

	if ok, _ := m.IsAllowed(detector.Organization, "UBS"); ok {
		t.Error("expired rule should not apply")
	}
	removed, err := m.CleanupExpired()
	if err != nil || removed != 1 {
		t.Errorf("CleanupExpired() = %d, %v", removed, err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after cleanup", m.Len())
	}
}

func TestRemove(t *testing.T) {
	m, _ := Load(filepath.Join(t.TempDir(), "allow.yaml"))
	rule, _ := m.Add("", "Genève", "", "", nil, false)
	if err := m.Remove(rule.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove(rule.ID); err == nil {
		t.Error("removing twice should fail")
	}
}

func TestFilter(t *testing.T) {
	m := FromValues([]string{"Genève"})
	text := "Paul habite Genève."
	spans := []detector.Span{
		{Start: 0, End: 4, EntityType: detector.Person, Score: 0.9},
		{Start: 12, End: 18, EntityType: detector.Location, Score: 0.9},
	}

	got := m.Filter(text, spans)
	if len(got) != 1 || got[0].EntityType != detector.Person {
		t.Errorf("Filter() = %v", got)
	}

	var empty *Manager
	if len(empty.Filter(text, spans)) != 2 {
		t.Error("nil manager should keep every span")
	}
}

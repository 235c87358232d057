// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/redactors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "anonymizer.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfigOrDefault_NoFile(t *testing.T) {
	cfg := LoadConfigOrDefault("")
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Language != "fr" {
		t.Errorf("expected default language=fr, got %q", cfg.Language)
	}
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	cfg := LoadConfigOrDefault("/nonexistent/path/anonymizer.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
}

func TestLoadConfigOrDefault_InvalidYAML(t *testing.T) {
	cfg := LoadConfigOrDefault(writeConfig(t, ":::invalid yaml:::"))
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults on parse error)")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	mode, _ := cfg.ResolvedMode()
	if mode != redactors.ModeFlag {
		t.Errorf("expected flag mode by default, got %s", mode)
	}
	if len(cfg.ProcessColumns) != 1 || cfg.ProcessColumns[0] != 5 {
		t.Errorf("expected process_columns=[5], got %v", cfg.ProcessColumns)
	}
	kinds, _ := cfg.EntityKinds()
	if len(kinds) != len(DefaultEntities) {
		t.Errorf("expected %d entity kinds, got %d", len(DefaultEntities), len(kinds))
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
language: fr
entities: [PERSON, ORGANIZATION, CH_ZIPCODE]
mode: pseudonymize-selected
pseudonymize: [ORGANIZATION]
process_columns: [1, 3]
analysis:
  timeout: 10s
  degraded: true
models:
  - name: camembert
    endpoint: http://localhost:8001
    timeout: 5s
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kinds, _ := cfg.EntityKinds()
	if kinds[2] != detector.ZipCode {
		t.Errorf("expected CH_ZIPCODE to resolve to ZIP_CODE, got %s", kinds[2])
	}
	mode, _ := cfg.ResolvedMode()
	if mode != redactors.ModePseudonymize {
		t.Errorf("expected pseudonymize mode, got %s", mode)
	}
	if d, _ := cfg.AnalysisTimeout(); d != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", d)
	}
	if !cfg.Analysis.Degraded {
		t.Error("expected degraded analysis")
	}
	if cfg.Pseudonym.AgeMax != 90 {
		t.Errorf("unset fields should keep defaults, got age_max=%d", cfg.Pseudonym.AgeMax)
	}
	if cfg.GetProfile("research") == nil {
		t.Error("built-in profiles should survive loading a file")
	}
}

func TestLoadConfig_RejectsUnknownEntity(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "entities: [PERSON, PASSPORT]\n")); err == nil {
		t.Fatal("expected unknown entity kind to fail validation")
	}
}

func TestLoadConfig_RejectsBadSettings(t *testing.T) {
	tests := map[string]string{
		"mode":        "mode: encrypt\n",
		"age range":   "pseudonym:\n  age_min: 60\n  age_max: 20\n",
		"timeout":     "analysis:\n  timeout: soon\n",
		"model":       "models:\n  - name: x\n",
		"column":      "process_columns: [-1]\n",
		"min score":   "recognizers:\n  min_score: 2\n",
		"observation": "logging:\n  observability: verbose\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, content)); err == nil {
				t.Errorf("expected validation error for %s", name)
			}
		})
	}
}

func TestFlagOnlyFalseMeansSuppress(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "flag_only: false\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode, _ := cfg.ResolvedMode(); mode != redactors.ModeSuppress {
		t.Errorf("expected suppress, got %s", mode)
	}
}

func TestApplyProfile(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyProfile("research"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode, _ := cfg.ResolvedMode(); mode != redactors.ModePseudonymize {
		t.Errorf("expected pseudonymize mode, got %s", mode)
	}
	if len(cfg.Pseudonymize) == 0 {
		t.Error("expected research profile to select kinds")
	}
	if !slices.Contains(cfg.Entities, "AGE") {
		t.Errorf("expected research profile to whitelist AGE, got %v", cfg.Entities)
	}
	if err := cfg.ApplyProfile("missing"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"pii-anonymizer/internal/config"
	"pii-anonymizer/internal/validators/pattern"
)

func recognizerNames(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	recs, err := BuildRecognizers(cfg, logrus.New())
	if err != nil {
		t.Fatalf("BuildRecognizers() error = %v", err)
	}
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name()
	}
	return names
}

func TestBuildRecognizersDefaults(t *testing.T) {
	names := recognizerNames(t, config.Default())
	if len(names) != 3 {
		t.Fatalf("got %d recognizers (%v), want 3", len(names), names)
	}
}

func TestBuildRecognizersModelsFirst(t *testing.T) {
	cfg := config.Default()
	disabled := false
	cfg.Models = []config.ModelConfig{
		{Name: "camembert", Endpoint: "http://localhost:8000"},
		{Name: "off", Endpoint: "http://localhost:8001", Enabled: &disabled},
	}

	names := recognizerNames(t, cfg)
	if len(names) != 4 {
		t.Fatalf("got %v, want one model and three patterns", names)
	}
	if names[0] != "camembert" {
		t.Errorf("first recognizer = %q, want camembert", names[0])
	}
}

func TestBuildRecognizersLayers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "recognizers.yaml")
	yaml := `recognizers:
  - name: avs_number
    supported_entity: ID
    patterns:
      - name: avs
        regex: '756\.\d{4}\.\d{4}\.\d{2}'
        score: 0.8
`
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Recognizers.PatternFile = file
	cfg.Recognizers.DisableDefaults = true
	cfg.Recognizers.Custom = []pattern.RecognizerConfig{{
		Name:            "ticket",
		SupportedEntity: "ID",
		Patterns:        []pattern.PatternConfig{{Name: "ticket", Regex: `TCK-\d+`, Score: 0.7}},
	}}

	names := recognizerNames(t, cfg)
	want := []string{"avs_number", "ticket"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestBuildRecognizersBadPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Recognizers.Custom = []pattern.RecognizerConfig{{
		Name:            "broken",
		SupportedEntity: "ID",
		Patterns:        []pattern.PatternConfig{{Name: "b", Regex: `(`, Score: 0.7}},
	}}
	if _, err := BuildRecognizers(cfg, logrus.New()); err == nil {
		t.Fatal("expected an error for an invalid regex")
	}
}

func TestBuildRecognizersMissingPatternFile(t *testing.T) {
	cfg := config.Default()
	cfg.Recognizers.PatternFile = filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := BuildRecognizers(cfg, logrus.New()); err == nil {
		t.Fatal("expected an error for a missing pattern file")
	}
}

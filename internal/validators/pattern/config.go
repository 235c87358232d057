// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pattern

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pii-anonymizer/patterns"
)

// RecognizerFile is the top-level layout of a recognizer YAML file. It follows
// the Presidio registry format so existing definitions can be reused.
type RecognizerFile struct {
	Recognizers []RecognizerConfig `yaml:"recognizers"`
}

// RecognizerConfig describes one pattern recognizer.
type RecognizerConfig struct {
	Name               string            `yaml:"name"`
	SupportedEntity    string            `yaml:"supported_entity"`
	Enabled            *bool             `yaml:"enabled,omitempty"`
	Patterns           []PatternConfig   `yaml:"patterns"`
	SupportedLanguages []LanguageContext `yaml:"supported_languages,omitempty"`
	Context            []string          `yaml:"context,omitempty"`
}

// PatternConfig is a single regex with its base score.
type PatternConfig struct {
	Name  string  `yaml:"name"`
	Regex string  `yaml:"regex"`
	Score float64 `yaml:"score"`
}

// LanguageContext holds context words for one language.
type LanguageContext struct {
	Language string   `yaml:"language"`
	Context  []string `yaml:"context,omitempty"`
}

// IsEnabled defaults to true when the field is omitted.
func (rc *RecognizerConfig) IsEnabled() bool {
	return rc.Enabled == nil || *rc.Enabled
}

// ContextFor returns the context words for language. Top-level context words
// always apply; when no language section matches, every section is used.
func (rc *RecognizerConfig) ContextFor(language string) []string {
	words := append([]string(nil), rc.Context...)
	matched := false
	for _, lc := range rc.SupportedLanguages {
		if lc.Language == language {
			words = append(words, lc.Context...)
			matched = true
		}
	}
	if !matched {
		for _, lc := range rc.SupportedLanguages {
			words = append(words, lc.Context...)
		}
	}
	return words
}

// ParseRecognizerFile parses recognizer YAML.
func ParseRecognizerFile(data []byte) (*RecognizerFile, error) {
	var rf RecognizerFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing recognizer YAML: %w", err)
	}
	return &rf, nil
}

// LoadRecognizerFile reads and parses a recognizer YAML file from disk.
func LoadRecognizerFile(path string) (*RecognizerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recognizer file %s: %w", path, err)
	}
	return ParseRecognizerFile(data)
}

// DefaultConfigs returns the embedded bank account, zip code and street
// number recognizers.
func DefaultConfigs() ([]RecognizerConfig, error) {
	rf, err := ParseRecognizerFile(patterns.RecognizersYAML())
	if err != nil {
		return nil, err
	}
	return rf.Recognizers, nil
}

// MergeRecognizers layers recognizer lists. A later entry replaces an earlier
// one with the same name; new names are appended.
func MergeRecognizers(layers ...[]RecognizerConfig) []RecognizerConfig {
	index := make(map[string]int)
	var merged []RecognizerConfig
	for _, layer := range layers {
		for _, rc := range layer {
			if idx, ok := index[rc.Name]; ok {
				merged[idx] = rc
				continue
			}
			index[rc.Name] = len(merged)
			merged = append(merged, rc)
		}
	}
	return merged
}

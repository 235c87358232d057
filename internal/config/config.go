// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pii-anonymizer/internal/detector"
	"pii-anonymizer/internal/redactors"
	"pii-anonymizer/internal/validators/pattern"
)

// Config represents the application configuration
type Config struct {
	// Language selects the context words used by pattern recognizers.
	Language string `yaml:"language"`

	// Entities is the whitelist of kinds that get rewritten.
	Entities []string `yaml:"entities"`

	// Mode is suppress, flag or pseudonymize-selected. When empty, FlagOnly
	// picks between flag and suppress.
	Mode     string `yaml:"mode"`
	FlagOnly bool   `yaml:"flag_only"`

	// Pseudonymize lists the kinds replaced by generated values in
	// pseudonymize-selected mode.
	Pseudonymize []string `yaml:"pseudonymize"`

	// ProcessColumns are the 0-based CSV columns to anonymize.
	ProcessColumns []int `yaml:"process_columns"`

	Recognizers RecognizersConfig `yaml:"recognizers"`
	Models      []ModelConfig     `yaml:"models"`
	Pseudonym   PseudonymConfig   `yaml:"pseudonym"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	AllowList   AllowListConfig   `yaml:"allow_list"`
	Logging     LoggingConfig     `yaml:"logging"`

	// Profiles for different anonymization scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// RecognizersConfig configures the regex recognizers.
type RecognizersConfig struct {
	PatternFile             string                     `yaml:"pattern_file"`
	DisableDefaults         bool                       `yaml:"disable_defaults"`
	MinScore                float64                    `yaml:"min_score"`
	ContextWindowFactor     int                        `yaml:"context_window_factor"`
	ContextSimilarityFactor float64                    `yaml:"context_similarity_factor"`
	Custom                  []pattern.RecognizerConfig `yaml:"custom"`
}

// ModelConfig points at a model sidecar serving /classify.
type ModelConfig struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
	Retries  int    `yaml:"retries"`
	Enabled  *bool  `yaml:"enabled,omitempty"`
}

// IsEnabled defaults to true when the field is omitted.
func (m ModelConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// RequestTimeout parses Timeout, defaulting to 30s.
func (m ModelConfig) RequestTimeout() (time.Duration, error) {
	if m.Timeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(m.Timeout)
}

// PseudonymConfig tunes the pseudonym generators.
type PseudonymConfig struct {
	AgeMin   int   `yaml:"age_min"`
	AgeMax   int   `yaml:"age_max"`
	IDLength int   `yaml:"id_length"`
	Seed     int64 `yaml:"seed"`
}

// AnalysisConfig controls how recognizers are run.
type AnalysisConfig struct {
	Timeout  string `yaml:"timeout"`
	Degraded bool   `yaml:"degraded"`
	Workers  int    `yaml:"workers"`
}

// AllowListConfig lists values that are never anonymized.
type AllowListConfig struct {
	File   string   `yaml:"file"`
	Values []string `yaml:"values"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"`
	Observability string `yaml:"observability"`
}

// Profile overrides the top-level selection settings.
type Profile struct {
	Description  string   `yaml:"description"`
	Mode         string   `yaml:"mode"`
	Entities     []string `yaml:"entities"`
	Pseudonymize []string `yaml:"pseudonymize"`
}

// DefaultEntities is the whitelist used when none is configured.
var DefaultEntities = []string{
	"PERSON", "LOCATION", "ADDRESS_NUMBER", "DATE_TIME", "BANK_ACCOUNT", "ZIP_CODE",
	"ORGANIZATION", "EMAIL_ADDRESS", "PHONE_NUMBER", "ID", "MISC", "URL",
}

// Default returns the built-in configuration.
func Default() *Config {
	config := &Config{
		Language:       pattern.DefaultLanguage,
		Entities:       append([]string(nil), DefaultEntities...),
		FlagOnly:       true,
		Pseudonymize:   []string{},
		ProcessColumns: []int{5},
		Profiles:       make(map[string]Profile),
	}
	config.Recognizers.MinScore = pattern.DefaultMinScore
	config.Recognizers.ContextWindowFactor = 5
	config.Recognizers.ContextSimilarityFactor = pattern.DefaultContextSimilarityFactor
	config.Pseudonym.AgeMin = 18
	config.Pseudonym.AgeMax = 90
	config.Pseudonym.IDLength = 10
	config.Analysis.Timeout = "2m"
	config.Analysis.Workers = 4
	config.Logging.Level = "info"
	config.Logging.Format = "text"
	config.Logging.Observability = "metrics"

	// AGE is not in the default whitelist; the profiles that replace ages
	// must select it explicitly.
	withAge := append(append([]string(nil), DefaultEntities...), "AGE")
	config.Profiles["review"] = Profile{
		Description: "Flag every entity for manual review; nothing is replaced except ages",
		Mode:        "flag",
		Entities:    withAge,
	}
	config.Profiles["research"] = Profile{
		Description:  "Realistic pseudonyms for names, places and organizations, tokens for the rest",
		Mode:         "pseudonymize-selected",
		Entities:     withAge,
		Pseudonymize: []string{"PERSON", "LOCATION", "ORGANIZATION", "AGE", "DATE_TIME", "ZIP_CODE", "ADDRESS_NUMBER"},
	}
	return config
}

// LoadConfig loads configuration from the specified file path. An empty
// path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Profiles from the file are merged over the built-in ones.
	builtin := config.Profiles
	config.Profiles = nil
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	for name, p := range builtin {
		if config.Profiles == nil {
			config.Profiles = make(map[string]Profile)
		}
		if _, ok := config.Profiles[name]; !ok {
			config.Profiles[name] = p
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadConfigOrDefault loads the configuration from a file or returns the
// defaults when the file is missing or invalid.
func LoadConfigOrDefault(configFile string) *Config {
	config, err := LoadConfig(configFile)
	if err != nil {
		return Default()
	}
	return config
}

// Validate checks every setting that would otherwise fail later.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Language) == "" {
		errs = append(errs, errors.New("language must not be empty"))
	}
	if _, err := c.EntityKinds(); err != nil {
		errs = append(errs, fmt.Errorf("entities: %w", err))
	}
	if _, err := c.PseudonymizeKinds(); err != nil {
		errs = append(errs, fmt.Errorf("pseudonymize: %w", err))
	}
	if _, err := c.ResolvedMode(); err != nil {
		errs = append(errs, err)
	}
	for _, col := range c.ProcessColumns {
		if col < 0 {
			errs = append(errs, fmt.Errorf("process_columns: negative column %d", col))
		}
	}
	if c.Recognizers.MinScore < 0 || c.Recognizers.MinScore > 1 {
		errs = append(errs, fmt.Errorf("recognizers.min_score %.2f outside [0,1]", c.Recognizers.MinScore))
	}
	if c.Pseudonym.AgeMin < 0 || c.Pseudonym.AgeMin > c.Pseudonym.AgeMax {
		errs = append(errs, fmt.Errorf("pseudonym age range [%d,%d] is invalid", c.Pseudonym.AgeMin, c.Pseudonym.AgeMax))
	}
	if c.Pseudonym.IDLength <= 0 {
		errs = append(errs, fmt.Errorf("pseudonym.id_length must be positive"))
	}
	if _, err := c.AnalysisTimeout(); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]bool)
	for i, m := range c.Models {
		if m.Name == "" || m.Endpoint == "" {
			errs = append(errs, fmt.Errorf("models[%d]: name and endpoint are required", i))
		}
		if seen[m.Name] {
			errs = append(errs, fmt.Errorf("models[%d]: duplicate name %q", i, m.Name))
		}
		seen[m.Name] = true
		if _, err := m.RequestTimeout(); err != nil {
			errs = append(errs, fmt.Errorf("models[%d].timeout: %w", i, err))
		}
	}
	switch strings.ToLower(c.Logging.Observability) {
	case "", "off", "metrics", "debug":
	default:
		errs = append(errs, fmt.Errorf("logging.observability %q must be off, metrics or debug", c.Logging.Observability))
	}

	return errors.Join(errs...)
}

// EntityKinds resolves the entity whitelist.
func (c *Config) EntityKinds() ([]detector.EntityKind, error) {
	return detector.ParseEntityKinds(c.Entities)
}

// PseudonymizeKinds resolves the kinds selected for pseudonymization.
func (c *Config) PseudonymizeKinds() ([]detector.EntityKind, error) {
	return detector.ParseEntityKinds(c.Pseudonymize)
}

// ResolvedMode returns the configured mode, falling back on FlagOnly.
func (c *Config) ResolvedMode() (redactors.Mode, error) {
	if strings.TrimSpace(c.Mode) == "" {
		if c.FlagOnly {
			return redactors.ModeFlag, nil
		}
		return redactors.ModeSuppress, nil
	}
	return redactors.ParseMode(c.Mode)
}

// AnalysisTimeout parses Analysis.Timeout. Empty means no timeout.
func (c *Config) AnalysisTimeout() (time.Duration, error) {
	if c.Analysis.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Analysis.Timeout)
	if err != nil {
		return 0, fmt.Errorf("analysis.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("analysis.timeout must not be negative")
	}
	return d, nil
}

// ApplyProfile overrides mode, entities and pseudonymize with the named
// profile's non-empty fields.
func (c *Config) ApplyProfile(name string) error {
	p := c.GetProfile(name)
	if p == nil {
		return fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(c.ListProfiles(), ", "))
	}
	if p.Mode != "" {
		c.Mode = p.Mode
	}
	if len(p.Entities) > 0 {
		c.Entities = append([]string(nil), p.Entities...)
	}
	if len(p.Pseudonymize) > 0 {
		c.Pseudonymize = append([]string(nil), p.Pseudonymize...)
	}
	return c.Validate()
}

// ListProfiles returns the available profile names, sorted.
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// FindConfigFile looks for a configuration file in the working directory,
// then in the XDG config directory.
func FindConfigFile() string {
	for _, name := range []string{"anonymizer.yaml", "anonymizer.yml", ".anonymizer.yaml", ".anonymizer.yml"} {
		if fileExists(name) {
			return name
		}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		if path := filepath.Join(xdgConfig, "pii-anonymizer", name); fileExists(path) {
			return path
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

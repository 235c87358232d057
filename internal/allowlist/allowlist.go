// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package allowlist keeps values that must never be anonymized, such as
// public institutions or the author's own organization.
package allowlist

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"pii-anonymizer/internal/cache"
	"pii-anonymizer/internal/detector"
)

// DefaultFile is used when no path is configured.
const DefaultFile = ".anonymizer-allow.yaml"

// Rule allows one value. Either Value or Hash is set; Hash lets the file be
// shared without revealing the value. An empty EntityType matches any kind.
type Rule struct {
	ID         string     `yaml:"id"`
	Value      string     `yaml:"value,omitempty"`
	Hash       string     `yaml:"hash,omitempty"`
	EntityType string     `yaml:"entity_type,omitempty"`
	Reason     string     `yaml:"reason"`
	Enabled    bool       `yaml:"enabled"`
	CreatedBy  string     `yaml:"created_by,omitempty"`
	CreatedAt  time.Time  `yaml:"created_at"`
	ExpiresAt  *time.Time `yaml:"expires_at,omitempty"`
}

// File is the on-disk layout.
type File struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Manager loads, queries and edits an allow-list file. It is safe for
// concurrent use.
type Manager struct {
	mu   sync.RWMutex
	path string
	file File
	now  func() time.Time
}

// Load reads path. A missing file yields an empty list; a malformed one is
// an error.
func Load(path string) (*Manager, error) {
	if path == "" {
		path = DefaultFile
	}
	m := &Manager{path: path, file: File{Version: "1.0"}, now: time.Now}

	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading allow list: %w", err)
	}
	if err := yaml.Unmarshal(data, &m.file); err != nil {
		return nil, fmt.Errorf("parsing allow list %s: %w", path, err)
	}
	return m, nil
}

// FromValues builds an in-memory list allowing values for any kind.
func FromValues(values []string) *Manager {
	m := &Manager{file: File{Version: "1.0"}, now: time.Now}
	for i, v := range values {
		m.file.Rules = append(m.file.Rules, Rule{ID: fmt.Sprintf("inline-%d", i+1), Value: v, Enabled: true})
	}
	return m
}

// Merge appends the rules of other.
func (m *Manager) Merge(other *Manager) {
	if other == nil {
		return
	}
	other.mu.RLock()
	rules := append([]Rule(nil), other.file.Rules...)
	other.mu.RUnlock()

	m.mu.Lock()
	m.file.Rules = append(m.file.Rules, rules...)
	m.mu.Unlock()
}

// Path returns the file the list is saved to.
func (m *Manager) Path() string { return m.path }

// HashValue hashes the normalized form of value.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(cache.Normalize(value)))
	return fmt.Sprintf("%x", sum)
}

func (r *Rule) active(now time.Time) bool {
	return r.Enabled && (r.ExpiresAt == nil || now.Before(*r.ExpiresAt))
}

func (r *Rule) matches(kind detector.EntityKind, normalized, hash string) bool {
	if r.EntityType != "" {
		k, err := detector.ParseEntityKind(r.EntityType)
		if err != nil || k != kind {
			return false
		}
	}
	if r.Value != "" {
		return cache.Normalize(r.Value) == normalized
	}
	return r.Hash != "" && r.Hash == hash
}

// IsAllowed reports whether value of the given kind must be left as is.
func (m *Manager) IsAllowed(kind detector.EntityKind, value string) (bool, *Rule) {
	normalized := cache.Normalize(value)
	hash := HashValue(value)
	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.file.Rules {
		rule := &m.file.Rules[i]
		if rule.active(now) && rule.matches(kind, normalized, hash) {
			r := *rule
			return true, &r
		}
	}
	return false, nil
}

// Filter drops the spans of text that the list allows.
func (m *Manager) Filter(text string, spans []detector.Span) []detector.Span {
	if m == nil || m.Len() == 0 {
		return spans
	}
	out := make([]detector.Span, 0, len(spans))
	for _, s := range spans {
		if ok, _ := m.IsAllowed(s.EntityType, detector.Slice(text, s)); ok {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Len returns the number of rules, active or not.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.file.Rules)
}

// Add allows value and saves the file. With hashOnly the value itself is
// not written.
func (m *Manager) Add(kind, value, reason, createdBy string, expiresAt *time.Time, hashOnly bool) (*Rule, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("empty value")
	}
	if kind != "" {
		k, err := detector.ParseEntityKind(kind)
		if err != nil {
			return nil, err
		}
		kind = string(k)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	hash := HashValue(value)
	maxID := 0
	for _, existing := range m.file.Rules {
		if existing.EntityType == kind && (existing.Hash == hash || (existing.Value != "" && HashValue(existing.Value) == hash)) {
			return nil, fmt.Errorf("value is already allowed by %s", existing.ID)
		}
		var num int
		if _, err := fmt.Sscanf(existing.ID, "ALW-%06d", &num); err == nil && num > maxID {
			maxID = num
		}
	}

	rule := Rule{
		ID:         fmt.Sprintf("ALW-%06d", maxID+1),
		EntityType: kind,
		Reason:     reason,
		Enabled:    true,
		CreatedBy:  createdBy,
		CreatedAt:  m.now().UTC(),
		ExpiresAt:  expiresAt,
	}
	if hashOnly {
		rule.Hash = hash
	} else {
		rule.Value = value
	}
	m.file.Rules = append(m.file.Rules, rule)
	if err := m.save(); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Remove deletes a rule by ID and saves the file.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rule := range m.file.Rules {
		if rule.ID == id {
			m.file.Rules = append(m.file.Rules[:i], m.file.Rules[i+1:]...)
			return m.save()
		}
	}
	return fmt.Errorf("allow rule %s not found", id)
}

// List returns a copy of the rules.
func (m *Manager) List() []Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Rule(nil), m.file.Rules...)
}

// CleanupExpired removes expired rules, saving the file if any were removed.
func (m *Manager) CleanupExpired() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var kept []Rule
	for _, rule := range m.file.Rules {
		if rule.ExpiresAt == nil || now.Before(*rule.ExpiresAt) {
			kept = append(kept, rule)
		}
	}
	removed := len(m.file.Rules) - len(kept)
	m.file.Rules = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, m.save()
}

func (m *Manager) save() error {
	if m.path == "" {
		return fmt.Errorf("allow list has no file")
	}
	data, err := yaml.Marshal(&m.file)
	if err != nil {
		return fmt.Errorf("failed to marshal allow list: %w", err)
	}
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write allow list: %w", err)
	}
	return nil
}

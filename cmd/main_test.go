// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTextCommandSuppress(t *testing.T) {
	out, err := run(t, "", "--mode", "suppress", "text", "Mon compte est CH756625551233.")
	require.NoError(t, err)
	assert.Equal(t, "Mon compte est <ANONYM_BK_ACCOUNT>.\n", out)
}

func TestTextCommandStdin(t *testing.T) {
	out, err := run(t, "Mon compte est CH756625551233.", "text")
	require.NoError(t, err)
	assert.Equal(t, "Mon compte est <FLAG BANK_ACCOUNT>.\n", out)
}

func TestTextCommandEntityFilter(t *testing.T) {
	out, err := run(t, "", "--mode", "suppress", "--entities", "PERSON", "text", "Mon compte est CH756625551233.")
	require.NoError(t, err)
	assert.Equal(t, "Mon compte est CH756625551233.\n", out)
}

func TestInvalidModeFails(t *testing.T) {
	_, err := run(t, "", "--mode", "encrypt", "text", "x")
	assert.Error(t, err)
}

func TestAnalyzeCommandHidesMatches(t *testing.T) {
	out, err := run(t, "", "analyze", "Mon compte est CH756625551233.")
	require.NoError(t, err)
	assert.Contains(t, out, "BANK_ACCOUNT")
	assert.Contains(t, out, "[HIDDEN]")
	assert.NotContains(t, out, "CH756625551233")
}

func TestAnalyzeCommandJSON(t *testing.T) {
	out, err := run(t, "", "analyze", "--json", "--show-match", "Mon compte est CH756625551233.")
	require.NoError(t, err)
	assert.Contains(t, out, `"entity_type": "BANK_ACCOUNT"`)
	assert.Contains(t, out, `"text": "CH756625551233"`)
}

func TestFileCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,compte\n1,CH756625551233\n"), 0o600))

	out, err := run(t, "", "--mode", "suppress", "file", "--columns", "1", path)
	require.NoError(t, err)
	assert.Contains(t, out, "rows_anonymized.csv")

	got, err := os.ReadFile(filepath.Join(dir, "rows_anonymized.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,compte\n1,<ANONYM_BK_ACCOUNT>\n", string(got))
}

func TestFileCommandReportsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0o600))

	_, err := run(t, "", "file", path)
	assert.ErrorContains(t, err, "1 of 1 files failed")
}

func TestEntitiesCommand(t *testing.T) {
	out, err := run(t, "", "entities", "zip")
	require.Error(t, err)
	assert.Empty(t, out)

	out, err = run(t, "", "entities", "CH_ZIPCODE")
	require.NoError(t, err)
	assert.Contains(t, out, "ZIP_CODE")
	assert.Contains(t, out, "<ANONYM_ZIP>")
}

func TestProfilesCommand(t *testing.T) {
	out, err := run(t, "", "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "research")
	assert.Contains(t, out, "review")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pii-anonymizer "))
}

func TestAllowCommands(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	exec := func(args ...string) string {
		t.Helper()
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"--no-color"}, args...))
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		return out.String()
	}

	assert.Contains(t, exec("allow", "add", "--entity", "BANK_ACCOUNT", "CH756625551233"), "ALW-000001")
	assert.Contains(t, exec("allow", "list"), "CH756625551233")

	cfg := "allow_list:\n  file: .anonymizer-allow.yaml\nmode: suppress\n"
	require.NoError(t, os.WriteFile("anonymizer.yaml", []byte(cfg), 0o600))
	assert.Equal(t, "Mon compte est CH756625551233.\n", exec("text", "Mon compte est CH756625551233."))

	exec("allow", "remove", "ALW-000001")
	assert.NotContains(t, exec("allow", "list"), "ALW-000001")
}

package conformance_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japonophile/mm/internal/conformance"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ok.yaml", `
name: minimal_proof
description: "a trivial provable verifies"
source: ok.mm
expect_statuses:
  th1: verified
`)

	s, err := conformance.LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal_proof", s.Name)
	assert.Equal(t, "ok.mm", s.Source)
	assert.Equal(t, "verified", s.ExpectStatuses["th1"])
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := conformance.LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
}

func TestLoadScenario_MissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", `
source: ok.mm
`)
	_, err := conformance.LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name")
}

func TestLoadScenario_MissingSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", `
name: no_source
`)
	_, err := conformance.LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing source")
}

func TestLoadScenario_ExpectParseError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad_comment.yaml", `
name: nested_comment
source: bad.mm
expect_parse_error:
  code: E201
`)
	s, err := conformance.LoadScenario(path)
	require.NoError(t, err)
	require.NotNil(t, s.ExpectParseError)
	assert.Equal(t, "E201", s.ExpectParseError.Code)
}

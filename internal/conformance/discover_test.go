package conformance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japonophile/mm/internal/conformance"
)

func TestDiscover_SortsAndFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "name: b\nsource: b.mm\n")
	writeFile(t, dir, "a.yml", "name: a\nsource: a.mm\n")
	writeFile(t, dir, "notes.txt", "ignore me")

	scenarios, err := conformance.Discover(dir, "")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a", scenarios[0].Name)
	assert.Equal(t, "b", scenarios[1].Name)
}

func TestDiscover_AppliesGlobFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "disjoint_violation.yaml", "name: disjoint_violation\nsource: d.mm\n")
	writeFile(t, dir, "minimal_proof.yaml", "name: minimal_proof\nsource: m.mm\n")

	scenarios, err := conformance.Discover(dir, "disjoint*")
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "disjoint_violation", scenarios[0].Name)
}

func TestDiscover_InvalidFilterErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: a\nsource: a.mm\n")

	_, err := conformance.Discover(dir, "[")
	require.Error(t, err)
}

func TestDiscover_MissingDirectoryErrors(t *testing.T) {
	_, err := conformance.Discover("/nonexistent/scenarios", "")
	require.Error(t, err)
}

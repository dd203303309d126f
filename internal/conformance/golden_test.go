package conformance_test

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/japonophile/mm/internal/conformance"
	"github.com/japonophile/mm/internal/source"
)

// TestRun_MatchesGoldenSnapshot pins the exact canonical JSON produced for
// a scenario's outcome. Regenerate with:
//
//	go test ./internal/conformance -run TestRun_MatchesGoldenSnapshot -update
func TestRun_MatchesGoldenSnapshot(t *testing.T) {
	fr := source.MapFileReader{filepath.Join("base", "ok.mm"): []byte(minimalProofSrc)}
	scenario := &conformance.Scenario{
		Name:           "goldie_demo",
		Source:         "ok.mm",
		ExpectStatuses: map[string]string{"th1": "verified"},
	}

	result, err := conformance.Run(scenario, "base", fr)
	require.NoError(t, err)
	require.True(t, result.Passed)

	snapshot, err := result.ToSnapshot().Marshal()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)
}

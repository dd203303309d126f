package conformance_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japonophile/mm/internal/conformance"
	"github.com/japonophile/mm/internal/source"
)

func TestRunAll_AggregatesPassAndFail(t *testing.T) {
	fr := source.MapFileReader{
		filepath.Join("base", "ok.mm"):  []byte(minimalProofSrc),
		filepath.Join("base", "bad.mm"): []byte(nestedCommentSrc),
	}
	scenarios := []*conformance.Scenario{
		{Name: "ok", Source: "ok.mm", ExpectStatuses: map[string]string{"th1": "verified"}},
		{Name: "bad", Source: "bad.mm", ExpectStatuses: map[string]string{"th1": "verified"}},
	}

	report, err := conformance.RunAll(scenarios, "base", fr)
	require.NoError(t, err)
	assert.False(t, report.Passed())
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "bad", report.Failed()[0].ScenarioName)
	assert.Equal(t, "1/2 scenarios passed", report.Summary())
}

func TestRunAll_AllPassed(t *testing.T) {
	fr := source.MapFileReader{filepath.Join("base", "ok.mm"): []byte(minimalProofSrc)}
	scenarios := []*conformance.Scenario{
		{Name: "ok", Source: "ok.mm", ExpectStatuses: map[string]string{"th1": "verified"}},
	}

	report, err := conformance.RunAll(scenarios, "base", fr)
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Empty(t, report.Failed())
}

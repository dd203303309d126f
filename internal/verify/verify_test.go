package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japonophile/mm/internal/db"
	"github.com/japonophile/mm/internal/parse"
	"github.com/japonophile/mm/internal/verify"
)

func mustParse(t *testing.T, src string) *db.Database {
	t.Helper()
	d, err := parse.Parse([]byte(src))
	require.NoError(t, err)
	return d
}

func TestVerifyAll_MinimalUncompressedProofVerifies(t *testing.T) {
	src := `
$c wff |- $.
$v ph $.
wph $f wff ph $.
ax-id $a |- ph $.
th1 $p |- ph $= wph ax-id $.
`
	d := mustParse(t, src)
	results := verify.VerifyAll(d)
	require.Len(t, results, 1)
	assert.Equal(t, verify.StatusVerified, results[0].Status)
	assert.Equal(t, "th1", results[0].Label)
}

func TestVerifyAll_CompressedProofVerifies(t *testing.T) {
	src := `
$c wff |- $.
$v ph $.
wph $f wff ph $.
ax-id $a |- ph $.
th1 $p |- ph $= ( ax-id ) AB $.
`
	d := mustParse(t, src)
	results := verify.VerifyAll(d)
	require.Len(t, results, 1)
	assert.Equal(t, verify.StatusVerified, results[0].Status)
}

func TestVerifyAll_IncompleteProofReported(t *testing.T) {
	src := `
$c wff |- $.
$v ph $.
wph $f wff ph $.
ax-id $a |- ph $.
th1 $p |- ph $= ? $.
`
	d := mustParse(t, src)
	results := verify.VerifyAll(d)
	require.Len(t, results, 1)
	assert.Equal(t, verify.StatusIncomplete, results[0].Status)
}

func TestVerifyAll_WrongConclusionFails(t *testing.T) {
	src := `
$c wff |- $.
$v ph ps $.
wph $f wff ph $.
wps $f wff ps $.
ax-id $a |- ph $.
th1 $p |- ps $= wph ax-id $.
`
	d := mustParse(t, src)
	results := verify.VerifyAll(d)
	require.Len(t, results, 1)
	assert.Equal(t, verify.StatusFailed, results[0].Status)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, "E306", results[0].Err.Code)
}

func TestVerifyAll_MissingDisjointRestrictionFails(t *testing.T) {
	// ax-distinct mandates $d x y $. th1 applies it with both x and y
	// substituted to the same variable z, collapsing the required
	// disjointness.
	src := `
$c wff class $.
$v x y z $.
${
cx $f class x $.
cy $f class y $.
$d x y $.
ax-distinct $a wff x y $.
$}
cz $f class z $.
th1 $p wff z z $= cz cz ax-distinct $.
`
	d := mustParse(t, src)
	results := verify.VerifyAll(d)
	require.Len(t, results, 1)
	assert.Equal(t, verify.StatusFailed, results[0].Status)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, "E304", results[0].Err.Code)
}

func TestVerifyAll_ParallelMatchesSequential(t *testing.T) {
	src := `
$c wff |- $.
$v ph $.
wph $f wff ph $.
ax-id $a |- ph $.
th1 $p |- ph $= wph ax-id $.
th2 $p |- ph $= wph ax-id $.
`
	d := mustParse(t, src)
	seq := verify.VerifyAll(d)
	par := verify.VerifyAll(d, verify.WithParallel(true))
	require.Len(t, par, len(seq))
	for i := range seq {
		assert.Equal(t, seq[i].Label, par[i].Label)
		assert.Equal(t, seq[i].Status, par[i].Status)
	}
}

func TestVerifyAll_StepBudgetExceeded(t *testing.T) {
	src := `
$c wff |- $.
$v ph $.
wph $f wff ph $.
ax-id $a |- ph $.
th1 $p |- ph $= wph ax-id $.
`
	d := mustParse(t, src)
	results := verify.VerifyAll(d, verify.WithMaxSteps(1))
	require.Len(t, results, 1)
	assert.Equal(t, verify.StatusFailed, results[0].Status)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, "E307", results[0].Err.Code)
}

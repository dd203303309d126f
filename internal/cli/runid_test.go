package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator_GeneratesDistinctIDs(t *testing.T) {
	var gen UUIDv7Generator
	a := gen.Generate()
	b := gen.Generate()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestFixedGenerator_ReturnsInOrder(t *testing.T) {
	gen := NewFixedGenerator("run-1", "run-2")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	gen := NewFixedGenerator("run-1")
	gen.Generate()
	assert.Panics(t, func() { gen.Generate() })
}

func TestRunID_AppearsInJSONTraceIDAndVerboseLog(t *testing.T) {
	path := writeTestDB(t, parseCmdMinimalDB)

	rootOpts := &RootOptions{Format: "json", Verbose: true, RunIDGen: NewFixedGenerator("fixed-run-id")}

	cmd := NewParseCommand(rootOpts)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"trace_id":"fixed-run-id"`)
	assert.Contains(t, errOut.String(), "run fixed-run-id")
}

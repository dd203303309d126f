package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: json\nverbose: true\nmax-steps: 5000\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	require.NotNil(t, cfg.Verbose)
	assert.True(t, *cfg.Verbose)
	require.NotNil(t, cfg.MaxSteps)
	assert.Equal(t, 5000, *cfg.MaxSteps)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/mm.yaml")
	require.Error(t, err)
}

// fixtureCmd returns a bare *cobra.Command with the same format/verbose
// flags root.go registers, for exercising ApplyDefaults's Changed() checks
// in isolation.
func fixtureCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "fixture"}
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	return cmd
}

func TestApplyDefaults_ConfigFillsUnsetFlags(t *testing.T) {
	verbose := true
	cfg := &Config{Format: "json", Verbose: &verbose}
	opts := &RootOptions{Format: "text", Verbose: false}
	cmd := fixtureCmd(opts)
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg.ApplyDefaults(opts, cmd)
	assert.Equal(t, "json", opts.Format)
	assert.True(t, opts.Verbose)
}

// TestApplyDefaults_DoesNotOverrideExplicitFlags exercises the failure mode
// a default-value comparison misses: the user explicitly passes
// --format=text (which happens to equal the flag's own default) and
// --verbose=false with a config file that would otherwise flip both. The
// explicit flags must win.
func TestApplyDefaults_DoesNotOverrideExplicitFlags(t *testing.T) {
	verbose := true
	cfg := &Config{Format: "json", Verbose: &verbose}
	opts := &RootOptions{}
	cmd := fixtureCmd(opts)
	require.NoError(t, cmd.Flags().Parse([]string{"--format=text", "--verbose=false"}))

	cfg.ApplyDefaults(opts, cmd)
	assert.Equal(t, "text", opts.Format)
	assert.False(t, opts.Verbose)
}

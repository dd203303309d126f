package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds defaults for global flags, loaded from a YAML file via
// --config so a project can pin its preferred format, verbosity, and
// step budget without repeating flags on every invocation.
type Config struct {
	Format   string `yaml:"format,omitempty"`
	Verbose  *bool  `yaml:"verbose,omitempty"`
	MaxSteps *int   `yaml:"max-steps,omitempty"`
}

// LoadConfig reads and decodes a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills in opts fields the user did not pass explicitly with
// the config's values. An explicit flag always wins over the config file,
// so this only overrides Format/Verbose when cmd.Flags().Changed reports
// they were left at their registered default, the same
// flag-over-config-over-default precedence verify_cmd.go uses for
// MaxSteps.
//
// MaxSteps has no place on RootOptions (it's specific to `mm verify`), so
// its config precedence is applied separately in verify_cmd.go once the
// verify command's own flags have been parsed.
func (c *Config) ApplyDefaults(opts *RootOptions, cmd *cobra.Command) {
	if c.Format != "" && !cmd.Flags().Changed("format") {
		opts.Format = c.Format
	}
	if c.Verbose != nil && !cmd.Flags().Changed("verbose") {
		opts.Verbose = *c.Verbose
	}
}

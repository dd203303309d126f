package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by every subcommand.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"
	Config  string // path to an optional YAML config file

	// RunIDGen produces the per-invocation run id logged and reported by
	// every subcommand. Defaults to UUIDv7Generator; tests substitute a
	// FixedGenerator for deterministic output.
	RunIDGen RunIDGenerator

	// loadedConfig is the decoded --config file, if any, kept around so
	// subcommand-specific fields the config can override (like verify's
	// MaxSteps) can be read after RootOptions itself has been populated.
	loadedConfig *Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the mm CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{RunIDGen: UUIDv7Generator{}}

	cmd := &cobra.Command{
		Use:   "mm",
		Short: "mm - a Metamath database parser and proof verifier",
		Long: `mm reads Metamath (.mm) databases, checks their syntax, and verifies
that every $p provable's proof is a correct derivation from the
database's axioms and hypotheses.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Config != "" {
				cfg, err := LoadConfig(opts.Config)
				if err != nil {
					return err
				}
				cfg.ApplyDefaults(opts, cmd)
				opts.loadedConfig = cfg
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to a YAML config file")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewConformanceCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

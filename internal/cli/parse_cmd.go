package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/japonophile/mm/internal/db"
	"github.com/japonophile/mm/internal/parse"
	"github.com/japonophile/mm/internal/source"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
}

// ParseSummary is the JSON payload for a successful `mm parse`.
type ParseSummary struct {
	Constants   int    `json:"constants"`
	Variables   int    `json:"variables"`
	Axioms      int    `json:"axioms"`
	Provables   int    `json:"provables"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Metamath database and report its declarations",
		Long: `Load a .mm file (resolving $[ ... $] inclusions) and parse it into a
database of constants, variables, and assertions, reporting any
syntactic or declarative error found along the way.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	return cmd
}

func runParse(opts *ParseOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	formatter.VerboseLog("loading %s", path)
	slog.Info("loading database", "path", path, "run_id", formatter.TraceID)
	buf, err := source.Load(path, source.OSFileReader{})
	if err != nil {
		slog.Error("failed to load database", "path", path, "error", err)
		_ = formatter.Error("E002", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load database", err)
	}

	d, perr := parse.Parse(buf)
	if perr != nil {
		var pe *parse.ParseError
		if errors.As(perr, &pe) {
			slog.Error("parse failed", "path", path, "code", pe.Code, "offset", pe.Offset)
			_ = formatter.Error(pe.Code, pe.Error(), map[string]int{"offset": pe.Offset})
		} else {
			slog.Error("parse failed", "path", path, "error", perr)
			_ = formatter.Error("E202", perr.Error(), nil)
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("parse failed: %v", perr))
	}

	summary := ParseSummary{
		Constants: len(d.Constants()),
		Variables: len(d.Variables()),
		Axioms:    len(d.Axioms()),
		Provables: len(d.Provables()),
	}
	slog.Info("parse succeeded", "path", path, "constants", summary.Constants,
		"variables", summary.Variables, "axioms", summary.Axioms, "provables", summary.Provables)
	if opts.Format == "json" {
		if fp, ferr := db.Fingerprint(d); ferr == nil {
			summary.Fingerprint = fp
		}
		return formatter.Success(summary)
	}
	return formatter.Success(fmt.Sprintf(
		"parsed %s: %d constants, %d variables, %d axioms, %d provables",
		path, summary.Constants, summary.Variables, summary.Axioms, summary.Provables,
	))
}

package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/japonophile/mm/internal/db"
	"github.com/japonophile/mm/internal/parse"
	"github.com/japonophile/mm/internal/source"
	"github.com/japonophile/mm/internal/verify"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	MaxSteps int
	Parallel bool
	Trace    string
}

// VerifyResultJSON is one provable's outcome in the JSON report.
type VerifyResultJSON struct {
	Label  string `json:"label"`
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// VerifyReport is the JSON payload for `mm verify`: declaration counts,
// the database fingerprint, per-status tallies, and one entry per
// provable.
type VerifyReport struct {
	Constants   int                `json:"constants"`
	Variables   int                `json:"variables"`
	Axioms      int                `json:"axioms"`
	Provables   int                `json:"provables"`
	Fingerprint string             `json:"fingerprint,omitempty"`
	Verified    int                `json:"verified"`
	Incomplete  int                `json:"incomplete"`
	Failed      int                `json:"failed"`
	Results     []VerifyResultJSON `json:"results"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify every provable's proof in a Metamath database",
		Long: `Load, parse, and verify a .mm database: every $p statement's proof is
decoded and executed against an operand stack, checking hypothesis
unification, essential-hypothesis matching, and disjoint-variable
restrictions.

Exits 0 if every provable verifies, 1 if any is incomplete or fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", verify.DefaultMaxSteps, "per-provable proof step budget")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "verify independent provables concurrently")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "print the operand stack after every step of the named provable")

	return cmd
}

func runVerify(opts *VerifyOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if !cmd.Flags().Changed("max-steps") && opts.loadedConfig != nil && opts.loadedConfig.MaxSteps != nil {
		opts.MaxSteps = *opts.loadedConfig.MaxSteps
	}

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

	verifyOpts := []verify.Option{
		verify.WithMaxSteps(opts.MaxSteps),
		verify.WithParallel(opts.Parallel),
	}
	if opts.Trace != "" {
		verifyOpts = append(verifyOpts, verify.WithTrace(opts.Trace), verify.WithTraceWriter(formatter.GetErrWriter()))
	}

	slog.Info("verification starting", "provables", len(d.Provables()), "max_steps", opts.MaxSteps, "parallel", opts.Parallel)
	results := verify.VerifyAll(d, verifyOpts...)
	err = reportVerifyResults(formatter, d, results)
	slog.Info("verification finished", "run_id", formatter.TraceID)
	return err
}

func reportVerifyResults(formatter *OutputFormatter, d *db.Database, results []verify.Result) error {
	report := VerifyReport{
		Constants: len(d.Constants()),
		Variables: len(d.Variables()),
		Axioms:    len(d.Axioms()),
		Provables: len(d.Provables()),
		Results:   make([]VerifyResultJSON, len(results)),
	}

	for i, r := range results {
		jr := VerifyResultJSON{Label: r.Label, Status: string(r.Status)}
		switch r.Status {
		case verify.StatusVerified:
			report.Verified++
		case verify.StatusIncomplete:
			report.Incomplete++
		case verify.StatusFailed:
			report.Failed++
		}
		if r.Err != nil {
			jr.Code = r.Err.Code
			jr.Error = r.Err.Msg
			slog.Error("provable failed", "label", r.Label, "status", r.Status, "code", r.Err.Code)
		} else {
			slog.Debug("provable verified", "label", r.Label, "status", r.Status)
		}
		report.Results[i] = jr

		if formatter.Format != "json" {
			if r.Status == verify.StatusVerified {
				fmt.Fprintf(formatter.Writer, "%s: verified\n", r.Label)
			} else if r.Err != nil {
				fmt.Fprintf(formatter.Writer, "%s: %s (%s: %s)\n", r.Label, r.Status, r.Err.Code, r.Err.Msg)
			} else {
				fmt.Fprintf(formatter.Writer, "%s: %s\n", r.Label, r.Status)
			}
		}
	}

	if formatter.Format == "json" {
		if fp, ferr := db.Fingerprint(d); ferr == nil {
			report.Fingerprint = fp
		}
		if err := formatter.Success(report); err != nil {
			return err
		}
	}

	if report.Incomplete > 0 || report.Failed > 0 {
		return NewExitError(ExitFailure, "one or more provables did not verify")
	}
	return nil
}

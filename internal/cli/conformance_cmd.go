package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/japonophile/mm/internal/conformance"
	"github.com/japonophile/mm/internal/source"
)

// ConformanceOptions holds flags for the conformance command.
type ConformanceOptions struct {
	*RootOptions
	Filter string
	Update bool
}

// ScenarioReport is one scenario's outcome in the JSON report, including
// whether its golden trace matched.
type ScenarioReport struct {
	Name          string   `json:"name"`
	Passed        bool     `json:"passed"`
	Failures      []string `json:"failures,omitempty"`
	GoldenUpdated bool     `json:"golden_updated,omitempty"`
	GoldenError   string   `json:"golden_error,omitempty"`
}

// NewConformanceCommand creates the conformance command.
func NewConformanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConformanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "conformance <scenarios-dir>",
		Short: "Run YAML-described end-to-end scenarios against the pipeline",
		Long: `Discover *.yaml scenario files under scenarios-dir, run each one's
source database through load, parse, and verify, and check the outcome
against the scenario's expectations and a golden trace snapshot.

Use --update to (re)write golden files from the current run instead of
comparing against them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConformance(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "glob pattern restricting which scenario files run")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "write golden files from this run instead of comparing")

	return cmd
}

func runConformance(opts *ConformanceOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	scenarios, err := conformance.Discover(dir, opts.Filter)
	if err != nil {
		slog.Error("failed to discover scenarios", "dir", dir, "error", err)
		_ = formatter.Error("E002", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to discover scenarios", err)
	}
	formatter.VerboseLog("discovered %d scenario(s) in %s", len(scenarios), dir)
	slog.Info("scenarios discovered", "dir", dir, "count", len(scenarios), "run_id", formatter.TraceID)

	fr := source.OSFileReader{}
	goldenDir := filepath.Join(dir, "golden")

	batch, err := conformance.RunAll(scenarios, dir, fr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}

	reports := make([]ScenarioReport, 0, len(batch.Results))
	allPassed := true
	for _, res := range batch.Results {
		report := ScenarioReport{Name: res.ScenarioName, Passed: res.Passed, Failures: res.Failures}

		snapshot, merr := res.ToSnapshot().Marshal()
		if merr != nil {
			report.GoldenError = merr.Error()
			report.Passed = false
		} else {
			goldenPath := filepath.Join(goldenDir, res.ScenarioName+".golden")
			matched, gerr := conformance.CompareOrUpdate(goldenPath, snapshot, opts.Update)
			switch {
			case gerr != nil:
				report.GoldenError = gerr.Error()
				report.Passed = false
			case opts.Update:
				report.GoldenUpdated = true
			case !matched:
				report.Passed = false
				report.Failures = append(report.Failures, fmt.Sprintf("golden trace mismatch: %s", goldenPath))
			}
		}

		if !report.Passed {
			allPassed = false
			slog.Error("scenario failed", "scenario", report.Name, "failures", report.Failures)
		} else {
			slog.Debug("scenario passed", "scenario", report.Name)
		}
		reports = append(reports, report)

		if formatter.Format != "json" {
			printScenarioReport(formatter, report)
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(reports); err != nil {
			return err
		}
	} else {
		passed := 0
		for _, r := range reports {
			if r.Passed {
				passed++
			}
		}
		fmt.Fprintf(formatter.Writer, "%d/%d scenarios passed\n", passed, len(reports))
	}

	slog.Info("conformance run finished", "scenarios", len(reports), "passed", allPassed)

	if !allPassed {
		return NewExitError(ExitFailure, "one or more conformance scenarios failed")
	}
	return nil
}

func printScenarioReport(formatter *OutputFormatter, report ScenarioReport) {
	if report.Passed {
		fmt.Fprintf(formatter.Writer, "PASS %s\n", report.Name)
		return
	}
	fmt.Fprintf(formatter.Writer, "FAIL %s\n", report.Name)
	for _, f := range report.Failures {
		fmt.Fprintf(formatter.Writer, "  %s\n", f)
	}
	if report.GoldenError != "" {
		fmt.Fprintf(formatter.Writer, "  golden: %s\n", report.GoldenError)
	}
}

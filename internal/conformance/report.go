package conformance

import (
	"fmt"

	"github.com/japonophile/mm/internal/source"
)

// Report aggregates the results of running a batch of scenarios.
type Report struct {
	Results []*Result
}

// Passed reports whether every scenario in the report passed.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Failed returns the subset of results that did not pass.
func (r *Report) Failed() []*Result {
	var failed []*Result
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Summary renders a one-line human-readable pass/fail count.
func (r *Report) Summary() string {
	failed := len(r.Failed())
	return fmt.Sprintf("%d/%d scenarios passed", len(r.Results)-failed, len(r.Results))
}

// RunAll runs every scenario in scenarios, resolving each one's Source
// relative to baseDir, and collects the results into a Report.
func RunAll(scenarios []*Scenario, baseDir string, fr source.FileReader) (*Report, error) {
	report := &Report{Results: make([]*Result, 0, len(scenarios))}
	for _, sc := range scenarios {
		res, err := Run(sc, baseDir, fr)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

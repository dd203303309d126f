package conformance

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/japonophile/mm/internal/parse"
	"github.com/japonophile/mm/internal/source"
	"github.com/japonophile/mm/internal/verify"
)

// Result is the outcome of running one Scenario.
type Result struct {
	ScenarioName string
	Passed       bool
	Failures     []string
	Statuses     map[string]string // provable label -> verify.Status, empty on a parse error
	ParseError   string            // ParseError code when the expected parse error occurred, empty otherwise
}

// Run loads and parses the scenario's source (resolved relative to
// baseDir) and, unless a parse error was expected and matched,
// verifies every provable and checks ExpectStatuses.
func Run(scenario *Scenario, baseDir string, fr source.FileReader) (*Result, error) {
	res := &Result{ScenarioName: scenario.Name, Passed: true, Statuses: map[string]string{}}

	buf, err := source.Load(filepath.Join(baseDir, scenario.Source), fr)
	if err != nil {
		res.Passed = false
		res.Failures = append(res.Failures, fmt.Sprintf("loading source: %v", err))
		return res, nil
	}

	d, perr := parse.Parse(buf)
	if perr != nil {
		var pe *parse.ParseError
		if scenario.ExpectParseError != nil && errors.As(perr, &pe) && pe.Code == scenario.ExpectParseError.Code {
			res.ParseError = pe.Code
			return res, nil
		}
		res.Passed = false
		res.Failures = append(res.Failures, fmt.Sprintf("parse error: %v", perr))
		return res, nil
	}
	if scenario.ExpectParseError != nil {
		res.Passed = false
		res.Failures = append(res.Failures, fmt.Sprintf("expected parse error %q but parsing succeeded", scenario.ExpectParseError.Code))
		return res, nil
	}

	for _, r := range verify.VerifyAll(d) {
		res.Statuses[r.Label] = string(r.Status)
	}
	for label, want := range scenario.ExpectStatuses {
		got, ok := res.Statuses[label]
		if !ok {
			res.Passed = false
			res.Failures = append(res.Failures, fmt.Sprintf("%s: expected status %q, provable not found", label, want))
			continue
		}
		if got != want {
			res.Passed = false
			res.Failures = append(res.Failures, fmt.Sprintf("%s: expected status %q, got %q", label, want, got))
		}
	}
	return res, nil
}

// sortedLabels returns Statuses' keys sorted, for deterministic report
// and golden-trace output.
func (r *Result) sortedLabels() []string {
	labels := make([]string, 0, len(r.Statuses))
	for l := range r.Statuses {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

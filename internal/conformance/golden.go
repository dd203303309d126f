package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/japonophile/mm/internal/db"
)

// Snapshot is the canonical, serializable form of a Result, used as the
// payload written to and compared against a golden file.
type Snapshot struct {
	ScenarioName string            `json:"scenario_name"`
	Passed       bool              `json:"passed"`
	ParseError   string            `json:"parse_error,omitempty"`
	Statuses     map[string]string `json:"statuses,omitempty"`
	Failures     []string          `json:"failures,omitempty"`
}

// ToSnapshot converts a Result to its canonical, serializable form.
func (r *Result) ToSnapshot() Snapshot {
	return Snapshot{
		ScenarioName: r.ScenarioName,
		Passed:       r.Passed,
		ParseError:   r.ParseError,
		Statuses:     r.Statuses,
		Failures:     r.Failures,
	}
}

func (s Snapshot) toCanonicalMap() map[string]any {
	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"passed":        s.Passed,
	}
	if s.ParseError != "" {
		m["parse_error"] = s.ParseError
	}
	if len(s.Statuses) > 0 {
		statuses := make(map[string]any, len(s.Statuses))
		for k, v := range s.Statuses {
			statuses[k] = v
		}
		m["statuses"] = statuses
	}
	if len(s.Failures) > 0 {
		failures := make([]any, len(s.Failures))
		for i, f := range s.Failures {
			failures[i] = f
		}
		m["failures"] = failures
	}
	return m
}

// Marshal renders the snapshot as canonical JSON, the same format
// written to and compared against golden files.
func (s Snapshot) Marshal() ([]byte, error) {
	return db.MarshalCanonical(s.toCanonicalMap())
}

// CompareOrUpdate compares actual against the golden file at path. If
// update is true, it writes actual to path and reports matched=true.
// Otherwise it reports whether the file's contents equal actual; a
// golden file that does not exist yet is an error.
//
// This is the production counterpart to the teacher's goldie-based test
// helper: goldie's API is built around *testing.T and has no place in
// the mm conformance command's runtime path, so --update drives this
// plain read/write/compare instead.
func CompareOrUpdate(path string, actual []byte, update bool) (matched bool, err error) {
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return false, fmt.Errorf("creating golden directory: %w", err)
		}
		if err := os.WriteFile(path, actual, 0o644); err != nil {
			return false, fmt.Errorf("writing golden file %s: %w", path, err)
		}
		return true, nil
	}

	want, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("golden file %s does not exist (run with --update to create it)", path)
		}
		return false, fmt.Errorf("reading golden file %s: %w", path, err)
	}
	return string(want) == string(actual), nil
}

// Package conformance runs YAML-described end-to-end scenarios (load,
// parse, verify) and checks their outcomes against expectations plus a
// canonical golden trace, for regression coverage that spans the whole
// pipeline rather than one package at a time.
package conformance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes one end-to-end conformance case: a source file to
// load and parse, and what should happen to it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Source is a path to a .mm fixture, relative to the scenario file's
	// own directory.
	Source string `yaml:"source"`

	// ExpectParseError, if set, means the source is expected to fail
	// parsing with this code; ExpectStatuses is ignored in that case.
	ExpectParseError *ExpectedParseError `yaml:"expect_parse_error,omitempty"`

	// ExpectStatuses maps provable label to expected verify.Status
	// ("verified", "incomplete", or "failed"). Labels not
	// listed are still verified but not checked.
	ExpectStatuses map[string]string `yaml:"expect_statuses,omitempty"`
}

// ExpectedParseError names the parse.ParseError code a scenario's source
// must fail with.
type ExpectedParseError struct {
	Code string `yaml:"code"`
}

// LoadScenario reads and decodes one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if s.Source == "" {
		return nil, fmt.Errorf("scenario %s: missing source", path)
	}
	return &s, nil
}

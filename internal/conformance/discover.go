package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover finds every YAML scenario file directly inside dir matching
// filter (a filepath.Match pattern against the base filename; an empty
// filter matches "*.yaml" and "*.yml"), and loads them in a stable,
// sorted order.
func Discover(dir, filter string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenarios directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			ok, merr := filepath.Match(filter, name)
			if merr != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", filter, merr)
			}
			if !ok {
				continue
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

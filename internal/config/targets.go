// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Target describes one snapshot to fetch and persist during a refresh.
type Target struct {
	// Name identifies the target; it becomes the CSV filename stem and the
	// store key, so it must be unique within the file.
	Name string `yaml:"name"`
	// Dataset selects the client operation, e.g. "acs/detailed" or "cbp".
	Dataset string `yaml:"dataset"`
	// Params holds the operation parameters (year, group, state, ...).
	Params map[string]string `yaml:"params"`
}

type targetsFile struct {
	Targets []Target `yaml:"targets"`
}

// LoadTargets reads and validates the YAML snapshot target list.
// An empty path yields an empty list.
func LoadTargets(path string) ([]Target, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}
	var f targetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse targets file %s: %w", path, err)
	}
	seen := make(map[string]struct{}, len(f.Targets))
	for i, t := range f.Targets {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("target %d: name must not be empty", i)
		}
		if strings.ContainsAny(name, "/\\") {
			return nil, fmt.Errorf("target %q: name must not contain path separators", name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate target name %q", name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(t.Dataset) == "" {
			return nil, fmt.Errorf("target %q: dataset must not be empty", name)
		}
	}
	return f.Targets, nil
}

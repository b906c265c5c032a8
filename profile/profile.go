// Package profile loads declarative constraint profile tables and
// resolves them, together with per-function overrides, into the
// constraint sets the evaluation engine consumes.
package profile

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Profile is one named tier configuration in a profile table. Primary
// and Secondary map constraint names to their declarative parameter
// values; Guidance is free text echoed into reports; Targets holds
// glob patterns selecting the files the profile applies to.
type Profile struct {
	Primary   map[string]any `yaml:"primary"`
	Secondary map[string]any `yaml:"secondary"`
	Guidance  []string       `yaml:"guidance"`
	Targets   []string       `yaml:"targets"`
}

// Matches reports whether a slash-separated relative path is selected
// by the profile's target patterns. A profile without targets matches
// everything.
func (p Profile) Matches(path string) bool {
	if len(p.Targets) == 0 {
		return true
	}
	for _, pattern := range p.Targets {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Override adjusts a resolved profile for one function. Map entries
// merge key-by-key with the profile (the override wins); Guidance, when
// present, fully replaces the profile's guidance rather than merging.
type Override struct {
	Primary   map[string]any `yaml:"primary"`
	Secondary map[string]any `yaml:"secondary"`
	Guidance  *[]string      `yaml:"guidance"`
}

// Table is a loaded profile file: named profiles plus per-function
// overrides.
type Table struct {
	Profiles  map[string]Profile  `yaml:"profiles"`
	Functions map[string]Override `yaml:"functions"`
}

// UnknownProfileError reports a profile name absent from the table.
type UnknownProfileError struct {
	Name string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown constraint profile: %s", e.Name)
}

// Load reads a profile table from a YAML file. An empty file is a
// configuration error, not an empty table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return Parse(data)
}

// Parse decodes a profile table from YAML bytes.
func Parse(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	if len(table.Profiles) == 0 {
		return nil, fmt.Errorf("profiles file is empty")
	}
	return &table, nil
}

// Package lockfile reads the lock manifest (npm-shrinkwrap.json) into the
// set of wanted install specifiers.
package lockfile

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/danieljhkim/modcheck/internal/fsops"
	"github.com/danieljhkim/modcheck/internal/pkgspec"
)

// DefaultName is the manifest file looked up in the working directory.
const DefaultName = "npm-shrinkwrap.json"

// Manifest is the subset of a lock manifest modcheck understands.
type Manifest struct {
	Name         string                `json:"name,omitempty"`
	Version      string                `json:"version,omitempty"`
	Dependencies map[string]Dependency `json:"dependencies"`
}

// Dependency is one top-level entry of the manifest.
type Dependency struct {
	Version  string `json:"version"`
	From     string `json:"from,omitempty"`
	Resolved string `json:"resolved,omitempty"`
}

// Parse decodes manifest content.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Wanted derives the wanted InstallSpec of every dependency, keyed by name.
// Dependencies are visited in name order so warnings come out stable.
func (m *Manifest) Wanted(d pkgspec.Deriver) map[string]pkgspec.InstallSpec {
	wanted := make(map[string]pkgspec.InstallSpec, len(m.Dependencies))
	for _, name := range slices.Sorted(maps.Keys(m.Dependencies)) {
		dep := m.Dependencies[name]
		wanted[name] = d.Derive(name, dep.Version, dep.From, dep.Resolved)
	}
	return wanted
}

// Read loads the manifest at path and returns the wanted specs.
// A missing or malformed manifest is returned as an error.
func Read(fs fsops.FS, path string, d pkgspec.Deriver) (map[string]pkgspec.InstallSpec, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return m.Wanted(d), nil
}

package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a provisioning table from a YAML file and validates it.
func Load(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the table for rows that could never install anything.
// All problems are reported at once.
func (m Manifest) Validate() error {
	var errs []error

	for i, t := range m.Tools {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("tools[%d]: name is required", i))
			continue
		}
		if t.Check == "" && len(t.CheckFiles) == 0 {
			errs = append(errs, fmt.Errorf("tool %s: check or check_files is required", t.Name))
		}
		if len(t.Packages) == 0 && t.Release == nil {
			errs = append(errs, fmt.Errorf("tool %s: needs packages or a release source", t.Name))
		}
		if t.Release != nil && !strings.Contains(t.Release.Repo, "/") {
			errs = append(errs, fmt.Errorf("tool %s: release repo must be owner/name, got %q", t.Name, t.Release.Repo))
		}
	}

	for i, g := range m.Globals {
		if g.Name == "" || g.Check == "" {
			errs = append(errs, fmt.Errorf("globals[%d]: name and check are required", i))
		}
	}

	return errors.Join(errs...)
}

// ExpandPath expands a leading ~ to the user's home directory and $VAR
// references from the environment. An unset variable expands to empty,
// which never names an existing file.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

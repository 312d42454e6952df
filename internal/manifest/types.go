// Package manifest defines the provisioning table: which tools a
// workstation gets, how to tell whether each is already present, and how to
// install the ones that are not. A built-in table covers the standard
// developer setup; a YAML file with the same shape can replace it.
package manifest

// Tool is one row of the provisioning table.
type Tool struct {
	// Name identifies the tool in logs, the summary, and the state file.
	Name string `yaml:"name"`

	// Check is the executable probed on PATH to decide presence. An
	// installed tool is never reinstalled.
	Check string `yaml:"check,omitempty"`

	// CheckFiles lists filesystem paths that also count as presence, for
	// tools that install a loader script instead of a PATH binary. Any one
	// existing file satisfies the probe. Entries may use ~ and $VAR.
	CheckFiles []string `yaml:"check_files,omitempty"`

	// Packages maps a package-manager name ("brew", "apt") to the package
	// that provides this tool there. A manager with no entry cannot
	// install the tool natively.
	Packages map[string]string `yaml:"packages,omitempty"`

	// Release optionally names a GitHub release to install from when the
	// active manager has no package for the tool.
	Release *Release `yaml:"release,omitempty"`

	// Platforms restricts the row to the listed GOOS values. Empty means
	// every platform.
	Platforms []string `yaml:"platforms,omitempty"`
}

// Release identifies a GitHub release used as an install source.
type Release struct {
	// Repo is the "owner/name" repository path.
	Repo string `yaml:"repo"`

	// Tag pins a release tag. Empty means the latest release.
	Tag string `yaml:"tag,omitempty"`
}

// Global is an npm package installed machine-wide with `npm install -g`.
type Global struct {
	Name  string `yaml:"name"`
	Check string `yaml:"check"`
}

// Manifest is the full provisioning table.
type Manifest struct {
	Tools   []Tool   `yaml:"tools"`
	Globals []Global `yaml:"globals"`
}

// SupportsPlatform reports whether the row applies to the given GOOS value.
func (t Tool) SupportsPlatform(goos string) bool {
	if len(t.Platforms) == 0 {
		return true
	}
	for _, p := range t.Platforms {
		if p == goos {
			return true
		}
	}
	return false
}

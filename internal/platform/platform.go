// Package platform detects the host operating system and exposes its native
// package manager. Exactly two platforms are recognized: macOS (Homebrew)
// and Linux (APT). Anything else is unsupported.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/shell"
)

// Sentinel errors mapped to exit code 1 by main. Both mean provisioning
// never started: no package was installed and no file was written.
var (
	ErrUnsupportedOS  = errors.New("unsupported operating system")
	ErrManagerMissing = errors.New("package manager not found")
)

// brewFallbackDirs are locations Homebrew installs to that are not always
// on PATH: /opt/homebrew/bin on Apple Silicon, /usr/local/bin on Intel.
var brewFallbackDirs = []string{"/opt/homebrew/bin", "/usr/local/bin"}

// Manager invokes one native package manager. Construct it with Detect or
// ManagerFor; the zero value is unusable.
type Manager struct {
	// Name identifies the manager in logs and state ("brew" or "apt").
	Name string

	// Binary is the executable resolved on PATH ("brew" or "apt-get").
	Binary string

	fallbackDirs []string
	hint         string
	sudo         bool
	run          shell.Runner
}

// Detect selects the package manager for the host operating system.
// Returns ErrUnsupportedOS for anything other than macOS or Linux.
func Detect(r shell.Runner) (*Manager, error) {
	return ManagerFor(runtime.GOOS, r)
}

// ManagerFor selects the package manager for a given GOOS value. Split out
// from Detect so both OS branches stay testable on one machine.
func ManagerFor(goos string, r shell.Runner) (*Manager, error) {
	switch goos {
	case "darwin":
		return &Manager{
			Name:         "brew",
			Binary:       "brew",
			fallbackDirs: brewFallbackDirs,
			hint:         "install it first (https://brew.sh)",
			run:          r,
		}, nil
	case "linux":
		return &Manager{
			Name:   "apt",
			Binary: "apt-get",
			hint:   "this tool supports Debian/Ubuntu hosts",
			sudo:   true,
			run:    r,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: darwin, linux)", ErrUnsupportedOS, goos)
	}
}

// Resolve locates the manager binary, checking PATH first and then the
// manager's known install directories. Returns the absolute path, or an
// error wrapping ErrManagerMissing with an install hint.
func (m *Manager) Resolve() (string, error) {
	if path, err := m.run.LookPath(m.Binary); err == nil {
		return path, nil
	}
	for _, dir := range m.fallbackDirs {
		candidate := filepath.Join(dir, m.Binary)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not on PATH; %s", ErrManagerMissing, m.Binary, m.hint)
}

// Update refreshes the manager's package index (brew update or
// apt-get update). Failures are fatal to the run.
func (m *Manager) Update() error {
	logger.Info("[INFO] Refreshing %s package index...\n", m.Name)
	return m.exec(m.Binary, "update")
}

// Install installs one package by its manager-specific name.
func (m *Manager) Install(pkg string) error {
	args := []string{"install", pkg}
	if m.sudo {
		args = []string{"install", "-y", pkg}
	}
	return m.exec(m.Binary, args...)
}

// Uninstall removes one package by its manager-specific name.
func (m *Manager) Uninstall(pkg string) error {
	args := []string{"uninstall", pkg}
	if m.sudo {
		args = []string{"remove", "-y", pkg}
	}
	return m.exec(m.Binary, args...)
}

// exec runs the manager command, prepending sudo for system-wide managers.
// Output is logged on failure so the user sees what the manager printed.
func (m *Manager) exec(name string, args ...string) error {
	if m.sudo {
		args = append([]string{name}, args...)
		name = "sudo"
	}
	output, err := m.run.Run(name, args...)
	if err != nil {
		logger.Error("[ERROR] %s command failed: %v\nOutput: %s\n", m.Name, err, output)
		return err
	}
	logger.Debug("[DEBUG] %s output:\n%s\n", m.Name, output)
	return nil
}

// Package paths resolves the directories this tool keeps its own files in:
// the configuration directory (settings, optional manifest) and the state
// directory (the provisioning state document).
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// StateFileName is the JSON document recording what previous runs installed.
const StateFileName = "state.json"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SETUP_WORKSTATION_CONFIG_DIR"
	EnvStateDir  = "SETUP_WORKSTATION_STATE_DIR"
)

// appDirName is the per-application directory created under the platform
// config and state roots.
const appDirName = "setup-workstation"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/setup-workstation (fallback ~/.config/setup-workstation)
// macOS:   ~/Library/Application Support/setup-workstation
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	default:
		// macOS (and anything else os.UserConfigDir understands).
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// DefaultStateDir returns the platform-specific default state directory.
//
// Linux:   $XDG_STATE_HOME/setup-workstation (fallback ~/.local/state/setup-workstation)
// macOS:   ~/Library/Application Support/setup-workstation
func DefaultStateDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "state", appDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > SETUP_WORKSTATION_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveStateFile returns the path of the state document following the
// precedence chain: flag > settings-file value > SETUP_WORKSTATION_STATE_DIR
// env > DefaultStateDir(). The env and default forms name a directory; the
// file inside it is always StateFileName.
func ResolveStateFile(flag, settingsValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if settingsValue != "" {
		return filepath.Abs(settingsValue)
	}
	if env := os.Getenv(EnvStateDir); env != "" {
		abs, err := filepath.Abs(env)
		if err != nil {
			return "", err
		}
		return filepath.Join(abs, StateFileName), nil
	}
	dir, err := DefaultStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, StateFileName), nil
}

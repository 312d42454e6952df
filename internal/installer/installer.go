// Package installer turns the manifest's tool table into installed
// software. Every row follows the same sequence: probe for presence, skip
// when found, otherwise install through the native package manager, with a
// GitHub release archive as the fallback source.
package installer

import (
	"os"
	"runtime"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/manifest"
	"github.com/panariellop/setup-workstation/internal/platform"
	"github.com/panariellop/setup-workstation/internal/shell"
	"github.com/panariellop/setup-workstation/internal/state"
)

// Action reports what EnsureTool did for one row.
type Action int

const (
	// Present means the probe found the tool; nothing ran.
	Present Action = iota
	// Installed means an install command ran and succeeded.
	Installed
	// Skipped means the row does not apply here: wrong platform, or no
	// install source for the active manager.
	Skipped
)

// String returns the summary word for the action.
func (a Action) String() string {
	switch a {
	case Present:
		return "present"
	case Installed:
		return "installed"
	default:
		return "skipped"
	}
}

// Installer installs manifest rows through one package manager. It is not
// safe for concurrent use; provisioning runs strictly one step at a time.
type Installer struct {
	mgr  *platform.Manager
	st   *state.State
	run  shell.Runner
	goos string

	// indexFresh is set after the first package-index refresh so the
	// refresh runs at most once per run, and only when something is
	// actually missing.
	indexFresh bool
}

// New builds an Installer for the host platform.
func New(mgr *platform.Manager, st *state.State, r shell.Runner) *Installer {
	return &Installer{mgr: mgr, st: st, run: r, goos: runtime.GOOS}
}

// EnsureTool makes one row of the table true: present tools are left
// alone, absent ones are installed. A failed install aborts the run unless
// the row carries a release fallback that succeeds.
func (i *Installer) EnsureTool(tool manifest.Tool) (Action, error) {
	if !tool.SupportsPlatform(i.goos) {
		logger.Debug("[DEBUG] %s does not apply on %s. Skipping.\n", tool.Name, i.goos)
		return Skipped, nil
	}

	if path, ok := Probe(i.run, tool); ok {
		logger.Info("[INFO] %s already installed. Skipping.\n", tool.Name)
		if _, tracked := i.st.Tools[tool.Name]; !tracked {
			// Remember it exists, but not as ours: uninstall refuses to
			// touch tools it did not install.
			i.st.Tools[tool.Name] = state.ToolState{InstallPath: path}
		}
		return Present, nil
	}

	pkg, havePkg := tool.Packages[i.mgr.Name]
	if !havePkg && tool.Release == nil {
		logger.Warn("[WARN] No %s package and no release source for %s. Skipping.\n", i.mgr.Name, tool.Name)
		return Skipped, nil
	}

	if havePkg {
		if err := i.ensureFreshIndex(); err != nil {
			return Skipped, err
		}
		logger.Info("[INFO] Installing %s with %s...\n", tool.Name, i.mgr.Name)
		err := i.mgr.Install(pkg)
		if err == nil {
			path, _ := i.run.LookPath(tool.Check)
			i.st.Tools[tool.Name] = state.ToolState{
				Manager:          i.mgr.Name,
				InstallPath:      path,
				InstalledBySetup: true,
			}
			logger.Info("[INFO] Installed %s\n", tool.Name)
			return Installed, nil
		}
		if tool.Release == nil {
			return Skipped, err
		}
		logger.Warn("[WARN] %s cannot provide %s. Falling back to the release archive...\n", i.mgr.Name, tool.Name)
	}

	path, err := i.installRelease(tool.Name, tool.Release)
	if err != nil {
		logger.Error("[ERROR] Failed to install %s from GitHub: %v\n", tool.Name, err)
		return Skipped, err
	}
	i.st.Tools[tool.Name] = state.ToolState{
		Manager:          "github",
		InstallPath:      path,
		InstalledBySetup: true,
	}
	logger.Info("[INFO] Installed %s to %s\n", tool.Name, path)
	return Installed, nil
}

// Probe reports whether the tool is already on the machine: its check
// executable on PATH, or any of its check files on disk. The returned
// path is where it was found.
func Probe(r shell.Runner, tool manifest.Tool) (string, bool) {
	if tool.Check != "" {
		if path, err := r.LookPath(tool.Check); err == nil {
			return path, true
		}
	}
	for _, cf := range tool.CheckFiles {
		path := manifest.ExpandPath(cf)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// ensureFreshIndex refreshes the package index once per run, lazily, so a
// fully provisioned machine never invokes the manager at all.
func (i *Installer) ensureFreshIndex() error {
	if i.indexFresh {
		return nil
	}
	if err := i.mgr.Update(); err != nil {
		return err
	}
	i.indexFresh = true
	return nil
}

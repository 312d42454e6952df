// Package nvm bootstraps the Node toolchain: the nvm version manager, a
// Node LTS runtime, and the npm global packages. nvm is a shell function
// loaded from nvm.sh rather than a PATH binary, so everything here runs
// through a bash invocation that sources the loader first.
//
// The runtime bootstrap is the one best-effort part of provisioning: when
// the loader cannot be installed or fails to source, the run continues
// with a warning instead of aborting, and the machine simply ends up
// without a managed Node runtime.
package nvm

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/manifest"
	"github.com/panariellop/setup-workstation/internal/shell"
	"github.com/panariellop/setup-workstation/internal/state"
)

// InstallScriptURL is the pinned upstream install script, used on Linux
// where no package manager provides nvm.
const InstallScriptURL = "https://raw.githubusercontent.com/nvm-sh/nvm/v0.40.3/install.sh"

// Result reports how far the runtime bootstrap got.
type Result int

const (
	// Applied means a Node runtime was installed this run.
	Applied Result = iota
	// Skipped means nvm and node were already in place.
	Skipped
	// Degraded means the runtime could not be set up; the run continues
	// without it.
	Degraded
)

// String returns the summary word for the result.
func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	default:
		return "degraded"
	}
}

// loaderCandidates is where the nvm loader script is looked for.
// Overridable in tests.
var loaderCandidates = manifest.NVMLoaderCandidates

// LocateLoader returns the first existing nvm loader script.
func LocateLoader() (string, bool) {
	for _, candidate := range loaderCandidates {
		path := manifest.ExpandPath(candidate)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Runtime drives the Node toolchain steps against one command runner.
type Runtime struct {
	run  shell.Runner
	st   *state.State
	goos string
}

// New builds a Runtime for the host platform.
func New(r shell.Runner, st *state.State) *Runtime {
	return &Runtime{run: r, st: st, goos: runtime.GOOS}
}

// Ensure installs nvm (Linux only, via the upstream script) and a Node LTS
// runtime. Every failure inside this step degrades instead of aborting.
func (rt *Runtime) Ensure() (Result, error) {
	loader, found := LocateLoader()
	if !found {
		if rt.goos != "linux" {
			// On macOS the tool table installs nvm through Homebrew; a
			// missing loader here means that row was skipped or the brew
			// formula changed its layout. Nothing more to try.
			logger.Warn("[WARN] nvm loader not found. Continuing without a Node runtime.\n")
			return Degraded, nil
		}
		logger.Info("[INFO] Installing nvm with the upstream install script...\n")
		if err := rt.runInstallScript(); err != nil {
			logger.Warn("[WARN] nvm install script failed: %v. Continuing without a Node runtime.\n", err)
			return Degraded, nil
		}
		loader, found = LocateLoader()
		if !found {
			logger.Warn("[WARN] nvm loader still missing after install. Continuing without a Node runtime.\n")
			return Degraded, nil
		}
	}

	// Trust the loader only after it sources cleanly.
	if output, err := rt.sourcing(loader, "nvm --version"); err != nil {
		logger.Warn("[WARN] Failed to load nvm from %s: %v\nOutput: %s\n", loader, err, output)
		logger.Warn("[WARN] Continuing without a Node runtime; install Node manually or re-run.\n")
		return Degraded, nil
	}

	if _, err := rt.run.LookPath("node"); err == nil {
		logger.Info("[INFO] Node runtime already managed. Skipping.\n")
		return Skipped, nil
	}

	logger.Info("[INFO] Installing Node LTS with nvm...\n")
	if output, err := rt.sourcing(loader, "nvm install --lts"); err != nil {
		logger.Warn("[WARN] nvm install --lts failed: %v\nOutput: %s\n", err, output)
		return Degraded, nil
	}
	rt.st.Tools["node"] = state.ToolState{Manager: "nvm", InstalledBySetup: true}
	logger.Info("[INFO] Installed Node LTS\n")
	return Applied, nil
}

// EnsureGlobals installs the npm global packages. Unlike the runtime
// bootstrap these are required: a failing npm install aborts the run. When
// npm is unavailable because the bootstrap degraded, the whole step is
// skipped with a warning. The result is meaningful only when err is nil.
func (rt *Runtime) EnsureGlobals(globals []manifest.Global) (Result, error) {
	if len(globals) == 0 {
		return Skipped, nil
	}

	_, npmDirect := rt.lookPath("npm")
	loader, haveLoader := LocateLoader()
	if !npmDirect && !haveLoader {
		logger.Warn("[WARN] npm is not available; skipping %d global packages.\n", len(globals))
		return Skipped, nil
	}

	installed := 0
	for _, g := range globals {
		if _, ok := rt.lookPath(g.Check); ok {
			logger.Info("[INFO] %s already installed. Skipping.\n", g.Name)
			continue
		}

		logger.Info("[INFO] Installing npm package %s...\n", g.Name)
		var output []byte
		var err error
		if npmDirect {
			output, err = rt.run.Run("npm", "install", "-g", g.Name)
		} else {
			output, err = rt.sourcing(loader, "npm install -g "+g.Name)
		}
		if err != nil {
			logger.Error("[ERROR] Failed to install %s: %v\nOutput: %s\n", g.Name, err, output)
			return Degraded, err
		}
		rt.st.Tools[g.Name] = state.ToolState{Manager: "npm", InstalledBySetup: true}
		logger.Info("[INFO] Installed %s\n", g.Name)
		installed++
	}
	if installed == 0 {
		return Skipped, nil
	}
	return Applied, nil
}

// runInstallScript downloads the upstream installer and executes it with
// bash, the same two commands a person would run by hand.
func (rt *Runtime) runInstallScript() error {
	script := filepath.Join(os.TempDir(), "nvm-install.sh")
	output, err := rt.run.Run("curl", "-L", InstallScriptURL, "-o", script)
	if err != nil {
		return fmt.Errorf("download install script: %v\nOutput: %s", err, output)
	}
	output, err = rt.run.Run("bash", script)
	if err != nil {
		return fmt.Errorf("run install script: %v\nOutput: %s", err, output)
	}
	return nil
}

// sourcing runs a command in a bash shell with the nvm loader sourced.
func (rt *Runtime) sourcing(loader, command string) ([]byte, error) {
	return rt.run.Run("bash", "-c", fmt.Sprintf("source %q && %s", loader, command))
}

func (rt *Runtime) lookPath(file string) (string, bool) {
	path, err := rt.run.LookPath(file)
	return path, err == nil
}

// Package provision runs the end-to-end provisioning sequence: command
// line tools through the native package manager, then configuration files,
// then the Node runtime. Steps run strictly one after another. A failing
// required step aborts the run; a degraded runtime bootstrap does not.
package provision

import (
	"time"

	"github.com/panariellop/setup-workstation/internal/dotfiles"
	"github.com/panariellop/setup-workstation/internal/installer"
	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/manifest"
	"github.com/panariellop/setup-workstation/internal/nvm"
	"github.com/panariellop/setup-workstation/internal/platform"
	"github.com/panariellop/setup-workstation/internal/shell"
	"github.com/panariellop/setup-workstation/internal/state"
)

// Item is one line of the run summary or the doctor report.
type Item struct {
	Kind    string // "manager", "tool", "config", "runtime", "globals" or "state"
	Name    string
	Outcome string
	Detail  string
}

// HostPaths points at the files provisioning manages on this machine.
type HostPaths struct {
	EditorConfig string
	TmuxConfig   string
	TPMDir       string
}

// DefaultHostPaths resolves the managed file locations under the user's
// home directory.
func DefaultHostPaths() (HostPaths, error) {
	editor, err := dotfiles.EditorConfigPath()
	if err != nil {
		return HostPaths{}, err
	}
	tmux, err := dotfiles.TmuxConfigPath()
	if err != nil {
		return HostPaths{}, err
	}
	tpm, err := dotfiles.TPMPath()
	if err != nil {
		return HostPaths{}, err
	}
	return HostPaths{EditorConfig: editor, TmuxConfig: tmux, TPMDir: tpm}, nil
}

// Engine drives provisioning steps against one command runner and one
// state document. It is not safe for concurrent use.
type Engine struct {
	man       manifest.Manifest
	st        *state.State
	run       shell.Runner
	inst      *installer.Installer
	rt        *nvm.Runtime
	paths     HostPaths
	stateFile string

	items    []Item
	degraded bool
}

// New detects the platform and resolves its package manager. Both are
// hard requirements: an unsupported OS or a missing manager aborts
// provisioning before any step runs.
func New(man manifest.Manifest, st *state.State, stateFile string, r shell.Runner) (*Engine, error) {
	mgr, err := platform.Detect(r)
	if err != nil {
		return nil, err
	}
	if _, err := mgr.Resolve(); err != nil {
		return nil, err
	}
	paths, err := DefaultHostPaths()
	if err != nil {
		return nil, err
	}
	return &Engine{
		man:       man,
		st:        st,
		run:       r,
		inst:      installer.New(mgr, st, r),
		rt:        nvm.New(r, st),
		paths:     paths,
		stateFile: stateFile,
	}, nil
}

// Run executes the given steps, or the full sequence when none are named,
// then records the run in the state file and prints the summary. Completed
// steps are never rolled back; the first failure stops the run and is
// returned after the state write.
func (e *Engine) Run(steps ...func() error) error {
	if len(steps) == 0 {
		steps = []func() error{e.Tools, e.Configs, e.Runtime}
	}

	run := state.NewRun()
	e.st.LastRun = run

	var err error
	for _, step := range steps {
		if err = step(); err != nil {
			break
		}
	}

	run.FinishedAt = time.Now().UTC()
	run.Status = e.status(err)
	state.SaveState(e.stateFile, e.st)
	e.summary(run.Status)
	return err
}

// Tools walks the manifest table and makes each row true.
func (e *Engine) Tools() error {
	logger.Info("[INFO] Ensuring command line tools...\n")
	for _, tool := range e.man.Tools {
		action, err := e.inst.EnsureTool(tool)
		if err != nil {
			e.record("tool", tool.Name, "failed", err.Error())
			return err
		}
		e.record("tool", tool.Name, action.String(), "")
	}
	return nil
}

// Configs writes the editor config once, keeps the multiplexer's managed
// block current and clones the plugin manager.
func (e *Engine) Configs() error {
	logger.Info("[INFO] Ensuring configuration files...\n")

	action, err := dotfiles.EnsureEditorConfig(e.paths.EditorConfig)
	if err != nil {
		e.record("config", e.paths.EditorConfig, "failed", err.Error())
		return err
	}
	e.recordConfig(e.paths.EditorConfig, action)

	action, err = dotfiles.EnsureTmuxConfig(e.paths.TmuxConfig)
	if err != nil {
		e.record("config", e.paths.TmuxConfig, "failed", err.Error())
		return err
	}
	e.recordConfig(e.paths.TmuxConfig, action)

	action, err = dotfiles.EnsureTPM(e.run, e.paths.TPMDir)
	if err != nil {
		e.record("config", e.paths.TPMDir, "failed", err.Error())
		return err
	}
	e.recordConfig(e.paths.TPMDir, action)
	return nil
}

// Runtime bootstraps nvm and Node LTS, then installs the npm globals.
// Bootstrap trouble degrades the run instead of failing it; a failing npm
// global install is fatal.
func (e *Engine) Runtime() error {
	logger.Info("[INFO] Ensuring the Node runtime...\n")

	res, err := e.rt.Ensure()
	if err != nil {
		e.record("runtime", "node", "failed", err.Error())
		return err
	}
	e.record("runtime", "node", res.String(), "")
	if res == nvm.Degraded {
		e.degraded = true
		logger.Warn("[WARN] Node runtime unavailable. Skipping npm globals.\n")
		e.record("globals", "npm packages", "skipped", "runtime degraded")
		return nil
	}

	gres, err := e.rt.EnsureGlobals(e.man.Globals)
	if err != nil {
		e.record("globals", "npm packages", "failed", err.Error())
		return err
	}
	e.record("globals", "npm packages", gres.String(), "")
	return nil
}

// Report returns the per-item outcomes recorded so far.
func (e *Engine) Report() []Item {
	return e.items
}

func (e *Engine) record(kind, name, outcome, detail string) {
	e.items = append(e.items, Item{Kind: kind, Name: name, Outcome: outcome, Detail: detail})
}

// recordConfig adds the summary line and, when the file actually changed,
// the state entry.
func (e *Engine) recordConfig(path string, action dotfiles.Action) {
	e.record("config", path, action.String(), "")
	if action == dotfiles.Unchanged {
		return
	}
	e.st.Configs[path] = state.ConfigState{Action: action.String(), AppliedAt: time.Now().UTC()}
}

func (e *Engine) status(err error) string {
	switch {
	case err != nil:
		return "failed"
	case e.degraded:
		return "degraded"
	default:
		return "ok"
	}
}

func (e *Engine) summary(status string) {
	logger.Info("[INFO] Run finished: %s\n", status)
	PrintItems(e.items)
}

// PrintItems prints one aligned line per report item.
func PrintItems(items []Item) {
	for _, it := range items {
		if it.Detail != "" {
			logger.Info("[INFO]   %-8s %-14s %s (%s)\n", it.Kind, it.Name, it.Outcome, it.Detail)
			continue
		}
		logger.Info("[INFO]   %-8s %-14s %s\n", it.Kind, it.Name, it.Outcome)
	}
}

package provision

import (
	"os"
	"runtime"
	"time"

	"github.com/panariellop/setup-workstation/internal/dotfiles"
	"github.com/panariellop/setup-workstation/internal/installer"
	"github.com/panariellop/setup-workstation/internal/manifest"
	"github.com/panariellop/setup-workstation/internal/nvm"
	"github.com/panariellop/setup-workstation/internal/platform"
	"github.com/panariellop/setup-workstation/internal/shell"
	"github.com/panariellop/setup-workstation/internal/state"
)

// Doctor reports what is installed and which managed files are current,
// without changing anything on the machine.
func Doctor(man manifest.Manifest, st *state.State, r shell.Runner, paths HostPaths) []Item {
	items := make([]Item, 0, len(man.Tools)+len(man.Globals)+8)

	mgr, err := platform.Detect(r)
	switch {
	case err != nil:
		items = append(items, Item{Kind: "manager", Name: runtime.GOOS, Outcome: "unsupported"})
	default:
		if path, rerr := mgr.Resolve(); rerr != nil {
			items = append(items, Item{Kind: "manager", Name: mgr.Name, Outcome: "missing"})
		} else {
			items = append(items, Item{Kind: "manager", Name: mgr.Name, Outcome: "ready", Detail: path})
		}
	}

	for _, tool := range man.Tools {
		if !tool.SupportsPlatform(runtime.GOOS) {
			items = append(items, Item{Kind: "tool", Name: tool.Name, Outcome: "skipped", Detail: "not supported on " + runtime.GOOS})
			continue
		}
		path, ok := installer.Probe(r, tool)
		if !ok {
			items = append(items, Item{Kind: "tool", Name: tool.Name, Outcome: "missing"})
			continue
		}
		detail := path
		if ts, tracked := st.Tools[tool.Name]; tracked && ts.InstalledBySetup {
			detail += " (installed by setup-workstation)"
		}
		items = append(items, Item{Kind: "tool", Name: tool.Name, Outcome: "present", Detail: detail})
	}

	items = append(items,
		Item{Kind: "config", Name: paths.EditorConfig, Outcome: presence(paths.EditorConfig)},
		Item{Kind: "config", Name: paths.TmuxConfig, Outcome: dotfiles.InspectTmux(paths.TmuxConfig)},
		Item{Kind: "config", Name: paths.TPMDir, Outcome: presence(paths.TPMDir)},
	)

	if loader, ok := nvm.LocateLoader(); ok {
		items = append(items, Item{Kind: "runtime", Name: "nvm", Outcome: "present", Detail: loader})
	} else {
		items = append(items, Item{Kind: "runtime", Name: "nvm", Outcome: "missing"})
	}
	if path, err := r.LookPath("node"); err == nil {
		items = append(items, Item{Kind: "runtime", Name: "node", Outcome: "present", Detail: path})
	} else {
		items = append(items, Item{Kind: "runtime", Name: "node", Outcome: "missing"})
	}

	for _, g := range man.Globals {
		if path, err := r.LookPath(g.Check); err == nil {
			items = append(items, Item{Kind: "global", Name: g.Name, Outcome: "present", Detail: path})
		} else {
			items = append(items, Item{Kind: "global", Name: g.Name, Outcome: "missing"})
		}
	}

	if st.LastRun != nil {
		items = append(items, Item{
			Kind:    "state",
			Name:    "last run",
			Outcome: st.LastRun.Status,
			Detail:  st.LastRun.FinishedAt.Format(time.RFC3339),
		})
	}
	return items
}

func presence(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "present"
	}
	return "absent"
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/panariellop/setup-workstation/internal/installer"
	"github.com/panariellop/setup-workstation/internal/manifest"
	"github.com/panariellop/setup-workstation/internal/platform"
	"github.com/panariellop/setup-workstation/internal/shell"
	"github.com/panariellop/setup-workstation/internal/state"
)

// uninstallCmd removes tools recorded as installed by this CLI. Tools that
// were already on the machine are refused.
var uninstallCmd = &cobra.Command{
	Use:   "uninstall <tool>...",
	Short: "Remove tools this CLI installed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		man, err := loadManifest()
		if err != nil {
			return err
		}
		st := state.LoadState(stateFile)

		runner := shell.System{}
		mgr, err := platform.Detect(runner)
		if err != nil {
			return err
		}
		if _, err := mgr.Resolve(); err != nil {
			return err
		}
		inst := installer.New(mgr, st, runner)

		// Save whatever was removed even when a later name fails.
		defer state.SaveState(stateFile, st)

		for _, name := range args {
			if err := inst.Uninstall(toolNamed(man, name)); err != nil {
				return err
			}
		}
		return nil
	},
}

// toolNamed finds the manifest row for a name. Names outside the table get
// a minimal row so state-tracked extras, npm globals mostly, can still be
// removed.
func toolNamed(man manifest.Manifest, name string) manifest.Tool {
	for _, tool := range man.Tools {
		if tool.Name == name {
			return tool
		}
	}
	return manifest.Tool{Name: name}
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

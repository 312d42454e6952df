package cmd

import (
	"github.com/spf13/cobra"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/provision"
	"github.com/panariellop/setup-workstation/internal/shell"
	"github.com/panariellop/setup-workstation/internal/state"
)

// doctorCmd prints what is installed and which managed files are current.
// It never changes anything.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report workstation status without changing anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		man, err := loadManifest()
		if err != nil {
			return err
		}
		hostPaths, err := provision.DefaultHostPaths()
		if err != nil {
			return err
		}
		st := state.LoadState(stateFile)

		logger.Info("[INFO] Workstation report:\n")
		provision.PrintItems(provision.Doctor(man, st, shell.System{}, hostPaths))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

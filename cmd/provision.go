package cmd

import (
	"github.com/spf13/cobra"

	"github.com/panariellop/setup-workstation/internal/provision"
	"github.com/panariellop/setup-workstation/internal/shell"
	"github.com/panariellop/setup-workstation/internal/state"
)

// provisionCmd runs the full sequence: tools, then configuration files,
// then the Node runtime.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Install tools, write configs and set up the Node runtime",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.Run()
	},
}

// provisionToolsCmd installs only the command line tools.
var provisionToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Install only the command line tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.Run(eng.Tools)
	},
}

// provisionConfigsCmd writes only the managed configuration files.
var provisionConfigsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Write only the managed configuration files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.Run(eng.Configs)
	},
}

// provisionRuntimeCmd sets up only the Node runtime and npm globals.
var provisionRuntimeCmd = &cobra.Command{
	Use:   "runtime",
	Short: "Set up only the Node runtime and npm globals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.Run(eng.Runtime)
	},
}

// newEngine builds the provisioning engine from the resolved manifest and
// state locations.
func newEngine() (*provision.Engine, error) {
	man, err := loadManifest()
	if err != nil {
		return nil, err
	}
	st := state.LoadState(stateFile)
	return provision.New(man, st, stateFile, shell.System{})
}

func init() {
	provisionCmd.AddCommand(provisionToolsCmd)
	provisionCmd.AddCommand(provisionConfigsCmd)
	provisionCmd.AddCommand(provisionRuntimeCmd)
	rootCmd.AddCommand(provisionCmd)
}

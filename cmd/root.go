package cmd

import (
	"github.com/spf13/cobra"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/manifest"
	"github.com/panariellop/setup-workstation/internal/paths"
)

// Global flag values, registered on the root command.
var (
	debug         bool
	flagConfigDir string
	flagManifest  string
	flagStateFile string
)

// Resolved by the persistent pre-run so every subcommand shares them.
var (
	// manifestFile is the custom manifest path; empty means the built-in
	// tool table.
	manifestFile string

	// stateFile is where the run state document lives.
	stateFile string
)

// rootCmd is the base command for the setup-workstation CLI.
var rootCmd = &cobra.Command{
	Use:   "setup-workstation",
	Short: "Provision a developer workstation",
	Long: `setup-workstation installs a small set of command line tools, writes
editor and terminal multiplexer configuration, and sets up a Node runtime.
Running it twice is safe: anything already in place is left alone.`,
	SilenceUsage: true,

	// Every subcommand inherits the logger setup and the resolved paths.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(debug)
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		settings, err := loadSettings(configDir)
		if err != nil {
			return err
		}

		manifestFile = flagManifest
		if manifestFile == "" {
			manifestFile = settings.GetString(settingsKeyManifest)
		}
		stateFile, err = paths.ResolveStateFile(flagStateFile, settings.GetString(settingsKeyState))
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagManifest, "manifest", "", "Custom tool manifest YAML (default: built-in table)")
	rootCmd.PersistentFlags().StringVar(&flagStateFile, "state-file", "", "State file location (default: platform state dir)")
}

// loadManifest returns the tool table: the built-in defaults, or the
// manifest file named by the flag or settings.
func loadManifest() (manifest.Manifest, error) {
	if manifestFile == "" {
		return manifest.Default(), nil
	}
	return manifest.Load(manifestFile)
}

// Execute runs the CLI. The caller maps the returned error to an exit code.
func Execute() error {
	return rootCmd.Execute()
}

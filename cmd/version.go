package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at release time.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the setup-workstation version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("setup-workstation", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package cmd

import (
	"fmt"

	"learnbase/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the learnbase version",
	// Overrides the root hook so no config or database is touched.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.AppVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

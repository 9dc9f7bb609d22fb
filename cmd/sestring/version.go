package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set by -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "sestring", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

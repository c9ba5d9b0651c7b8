package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "v0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wame %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

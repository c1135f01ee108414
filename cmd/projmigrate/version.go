package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			outputJSON(map[string]string{
				"version":  Version,
				"build":    Build,
				"platform": runtime.GOOS + "/" + runtime.GOARCH,
			})
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "projmigrate version %s (%s) %s/%s\n", Version, Build, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

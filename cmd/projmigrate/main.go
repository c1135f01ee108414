package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/projmigrate/internal/config"
	"github.com/steveyegge/projmigrate/internal/debug"
)

var (
	// Version is the current version of projmigrate (overridden by ldflags at build time)
	Version = "0.1.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
)

var (
	verboseFlag bool
	quietFlag   bool
	configFile  string
	jsonOutput  bool

	rootCtx    = context.Background()
	rootCancel context.CancelFunc = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "projmigrate",
	Short: "Migrate GitHub Projects between organizations, users and GitHub instances",
	Long: `projmigrate recreates a GitHub project from an exported snapshot: it creates
the project, links repositories, recreates custom fields and replays items and
their field values, translating repositories through a mapping file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)
		if err := config.InitializeWithFile(configFile); err != nil {
			return err
		}
		if used := config.ConfigFileUsed(); used != "" {
			debug.Logf("Using config file %s\n", used)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		rootCancel()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/projmigrate/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		FatalError("%v", err)
	}
}

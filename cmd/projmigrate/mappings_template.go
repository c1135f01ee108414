package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/projmigrate/internal/debug"
	"github.com/steveyegge/projmigrate/internal/mapping"
	"github.com/steveyegge/projmigrate/internal/snapshot"
	"github.com/steveyegge/projmigrate/internal/ui"
)

var mappingsTemplateCmd = &cobra.Command{
	Use:   "mappings-template",
	Short: "Write a repository mapping template for a project snapshot",
	Long: `Write a CSV with one row per repository referenced by the snapshot. Fill in
the target_repository column (owner/name) before running 'projmigrate import';
rows left empty are skipped during the migration.`,
	RunE: runMappingsTemplate,
}

var (
	templateInputPath  string
	templateOutputPath string
)

func init() {
	mappingsTemplateCmd.Flags().StringVar(&templateInputPath, "input-path", "", "Path to the exported project snapshot (JSON)")
	mappingsTemplateCmd.Flags().StringVar(&templateOutputPath, "output-path", "", "Where to write the CSV (default: stdout)")
	_ = mappingsTemplateCmd.MarkFlagRequired("input-path")

	rootCmd.AddCommand(mappingsTemplateCmd)
}

func runMappingsTemplate(cmd *cobra.Command, args []string) error {
	snap, err := snapshot.LoadFile(templateInputPath)
	if err != nil {
		return err
	}
	repos := snapshot.RepositoryNames(snap)

	var out io.Writer = cmd.OutOrStdout()
	if templateOutputPath != "" {
		f, err := os.OpenFile(templateOutputPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return fmt.Errorf("creating %s: %w", templateOutputPath, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := mapping.WriteTemplate(out, repos); err != nil {
		return err
	}
	if templateOutputPath != "" {
		debug.PrintNormal("%s Wrote %d repositories to %s\n", ui.RenderPassIcon(), len(repos), ui.RenderAccent(templateOutputPath))
	}
	return nil
}

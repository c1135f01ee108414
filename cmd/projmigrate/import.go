package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/steveyegge/projmigrate/internal/config"
	"github.com/steveyegge/projmigrate/internal/debug"
	gh "github.com/steveyegge/projmigrate/internal/github"
	"github.com/steveyegge/projmigrate/internal/mapping"
	"github.com/steveyegge/projmigrate/internal/migrate"
	"github.com/steveyegge/projmigrate/internal/snapshot"
	"github.com/steveyegge/projmigrate/internal/telemetry"
	"github.com/steveyegge/projmigrate/internal/types"
	"github.com/steveyegge/projmigrate/internal/ui"
	"github.com/steveyegge/projmigrate/internal/updatecheck"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create a project from an exported snapshot",
	Long: `Create a new project owned by --project-owner and replay the snapshot into it.

Repositories are translated through the mapping file; items whose repository has
no mapping, or whose issue or pull request cannot be found, are skipped with a
warning. The built-in Status field cannot be edited through the API, so the
import pauses and asks you to set its options by hand.

Configuration can also be set in the config file or environment:
  github.token / GITHUB_TOKEN                  - Personal access token
  github.base-url / PROJMIGRATE_GITHUB_BASE_URL - API base URL (GitHub Enterprise Server)
  github.proxy-url / PROJMIGRATE_GITHUB_PROXY_URL - HTTP(S) proxy`,
	RunE: runImport,
}

var (
	importInputPath    string
	importMappingsPath string
	importOwner        string
	importOwnerType    string
	importProjectTitle string
)

// flagConfigKeys maps import flags onto the config keys they override.
var flagConfigKeys = map[string]string{
	"access-token":      config.KeyGitHubToken,
	"base-url":          config.KeyGitHubBaseURL,
	"proxy-url":         config.KeyGitHubProxyURL,
	"disable-telemetry": config.KeyTelemetryDisabled,
	"skip-update-check": config.KeyUpdateCheckOff,
	"title-mismatch":    config.KeyTitleMismatch,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importInputPath, "input-path", "", "Path to the exported project snapshot (JSON)")
	f.StringVar(&importMappingsPath, "repository-mappings-path", "", "Path to the repository mapping CSV")
	f.StringVar(&importOwner, "project-owner", "", "Organization or user that will own the new project")
	f.StringVar(&importOwnerType, "project-owner-type", "organization", "Owner type: organization or user")
	f.StringVar(&importProjectTitle, "project-title", "", "Title of the new project (default: the source title)")

	f.String("access-token", "", "GitHub access token (default: $GITHUB_TOKEN)")
	f.String("base-url", "", "GitHub API base URL (default: https://api.github.com)")
	f.String("proxy-url", "", "HTTP(S) proxy for API requests")
	f.Bool("disable-telemetry", false, "Disable telemetry export")
	f.Bool("skip-update-check", false, "Skip checking for a newer projmigrate release")
	f.String("title-mismatch", "", "What to do when a target issue title differs: warn or fail (default: warn)")

	_ = importCmd.MarkFlagRequired("input-path")
	_ = importCmd.MarkFlagRequired("repository-mappings-path")
	_ = importCmd.MarkFlagRequired("project-owner")

	rootCmd.AddCommand(importCmd)
}

// applyFlagOverrides copies explicitly set flags into the config so flags win
// over the config file and environment.
func applyFlagOverrides(cmd *cobra.Command) {
	for name, key := range flagConfigKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
			config.Set(key, flag.Value.String())
		}
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	applyFlagOverrides(cmd)

	token := config.GetString(config.KeyGitHubToken)
	if token == "" {
		return withHint(fmt.Errorf("%w: GitHub access token", migrate.ErrMissingInput),
			"pass --access-token or set GITHUB_TOKEN")
	}
	ownerKind, err := types.ParseOwnerKind(importOwnerType)
	if err != nil {
		return err
	}
	titlePolicy, err := migrate.ParseTitleMismatchPolicy(config.GetString(config.KeyTitleMismatch))
	if err != nil {
		return err
	}

	ctx := rootCtx
	if !config.GetBool(config.KeyUpdateCheckOff) {
		checkForUpdate(ctx)
	}

	snap, err := snapshot.LoadFile(importInputPath)
	if err != nil {
		return err
	}
	table, err := mapping.LoadFile(importMappingsPath)
	if err != nil {
		if errors.Is(err, mapping.ErrMalformedMappingFile) {
			return withHint(err, "generate one with 'projmigrate mappings-template --input-path "+importInputPath+"'")
		}
		return err
	}
	debug.Logf("Loaded %d fields, %d items and %d repository mappings\n", len(snap.Fields), len(snap.Items), table.Len())

	if err := telemetry.Init(ctx, telemetry.ConfigFromEnv(config.GetBool(config.KeyTelemetryDisabled)), "projmigrate", Version); err != nil {
		WarnError("telemetry disabled: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	client, err := newGitHubClient(token)
	if err != nil {
		return err
	}

	prompter := ui.NewStatusPrompter()
	if jsonOutput {
		prompter.Out = os.Stderr
	}

	engine := migrate.NewEngine(telemetry.WrapTarget(client), prompter, migrate.Options{
		OwnerLogin:    importOwner,
		OwnerKind:     ownerKind,
		ProjectTitle:  importProjectTitle,
		TitleMismatch: titlePolicy,
	})
	engine.OnMessage = func(msg string) {
		if jsonOutput {
			debug.Logf("%s\n", msg)
			return
		}
		debug.PrintNormal("%s %s\n", ui.RenderMuted("→"), msg)
	}
	engine.OnWarning = func(msg string) {
		debug.Warnf("%s %s\n", ui.RenderWarnIcon(), ui.RenderWarn(msg))
	}

	result, runErr := runWithRateLimitPoller(ctx, client, func(ctx context.Context) (*migrate.Result, error) {
		return engine.Run(ctx, snap, table)
	})

	if jsonOutput {
		outputJSON(result)
		return runErr
	}
	if runErr != nil {
		if result != nil && result.ProjectURL != "" {
			debug.Warnf("Partially migrated project left in place: %s\n", result.ProjectURL)
		}
		return runErr
	}
	printSummary(result)
	return nil
}

func newGitHubClient(token string) (*gh.Client, error) {
	client := gh.NewClient(token).WithBaseURL(config.GetString(config.KeyGitHubBaseURL))
	if proxy := config.GetString(config.KeyGitHubProxyURL); proxy != "" {
		return client.WithProxyURL(proxy)
	}
	return client, nil
}

// runWithRateLimitPoller runs the migration while a poller reports the
// remaining API budget. The poller stops when the migration returns.
func runWithRateLimitPoller(ctx context.Context, client gh.RateLimitFetcher, run func(context.Context) (*migrate.Result, error)) (*migrate.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result *migrate.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gh.PollRateLimit(gctx, client, config.GetDuration(config.KeyRateLimitInterval), reportRateLimit, func(err error) {
			debug.Logf("Rate limit check failed: %v\n", err)
		})
	})
	g.Go(func() error {
		defer cancel()
		var err error
		result, err = run(gctx)
		return err
	})
	err := g.Wait()
	return result, err
}

func reportRateLimit(rl gh.RateLimit) {
	debug.Logf("Rate limit: %d/%d remaining, resets at %s\n", rl.Remaining, rl.Limit, rl.ResetAt.Local().Format(time.Kitchen))
	if rl.Limit > 0 && rl.Remaining*10 < rl.Limit {
		debug.Warnf("%s %s\n", ui.RenderWarnIcon(),
			ui.RenderWarn(fmt.Sprintf("Only %d of %d API points left until %s", rl.Remaining, rl.Limit, rl.ResetAt.Local().Format(time.Kitchen))))
	}
}

func checkForUpdate(ctx context.Context) {
	res, err := updatecheck.NewChecker().Check(ctx, Version)
	if err != nil {
		debug.Logf("Update check failed: %v\n", err)
		return
	}
	if res.UpdateAvailable {
		WarnError("projmigrate %s is available (you have %s)", res.Latest, res.Current)
	}
}

func printSummary(result *migrate.Result) {
	s := result.Stats
	debug.PrintlnNormal()
	debug.PrintNormal("%s Migrated %d items (%d skipped, %d archived), %d fields, %d repositories\n",
		ui.RenderPassIcon(), s.ItemsCreated, s.ItemsSkipped, s.ItemsArchived, s.FieldsCreated, s.RepositoriesLinked)
	if len(result.Warnings) > 0 {
		debug.PrintNormal("%s %d warnings\n", ui.RenderWarnIcon(), len(result.Warnings))
	}
	// The URL is the one line scripts rely on; print it even in quiet mode.
	fmt.Println(result.ProjectURL)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/config"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/database"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/logger"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical/dbstore"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider"
	syncfeature "github.com/mtrifilo/psychic-homily-web-sub009/feature/sync"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/sync/envclient"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for sync commands
	syncTargets []string
	syncDryRun  bool
	syncStatus  string
)

// syncCmd is the parent command for cross-environment operations.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replicate shows to remote environments",
	Long: `Sync pushes local shows to remote environments as self-contained
candidates. The remote side resolves identity against its own store, so
syncing is idempotent and environments never need matching ids.`,
}

// syncPushCmd pushes local shows to the configured targets.
var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push local shows to remote environments",
	Long: `Push replicates local shows to every configured target, or the targets
named with --target. Targets fail independently; a missing credential or an
unreachable environment never blocks the others.

Examples:
  # Dry-run against every target
  sync push --dry-run

  # Push approved shows to staging only
  sync push --target staging

  # Push pending shows
  sync push --status pending`,
	RunE: runSyncPush,
}

// syncVerifyCmd compares local and remote show sets by slug.
var syncVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare local and remote show sets",
	Long: `Verify lists the shows that exist locally but not on a target and vice
versa. Slugs are deterministic across environments, so they serve as the
comparison key.`,
	RunE: runSyncVerify,
}

func init() {
	syncCmd.PersistentFlags().StringSliceVar(&syncTargets, "target", nil, "Restrict to the named targets (repeatable)")
	syncCmd.PersistentFlags().StringVar(&syncStatus, "status", "approved", "Status filter for shows to sync")
	syncPushCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report remote outcomes without writing anything")

	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncVerifyCmd)
	RootCmd.AddCommand(syncCmd)
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	l, store, offsets, targets, err := syncDeps()
	if err != nil {
		return err
	}
	defer l.Sync()

	batch, err := localBatch(ctx, store, offsets, syncStatus)
	if err != nil {
		return err
	}
	l.Info("Pushing local shows",
		zap.Int("shows", len(batch.Shows)),
		zap.Int("venues", len(batch.Venues)),
		zap.Int("artists", len(batch.Artists)),
		zap.Bool("dry_run", syncDryRun),
	)

	orch := syncfeature.NewOrchestrator(func(t syncfeature.Target, credential string) syncfeature.Client {
		return envclient.New(t.BaseURL, credential)
	}, l)

	results := orch.Run(ctx, targets, batch, syncDryRun)
	for _, res := range results {
		if res.Err != nil && res.Result == nil {
			l.Error("target skipped", zap.String("target", res.Target), zap.Error(res.Err))
			continue
		}
		l.Info("target result",
			zap.String("target", res.Target),
			zap.Int("shows_total", res.Result.Shows.Total),
			zap.Int("shows_imported", res.Result.Shows.Imported),
			zap.Int("shows_duplicate", res.Result.Shows.Duplicates),
			zap.Int("shows_errors", res.Result.Shows.Errors),
		)
	}
	return nil
}

func runSyncVerify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	l, store, _, targets, err := syncDeps()
	if err != nil {
		return err
	}
	defer l.Sync()

	for _, target := range targets {
		credential, err := target.Credential()
		if err != nil {
			l.Error("target skipped", zap.String("target", target.Name), zap.Error(err))
			continue
		}

		client := envclient.New(target.BaseURL, credential)
		report, err := syncfeature.Verify(ctx, store, client, target.Name, syncStatus)
		if err != nil {
			l.Error("verify failed", zap.String("target", target.Name), zap.Error(err))
			continue
		}

		l.Info("verify report",
			zap.String("target", report.Target),
			zap.Int("in_both", report.InBoth),
			zap.Int("local_total", report.LocalTotal),
			zap.Int("remote_total", report.RemoteTotal),
			zap.Strings("local_only", report.LocalOnly),
			zap.Strings("remote_only", report.RemoteOnly),
		)
	}
	return nil
}

// syncDeps loads everything the sync commands share.
func syncDeps() (*zap.Logger, *dbstore.Store, canonical.Offsets, []syncfeature.Target, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	sourcesFile, err := provider.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load sources: %w", err)
	}
	offsets := canonical.Offsets(sourcesFile.Timezones)

	allTargets, err := syncfeature.LoadTargets(cfg.SourcesFile)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	targets, err := syncfeature.Pick(allTargets, syncTargets)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return l, dbstore.New(db), offsets, targets, nil
}

// localBatch pages every matching local show out of the store and derives
// the venues and artists they reference.
func localBatch(ctx context.Context, store *dbstore.Store, offsets canonical.Offsets, status string) (importer.Batch, error) {
	const perPage = 100

	var candidates []canonical.Candidate
	for page := 1; ; page++ {
		shows, total, err := store.ListShows(ctx, status, page, perPage)
		if err != nil {
			return importer.Batch{}, err
		}
		for i := range shows {
			candidates = append(candidates, canonical.CandidateFromShow(&shows[i], offsets))
		}
		if len(shows) == 0 || int64(len(candidates)) >= total {
			break
		}
	}
	return importer.BatchFromShows(candidates), nil
}

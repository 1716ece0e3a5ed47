package cmd

import (
	"context"
	"fmt"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/config"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/database"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/logger"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/slug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var backfillDryRun bool

// backfillCmd assigns slugs to records that do not have one yet.
var backfillCmd = &cobra.Command{
	Use:   "backfill-slugs",
	Short: "Assign slugs to records that are missing one",
	Long: `Backfill derives slugs for venues, artists and shows created before slug
generation existed. Records that already have a slug are never touched, so
the command is safe to re-run.

Examples:
  # Report what would change
  backfill-slugs --dry-run

  # Assign the missing slugs
  backfill-slugs`,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "Report changes without writing anything")

	RootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	sourcesFile, err := provider.LoadSources(cfg.SourcesFile)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	backfill := slug.NewBackfill(db, canonical.Offsets(sourcesFile.Timezones), l)
	report, err := backfill.Run(ctx, backfillDryRun)
	if err != nil {
		return err
	}

	l.Info("backfill finished",
		zap.Bool("dry_run", backfillDryRun),
		zap.Int("venues_updated", report.VenuesUpdated),
		zap.Int("artists_updated", report.ArtistsUpdated),
		zap.Int("shows_updated", report.ShowsUpdated),
	)
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/archive"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/config"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/database"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/logger"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/metrics"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/notify"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical/dbstore"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/dedupe"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/ingest"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider/ical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider/jsonld"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for scrape command
	scrapeDryRun      bool
	scrapeIncludePast bool
	scrapeSources     []string
)

// scrapeCmd fetches every configured source and imports what it finds.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape configured sources and import new shows",
	Long: `Scrape fetches every configured venue source, parses its events into
canonical candidates, and imports whatever does not exist yet.

Examples:
  # Report what would be imported without writing anything
  scrape --dry-run

  # Import from a single source
  scrape --source valley-bar

  # Include shows whose date has already passed
  scrape --include-past`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "Report outcomes without writing anything")
	scrapeCmd.Flags().BoolVar(&scrapeIncludePast, "include-past", false, "Import shows whose event date has passed")
	scrapeCmd.Flags().StringSliceVar(&scrapeSources, "source", nil, "Restrict the run to the named sources (repeatable)")

	RootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
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
	offsets := canonical.Offsets(sourcesFile.Timezones)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	store := dbstore.New(db)
	if err := store.Migrate(); err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		go func() {
			if err := m.Serve(cfg.Metrics.Addr); err != nil {
				l.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	var arc *archive.Archive
	if cfg.Archive.Enabled {
		client, err := archive.NewClient(cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to create archive client: %w", err)
		}
		arc = archive.New(client, cfg.Archive.Bucket)
		if err := arc.EnsureBucket(ctx); err != nil {
			return err
		}
	}

	var publisher *notify.Publisher
	if cfg.Notify.URL != "" {
		publisher, err = notify.NewPublisher(cfg.Notify)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		defer publisher.Close()
	}

	fetcher := provider.NewFetcher(30 * time.Second)
	registry := provider.NewRegistry(jsonld.New(fetcher), ical.New(fetcher))

	imp := importer.New(store, dedupe.NewResolver(offsets), m, l)
	svc := ingest.NewService(registry, canonical.NewCanonicalizer(offsets), imp, arc, m, publisher, l)

	report := svc.Run(ctx, sourcesFile.Sources, ingest.Options{
		DryRun:       scrapeDryRun,
		IncludePast:  scrapeIncludePast,
		SourceFilter: scrapeSources,
	})

	printIngestReport(l, report)
	return nil
}

func printIngestReport(l *zap.Logger, report *ingest.Report) {
	for _, sr := range report.Sources {
		if sr.Err != nil {
			l.Error("source failed", zap.String("source", sr.Source), zap.Error(sr.Err))
			continue
		}

		l.Info("source report",
			zap.String("source", sr.Source),
			zap.Int("fetched", sr.Fetched),
			zap.Int("parse_warnings", len(sr.ParseWarnings)),
			zap.Int("imported", sr.Result.Shows.Imported),
			zap.Int("duplicates", sr.Result.Shows.Duplicates),
			zap.Int("skipped", sr.Result.Shows.Skipped),
			zap.Int("errors", sr.Result.Shows.Errors),
		)
		for _, msg := range sr.Result.Shows.Messages {
			l.Info(msg, zap.String("source", sr.Source))
		}
	}
}

package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/archive"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/metrics"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/notify"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls one ingest run.
type Options struct {
	// DryRun reports what would be imported without writing anything.
	DryRun bool

	// IncludePast imports shows whose event date has already passed.
	IncludePast bool

	// SourceFilter restricts the run to the named sources. Empty runs all.
	SourceFilter []string
}

// SourceReport is the result of ingesting one source.
type SourceReport struct {
	Source        string                `json:"source"`
	Fetched       int                   `json:"fetched"`
	ParseWarnings []string              `json:"parse_warnings,omitempty"`
	Result        *importer.BatchResult `json:"result,omitempty"`
	Err           error                 `json:"-"`
}

// Report is the result of one full ingest run.
type Report struct {
	RunID   string         `json:"run_id"`
	Sources []SourceReport `json:"sources"`
}

// Service runs the scrape pipeline: fetch, parse, canonicalize, import.
type Service struct {
	registry       *provider.Registry
	canonicalizer  *canonical.Canonicalizer
	importer       *importer.Importer
	archiveService *archive.Archive
	metrics        *metrics.Metrics
	notifier       *notify.Publisher
	logger         *zap.Logger
}

// NewService creates the ingest service. archiveService, metrics and
// notifier may be nil; those stages are then skipped.
func NewService(
	registry *provider.Registry,
	canonicalizer *canonical.Canonicalizer,
	imp *importer.Importer,
	archiveService *archive.Archive,
	m *metrics.Metrics,
	notifier *notify.Publisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry:       registry,
		canonicalizer:  canonicalizer,
		importer:       imp,
		archiveService: archiveService,
		metrics:        m,
		notifier:       notifier,
		logger:         logger,
	}
}

// Run ingests every configured source concurrently. A source failing to
// fetch is reported in its SourceReport; the run itself never errors for
// per-source failures.
func (s *Service) Run(ctx context.Context, sources []provider.Source, opts Options) *Report {
	report := &Report{RunID: uuid.NewString()}

	selected := filterSources(sources, opts.SourceFilter)
	report.Sources = make([]SourceReport, len(selected))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for idx, src := range selected {
		idx, src := idx, src
		g.Go(func() error {
			sr := s.runSource(gctx, src, opts)
			mu.Lock()
			report.Sources[idx] = sr
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	s.logger.Info("ingest run finished",
		zap.String("run_id", report.RunID),
		zap.Int("sources", len(report.Sources)),
		zap.Bool("dry_run", opts.DryRun),
	)
	return report
}

func (s *Service) runSource(ctx context.Context, src provider.Source, opts Options) SourceReport {
	sr := SourceReport{Source: src.Name}
	scrapedAt := time.Now().UTC()

	adapter, err := s.registry.Get(src.Type)
	if err != nil {
		sr.Err = err
		return sr
	}

	raws, err := adapter.Fetch(ctx, src)
	if err != nil {
		s.logger.Error("source fetch failed", zap.String("source", src.Name), zap.Error(err))
		sr.Err = err
		return sr
	}
	sr.Fetched = len(raws)
	if s.metrics != nil {
		s.metrics.EventsFetched.WithLabelValues(src.Name).Add(float64(len(raws)))
	}

	s.archiveRaws(ctx, src, raws, scrapedAt)

	var candidates []canonical.Candidate
	for _, raw := range raws {
		ev, err := adapter.Parse(raw)
		if err != nil {
			// One malformed event never blocks the rest of the source.
			sr.ParseWarnings = append(sr.ParseWarnings, err.Error())
			if s.metrics != nil {
				s.metrics.ParseFailures.WithLabelValues(src.Name).Inc()
			}
			continue
		}

		cand, err := s.canonicalizer.Canonicalize(ev, src, scrapedAt)
		if err != nil {
			sr.ParseWarnings = append(sr.ParseWarnings, err.Error())
			continue
		}
		candidates = append(candidates, cand)
	}

	impOpts := importer.Options{DryRun: opts.DryRun, Target: "local"}
	if !opts.IncludePast {
		impOpts.SkipBefore = scrapedAt
	}
	sr.Result = s.importer.ImportBatch(ctx, importer.BatchFromShows(candidates), impOpts)

	s.notify(src.Name, opts.DryRun, sr.Result)

	s.logger.Info("source ingested",
		zap.String("source", src.Name),
		zap.Int("fetched", sr.Fetched),
		zap.Int("parse_warnings", len(sr.ParseWarnings)),
		zap.Int("shows_imported", sr.Result.Shows.Imported),
		zap.Int("shows_duplicate", sr.Result.Shows.Duplicates),
	)
	return sr
}

// archiveRaws stores raw payloads best-effort: an archive failure is logged
// and the run continues.
func (s *Service) archiveRaws(ctx context.Context, src provider.Source, raws []provider.RawEvent, capturedAt time.Time) {
	if s.archiveService == nil {
		return
	}
	for _, raw := range raws {
		if _, err := s.archiveService.StoreRaw(ctx, raw.Source, raw.EventID, capturedAt, raw.Payload); err != nil {
			s.logger.Warn("failed to archive raw event",
				zap.String("source", src.Name),
				zap.String("event_id", raw.EventID),
				zap.Error(err),
			)
		}
	}
}

func (s *Service) notify(source string, dryRun bool, result *importer.BatchResult) {
	if s.notifier == nil || dryRun {
		return
	}
	payload := map[string]any{
		"source":     source,
		"imported":   result.Shows.Imported,
		"duplicates": result.Shows.Duplicates,
		"errors":     result.Shows.Errors,
	}
	if err := s.notifier.Publish("import."+source, payload); err != nil {
		s.logger.Warn("failed to publish import notification", zap.String("source", source), zap.Error(err))
	}
}

func filterSources(sources []provider.Source, filter []string) []provider.Source {
	if len(filter) == 0 {
		return sources
	}
	want := make(map[string]bool, len(filter))
	for _, name := range filter {
		want[name] = true
	}
	var selected []provider.Source
	for _, src := range sources {
		if want[src.Name] {
			selected = append(selected, src)
		}
	}
	return selected
}

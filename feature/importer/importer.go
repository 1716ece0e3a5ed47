package importer

import (
	"context"
	"sync"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/metrics"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/dedupe"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/slug"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls one import run.
type Options struct {
	// DryRun reports what would happen without writing anything.
	DryRun bool

	// SkipBefore skips shows whose event instant is before this time.
	// Zero imports everything.
	SkipBefore time.Time

	// Target labels the run in metrics and log output ("local" or an
	// environment name).
	Target string
}

// Importer resolves candidate batches against a store and creates what is
// missing. Every record gets an outcome; one bad record never aborts a batch.
type Importer struct {
	store    canonical.Store
	resolver *dedupe.Resolver
	metrics  *metrics.Metrics
	logger   *zap.Logger

	// concurrency bounds the in-flight records within one phase.
	concurrency int

	keysMu sync.Mutex
	keys   map[string]*sync.Mutex
}

// New creates an Importer. metrics may be nil.
func New(store canonical.Store, resolver *dedupe.Resolver, m *metrics.Metrics, logger *zap.Logger) *Importer {
	return &Importer{
		store:       store,
		resolver:    resolver,
		metrics:     m,
		logger:      logger,
		concurrency: 4,
	}
}

// ImportBatch imports venues, then artists, then shows. The phase order
// guarantees that by the time shows resolve their references, the batch's
// venues and artists already exist.
func (i *Importer) ImportBatch(ctx context.Context, batch Batch, opts Options) *BatchResult {
	result := &BatchResult{}
	if opts.Target == "" {
		opts.Target = "local"
	}

	i.runPhase(ctx, len(batch.Venues), func(ctx context.Context, idx int, out func(status, label string), outErr func(label string, err error)) {
		i.importVenue(ctx, batch.Venues[idx], opts, out, outErr)
	}, &result.Venues, opts.Target, "venue")

	i.runPhase(ctx, len(batch.Artists), func(ctx context.Context, idx int, out func(status, label string), outErr func(label string, err error)) {
		i.importArtist(ctx, batch.Artists[idx], opts, out, outErr)
	}, &result.Artists, opts.Target, "artist")

	i.runPhase(ctx, len(batch.Shows), func(ctx context.Context, idx int, out func(status, label string), outErr func(label string, err error)) {
		i.importShow(ctx, batch.Shows[idx], opts, out, outErr)
	}, &result.Shows, opts.Target, "show")

	return result
}

// runPhase fans records out across a bounded worker group and serializes
// outcome recording.
func (i *Importer) runPhase(ctx context.Context, n int, work func(ctx context.Context, idx int, out func(status, label string), outErr func(label string, err error)), outcome *Outcome, target, entity string) {
	var mu sync.Mutex
	out := func(status, label string) {
		mu.Lock()
		outcome.record(status, label)
		mu.Unlock()
		i.count(status, target, entity)
	}
	outErr := func(label string, err error) {
		mu.Lock()
		outcome.recordErr(label, err)
		mu.Unlock()
		i.count(StatusError, target, entity)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for idx := 0; idx < n; idx++ {
		idx := idx
		g.Go(func() error {
			work(gctx, idx, out, outErr)
			return nil
		})
	}
	g.Wait()
}

func (i *Importer) count(status, target, entity string) {
	if i.metrics == nil {
		return
	}
	switch status {
	case StatusImported:
		i.metrics.Imported.WithLabelValues(target, entity).Inc()
	case StatusDuplicate:
		i.metrics.Duplicates.WithLabelValues(target, entity).Inc()
	case StatusError:
		i.metrics.ImportErrors.WithLabelValues(target, entity).Inc()
	}
}

func (i *Importer) importVenue(ctx context.Context, v canonical.VenueCandidate, opts Options, out func(status, label string), outErr func(label string, err error)) {
	label := v.Name
	if err := v.Validate(); err != nil {
		outErr(label, err)
		return
	}

	unlock := i.lock("venue:" + dedupe.Normalize(v.Name) + "|" + dedupe.Normalize(v.City))
	defer unlock()

	existing, err := i.store.FindVenueByNameCity(ctx, dedupe.Normalize(v.Name), dedupe.Normalize(v.City))
	if err != nil {
		outErr(label, err)
		return
	}
	if existing != nil {
		out(StatusDuplicate, label)
		return
	}
	if opts.DryRun {
		out(StatusWouldImport, label)
		return
	}

	venue := &canonical.Venue{
		Name:    v.Name,
		City:    v.City,
		State:   v.State,
		Address: v.Address,
	}
	if err := i.create(ctx, "venue", slug.Slugify(v.Name),
		func(s string) error { venue.Slug = s; return i.store.CreateVenue(ctx, venue) },
		func() (uint64, error) { return venue.ID, nil },
		i.store.UpdateVenueSlug,
		func(ctx context.Context, s string) (bool, error) {
			owner, err := i.store.FindVenueBySlug(ctx, s)
			return owner != nil, err
		},
	); err != nil {
		outErr(label, err)
		return
	}
	i.logger.Info("venue created", zap.String("name", v.Name), zap.Uint64("id", venue.ID))
	out(StatusImported, label)
}

func (i *Importer) importArtist(ctx context.Context, a canonical.ArtistCandidate, opts Options, out func(status, label string), outErr func(label string, err error)) {
	label := a.Name
	if err := a.Validate(); err != nil {
		outErr(label, err)
		return
	}

	unlock := i.lock("artist:" + dedupe.Normalize(a.Name))
	defer unlock()

	existing, err := i.store.FindArtistByName(ctx, dedupe.Normalize(a.Name))
	if err != nil {
		outErr(label, err)
		return
	}
	if existing != nil {
		out(StatusDuplicate, label)
		return
	}
	if opts.DryRun {
		out(StatusWouldImport, label)
		return
	}

	artist := &canonical.Artist{
		Name:  a.Name,
		City:  a.City,
		State: a.State,
	}
	if err := i.create(ctx, "artist", slug.Slugify(a.Name),
		func(s string) error { artist.Slug = s; return i.store.CreateArtist(ctx, artist) },
		func() (uint64, error) { return artist.ID, nil },
		i.store.UpdateArtistSlug,
		func(ctx context.Context, s string) (bool, error) {
			owner, err := i.store.FindArtistBySlug(ctx, s)
			return owner != nil, err
		},
	); err != nil {
		outErr(label, err)
		return
	}
	out(StatusImported, label)
}

func (i *Importer) importShow(ctx context.Context, c canonical.Candidate, opts Options, out func(status, label string), outErr func(label string, err error)) {
	label := c.Label()
	if err := c.Validate(); err != nil {
		outErr(label, err)
		return
	}

	if !opts.SkipBefore.IsZero() && c.EventDateUTC.Before(opts.SkipBefore) {
		out(StatusSkip, label)
		return
	}

	unlock := i.lock("show:" + dedupe.Normalize(c.Headliner()) + "|" + dedupe.Normalize(c.Venue.Name) + "|" + c.LocalDate)
	defer unlock()

	res, err := i.resolver.ResolveShow(ctx, i.store, c)
	if err != nil {
		outErr(label, err)
		return
	}

	switch res.Kind {
	case dedupe.KindSourceDuplicate:
		// The source id pair is authoritative, so refresh the scrape-owned
		// fields while leaving anything an admin may have edited alone.
		if !opts.DryRun && c.ScrapedAt != nil {
			if err := i.store.RefreshShowScrape(ctx, res.Existing.ID, *c.ScrapedAt, c.Price); err != nil {
				outErr(label, err)
				return
			}
		}
		out(StatusDuplicate, label)
		return
	case dedupe.KindNaturalDuplicate:
		out(StatusDuplicate, label)
		return
	}

	if opts.DryRun {
		out(StatusWouldImport, label)
		return
	}

	venueID, err := i.resolveVenue(ctx, c.Venue)
	if err != nil {
		outErr(label, err)
		return
	}

	show := &canonical.Show{
		Title:          c.Title,
		EventDate:      c.EventDateUTC,
		VenueID:        venueID,
		Price:          c.Price,
		AgeRequirement: c.AgeRequirement,
		Description:    c.Description,
		Status:         canonical.StatusPending,
		Source:         c.Source,
		SourceVenue:    c.SourceVenue,
		SourceEventID:  c.SourceEventID,
		ScrapedAt:      c.ScrapedAt,
	}
	if show.Source == "" {
		show.Source = canonical.SourceUser
	}

	flagged := false
	for _, a := range c.Artists {
		artistID, err := i.resolveArtist(ctx, a)
		if err != nil {
			outErr(label, err)
			return
		}
		if a.Headliner {
			flagged = true
		}
		show.Artists = append(show.Artists, canonical.ShowArtist{
			ArtistID:  artistID,
			Position:  a.Position,
			Headliner: a.Headliner,
		})
	}
	// An unflagged lineup headlines its first listed artist. The natural key
	// joins on the headliner link, so every persisted show carries one.
	if !flagged && len(show.Artists) > 0 {
		show.Artists[0].Headliner = true
	}

	if base := slug.ShowBase(c.Title, c.Headliner(), c.Venue.Name, c.LocalDate); base != "" {
		if err := i.create(ctx, "show", base,
			func(s string) error { show.Slug = s; return i.store.CreateShow(ctx, show) },
			func() (uint64, error) { return show.ID, nil },
			i.store.UpdateShowSlug,
			func(ctx context.Context, s string) (bool, error) {
				owner, err := i.store.FindShowBySlug(ctx, s)
				return owner != nil, err
			},
		); err != nil {
			outErr(label, err)
			return
		}
	} else {
		// No textual base exists, so the show is named by its own id.
		show.Slug = uuid.NewString()
		if err := i.store.CreateShow(ctx, show); err != nil {
			outErr(label, err)
			return
		}
		if err := i.store.UpdateShowSlug(ctx, show.ID,
			slug.ForShow(c.Title, c.Headliner(), c.Venue.Name, c.LocalDate, show.ID)); err != nil {
			outErr(label, err)
			return
		}
	}
	i.logger.Info("show created", zap.String("label", label), zap.Uint64("id", show.ID))
	out(StatusImported, label)
}

// resolveVenue finds or creates the venue a show references. The venue phase
// normally created it already; this covers shows arriving alone.
func (i *Importer) resolveVenue(ctx context.Context, v canonical.VenueCandidate) (uint64, error) {
	unlock := i.lock("venue:" + dedupe.Normalize(v.Name) + "|" + dedupe.Normalize(v.City))
	defer unlock()

	existing, err := i.store.FindVenueByNameCity(ctx, dedupe.Normalize(v.Name), dedupe.Normalize(v.City))
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	venue := &canonical.Venue{Name: v.Name, City: v.City, State: v.State, Address: v.Address}
	err = i.create(ctx, "venue", slug.Slugify(v.Name),
		func(s string) error { venue.Slug = s; return i.store.CreateVenue(ctx, venue) },
		func() (uint64, error) { return venue.ID, nil },
		i.store.UpdateVenueSlug,
		func(ctx context.Context, s string) (bool, error) {
			owner, err := i.store.FindVenueBySlug(ctx, s)
			return owner != nil, err
		},
	)
	return venue.ID, err
}

func (i *Importer) resolveArtist(ctx context.Context, a canonical.ArtistCandidate) (uint64, error) {
	unlock := i.lock("artist:" + dedupe.Normalize(a.Name))
	defer unlock()

	existing, err := i.store.FindArtistByName(ctx, dedupe.Normalize(a.Name))
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	artist := &canonical.Artist{Name: a.Name, City: a.City, State: a.State}
	err = i.create(ctx, "artist", slug.Slugify(a.Name),
		func(s string) error { artist.Slug = s; return i.store.CreateArtist(ctx, artist) },
		func() (uint64, error) { return artist.ID, nil },
		i.store.UpdateArtistSlug,
		func(ctx context.Context, s string) (bool, error) {
			owner, err := i.store.FindArtistBySlug(ctx, s)
			return owner != nil, err
		},
	)
	return artist.ID, err
}

// create inserts a record under the base slug if it is free. On collision the
// record is inserted with a provisional slug and then renamed to base-<id>,
// so the record that got there first keeps the bare slug forever.
func (i *Importer) create(ctx context.Context, entity, base string,
	insert func(slug string) error,
	id func() (uint64, error),
	updateSlug func(ctx context.Context, id uint64, slug string) error,
	taken func(ctx context.Context, slug string) (bool, error),
) error {
	// The availability check and the insert must not interleave across two
	// records whose names slugify to the same base.
	unlock := i.lock("slug:" + entity + ":" + base)
	defer unlock()

	isTaken, err := taken(ctx, base)
	if err != nil {
		return err
	}
	if !isTaken {
		return insert(base)
	}

	if err := insert(uuid.NewString()); err != nil {
		return err
	}
	newID, err := id()
	if err != nil {
		return err
	}
	return updateSlug(ctx, newID, slug.WithID(base, newID))
}

package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/dedupe"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/ingest"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testOffsets = canonical.Offsets{"AZ": -7}

// readOnlyStore fails every write so dry runs prove they touch nothing.
type readOnlyStore struct{}

func (readOnlyStore) FindShowBySourceID(context.Context, string, string) (*canonical.Show, error) {
	return nil, nil
}
func (readOnlyStore) FindShowByNaturalKey(context.Context, string, string, time.Time, time.Time) (*canonical.Show, error) {
	return nil, nil
}
func (readOnlyStore) FindShowBySlug(context.Context, string) (*canonical.Show, error) {
	return nil, nil
}
func (readOnlyStore) FindArtistByName(context.Context, string) (*canonical.Artist, error) {
	return nil, nil
}
func (readOnlyStore) FindArtistBySlug(context.Context, string) (*canonical.Artist, error) {
	return nil, nil
}
func (readOnlyStore) FindVenueByNameCity(context.Context, string, string) (*canonical.Venue, error) {
	return nil, nil
}
func (readOnlyStore) FindVenueBySlug(context.Context, string) (*canonical.Venue, error) {
	return nil, nil
}
func (readOnlyStore) CreateShow(context.Context, *canonical.Show) error {
	return errors.New("write in dry run")
}
func (readOnlyStore) CreateArtist(context.Context, *canonical.Artist) error {
	return errors.New("write in dry run")
}
func (readOnlyStore) CreateVenue(context.Context, *canonical.Venue) error {
	return errors.New("write in dry run")
}
func (readOnlyStore) UpdateShowSlug(context.Context, uint64, string) error {
	return errors.New("write in dry run")
}
func (readOnlyStore) UpdateArtistSlug(context.Context, uint64, string) error {
	return errors.New("write in dry run")
}
func (readOnlyStore) UpdateVenueSlug(context.Context, uint64, string) error {
	return errors.New("write in dry run")
}
func (readOnlyStore) RefreshShowScrape(context.Context, uint64, time.Time, *float64) error {
	return errors.New("write in dry run")
}

// fakeAdapter serves canned raw events and parses them by index.
type fakeAdapter struct {
	name   string
	raws   []provider.RawEvent
	events map[string]provider.Event
	broken map[string]bool

	fetchErr error
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Fetch(_ context.Context, _ provider.Source) ([]provider.RawEvent, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.raws, nil
}

func (f *fakeAdapter) Parse(raw provider.RawEvent) (provider.Event, error) {
	if f.broken[raw.EventID] {
		return provider.Event{}, &provider.ParseError{Source: raw.Source, EventID: raw.EventID, Err: errors.New("bad markup")}
	}
	return f.events[raw.EventID], nil
}

func testSources() []provider.Source {
	return []provider.Source{{
		Name: "valley-bar",
		Type: "fake",
		URL:  "https://www.valleybarphx.com/events",
		Venue: provider.VenueDefaults{
			Name:  "Valley Bar",
			City:  "Phoenix",
			State: "AZ",
		},
	}}
}

func newService(adapter provider.Adapter) *ingest.Service {
	imp := importer.New(readOnlyStore{}, dedupe.NewResolver(testOffsets), nil, zap.NewNop())
	return ingest.NewService(
		provider.NewRegistry(adapter),
		canonical.NewCanonicalizer(testOffsets),
		imp,
		nil, nil, nil,
		zap.NewNop(),
	)
}

func TestRunDryRun(t *testing.T) {
	future := time.Now().UTC().Add(30 * 24 * time.Hour)
	adapter := &fakeAdapter{
		name: "fake",
		raws: []provider.RawEvent{
			{Source: "valley-bar", EventID: "ev-1", Payload: []byte("{}")},
			{Source: "valley-bar", EventID: "ev-2", Payload: []byte("{}")},
		},
		events: map[string]provider.Event{
			"ev-1": {StartLocal: future, ArtistNames: []string{"The National"}},
		},
		broken: map[string]bool{"ev-2": true},
	}

	svc := newService(adapter)
	report := svc.Run(context.Background(), testSources(), ingest.Options{DryRun: true})

	require.Len(t, report.Sources, 1)
	sr := report.Sources[0]
	require.NoError(t, sr.Err)

	assert.Equal(t, 2, sr.Fetched)
	// The broken event is isolated as a warning; the good one still flows.
	assert.Len(t, sr.ParseWarnings, 1)
	require.NotNil(t, sr.Result)
	assert.Equal(t, 1, sr.Result.Shows.Imported)
	assert.Equal(t, 0, sr.Result.Shows.Errors)
	assert.NotEmpty(t, report.RunID)
}

func TestRunFetchFailureIsolatedToSource(t *testing.T) {
	adapter := &fakeAdapter{name: "fake", fetchErr: errors.New("connection refused")}

	svc := newService(adapter)
	report := svc.Run(context.Background(), testSources(), ingest.Options{DryRun: true})

	require.Len(t, report.Sources, 1)
	assert.Error(t, report.Sources[0].Err)
}

func TestRunSkipsPastShowsByDefault(t *testing.T) {
	past := time.Now().UTC().Add(-30 * 24 * time.Hour)
	adapter := &fakeAdapter{
		name: "fake",
		raws: []provider.RawEvent{{Source: "valley-bar", EventID: "ev-1", Payload: []byte("{}")}},
		events: map[string]provider.Event{
			"ev-1": {StartLocal: past, ArtistNames: []string{"The National"}},
		},
	}

	svc := newService(adapter)
	report := svc.Run(context.Background(), testSources(), ingest.Options{DryRun: true})

	require.Len(t, report.Sources, 1)
	assert.Equal(t, 1, report.Sources[0].Result.Shows.Skipped)
}

func TestRunSourceFilter(t *testing.T) {
	adapter := &fakeAdapter{name: "fake"}
	svc := newService(adapter)

	report := svc.Run(context.Background(), testSources(), ingest.Options{
		DryRun:       true,
		SourceFilter: []string{"some-other-source"},
	})
	assert.Empty(t, report.Sources)
}

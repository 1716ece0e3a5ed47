package dedupe_test

import (
	"context"
	"testing"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/dedupe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOffsets = canonical.Offsets{"AZ": -7}

// fakeStore records the lookups the resolver performs.
type fakeStore struct {
	canonical.Store

	bySourceID  *canonical.Show
	byNatural   *canonical.Show
	naturalFrom time.Time
	naturalTo   time.Time
}

func (f *fakeStore) FindShowBySourceID(_ context.Context, _, _ string) (*canonical.Show, error) {
	return f.bySourceID, nil
}

func (f *fakeStore) FindShowByNaturalKey(_ context.Context, _, _ string, from, to time.Time) (*canonical.Show, error) {
	f.naturalFrom, f.naturalTo = from, to
	return f.byNatural, nil
}

func candidate() canonical.Candidate {
	src, evID := "valley-bar", "ev-1"
	return canonical.Candidate{
		EventDateUTC:  time.Date(2026, 1, 31, 3, 0, 0, 0, time.UTC),
		LocalDate:     "2026-01-30",
		Venue:         canonical.VenueCandidate{Name: "Valley Bar", City: "Phoenix", State: "AZ"},
		Artists:       []canonical.ArtistCandidate{{Name: "The National", Headliner: true}},
		SourceVenue:   &src,
		SourceEventID: &evID,
	}
}

func TestResolveSourceIDWins(t *testing.T) {
	r := dedupe.NewResolver(testOffsets)
	existing := &canonical.Show{ID: 7}
	store := &fakeStore{bySourceID: existing, byNatural: &canonical.Show{ID: 9}}

	res, err := r.ResolveShow(context.Background(), store, candidate())
	require.NoError(t, err)
	assert.Equal(t, dedupe.KindSourceDuplicate, res.Kind)
	assert.Equal(t, existing, res.Existing)
}

func TestResolveNaturalKey(t *testing.T) {
	r := dedupe.NewResolver(testOffsets)
	existing := &canonical.Show{ID: 9}
	store := &fakeStore{byNatural: existing}

	res, err := r.ResolveShow(context.Background(), store, candidate())
	require.NoError(t, err)
	assert.Equal(t, dedupe.KindNaturalDuplicate, res.Kind)
	assert.Equal(t, existing, res.Existing)

	// The window is the Phoenix calendar day expressed as UTC instants.
	assert.Equal(t, time.Date(2026, 1, 30, 7, 0, 0, 0, time.UTC), store.naturalFrom)
	assert.Equal(t, time.Date(2026, 1, 31, 7, 0, 0, 0, time.UTC), store.naturalTo)
}

func TestResolveNew(t *testing.T) {
	r := dedupe.NewResolver(testOffsets)
	store := &fakeStore{}

	res, err := r.ResolveShow(context.Background(), store, candidate())
	require.NoError(t, err)
	assert.Equal(t, dedupe.KindNew, res.Kind)
	assert.Nil(t, res.Existing)
}

func TestResolveMissingSourceIDFallsThrough(t *testing.T) {
	r := dedupe.NewResolver(testOffsets)
	existing := &canonical.Show{ID: 3}
	store := &fakeStore{byNatural: existing}

	c := candidate()
	c.SourceEventID = nil

	res, err := r.ResolveShow(context.Background(), store, c)
	require.NoError(t, err)
	assert.Equal(t, dedupe.KindNaturalDuplicate, res.Kind)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "the national", dedupe.Normalize("  The National "))
}

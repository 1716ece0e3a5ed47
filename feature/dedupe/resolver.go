package dedupe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
)

// Kind classifies the result of identity resolution.
type Kind int

const (
	// KindNew means no existing show matched; the candidate should be created.
	KindNew Kind = iota

	// KindSourceDuplicate means an existing show carries the same
	// (sourceVenue, sourceEventID) pair.
	KindSourceDuplicate

	// KindNaturalDuplicate means an existing show matched on headliner, venue
	// and venue-local calendar date.
	KindNaturalDuplicate
)

// Resolution is the outcome of resolving one candidate against a store.
type Resolution struct {
	Kind     Kind
	Existing *canonical.Show
}

// Resolver decides whether a candidate show already exists in a target store.
type Resolver struct {
	offsets canonical.Offsets
}

// NewResolver creates a Resolver with the given region offset table.
func NewResolver(offsets canonical.Offsets) *Resolver {
	return &Resolver{offsets: offsets}
}

// ResolveShow checks the source id pair first, then the natural key. The
// natural key window is the candidate's venue-local calendar day expressed
// as a UTC instant range, so two representations of the same evening show
// match even when their UTC dates differ.
func (r *Resolver) ResolveShow(ctx context.Context, store canonical.Store, c canonical.Candidate) (Resolution, error) {
	if c.SourceVenue != nil && c.SourceEventID != nil && *c.SourceEventID != "" {
		existing, err := store.FindShowBySourceID(ctx, *c.SourceVenue, *c.SourceEventID)
		if err != nil {
			return Resolution{}, fmt.Errorf("source id lookup failed: %w", err)
		}
		if existing != nil {
			return Resolution{Kind: KindSourceDuplicate, Existing: existing}, nil
		}
	}

	headliner := Normalize(c.Headliner())
	venue := Normalize(c.Venue.Name)
	if headliner == "" || venue == "" {
		return Resolution{Kind: KindNew}, nil
	}

	from, to, err := r.dayWindow(c)
	if err != nil {
		return Resolution{}, err
	}

	existing, err := store.FindShowByNaturalKey(ctx, headliner, venue, from, to)
	if err != nil {
		return Resolution{}, fmt.Errorf("natural key lookup failed: %w", err)
	}
	if existing != nil {
		return Resolution{Kind: KindNaturalDuplicate, Existing: existing}, nil
	}
	return Resolution{Kind: KindNew}, nil
}

// dayWindow converts the candidate's local calendar date into the UTC range
// [localMidnight-offset, +24h).
func (r *Resolver) dayWindow(c canonical.Candidate) (time.Time, time.Time, error) {
	day, err := time.Parse("2006-01-02", c.LocalDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid local date %q: %w", c.LocalDate, err)
	}
	offset := r.offsets[c.Venue.State]
	from := day.Add(-time.Duration(offset) * time.Hour)
	return from, from.Add(24 * time.Hour), nil
}

// Normalize lowercases and trims a name for case-insensitive comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

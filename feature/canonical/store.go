package canonical

import (
	"context"
	"time"
)

// Store is the contract identity resolution and import run against.
// Lookup methods return (nil, nil) when no record matches; an error means
// the store itself failed.
type Store interface {
	// FindShowBySourceID finds a show by its (sourceVenue, sourceEventID) pair.
	FindShowBySourceID(ctx context.Context, sourceVenue, sourceEventID string) (*Show, error)

	// FindShowByNaturalKey finds a show by normalized headliner name,
	// normalized venue name, and an event instant inside [from, to).
	// Ties are broken by lowest id.
	FindShowByNaturalKey(ctx context.Context, headliner, venue string, from, to time.Time) (*Show, error)

	// FindShowBySlug finds the show owning a slug.
	FindShowBySlug(ctx context.Context, slug string) (*Show, error)

	// FindArtistByName finds an artist by exact case-insensitive name,
	// lowest id first.
	FindArtistByName(ctx context.Context, name string) (*Artist, error)

	// FindArtistBySlug finds the artist owning a slug.
	FindArtistBySlug(ctx context.Context, slug string) (*Artist, error)

	// FindVenueByNameCity finds a venue by exact case-insensitive name and
	// city, lowest id first.
	FindVenueByNameCity(ctx context.Context, name, city string) (*Venue, error)

	// FindVenueBySlug finds the venue owning a slug.
	FindVenueBySlug(ctx context.Context, slug string) (*Venue, error)

	// CreateShow inserts a show (with its artist links) and fills its ID.
	CreateShow(ctx context.Context, show *Show) error

	// CreateArtist inserts an artist and fills its ID.
	CreateArtist(ctx context.Context, artist *Artist) error

	// CreateVenue inserts a venue and fills its ID.
	CreateVenue(ctx context.Context, venue *Venue) error

	// UpdateShowSlug, UpdateArtistSlug and UpdateVenueSlug set the final slug
	// after a collision forced a provisional one at insert time.
	UpdateShowSlug(ctx context.Context, id uint64, slug string) error
	UpdateArtistSlug(ctx context.Context, id uint64, slug string) error
	UpdateVenueSlug(ctx context.Context, id uint64, slug string) error

	// RefreshShowScrape updates only the non-authoritative scrape fields of
	// an existing show. Fields an admin may have edited are never touched.
	RefreshShowScrape(ctx context.Context, id uint64, scrapedAt time.Time, price *float64) error
}

package syncapi

import (
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
)

// ImportShowsRequest is a batch of candidate shows to import.
type ImportShowsRequest struct {
	DryRun  bool                  `json:"dry_run"`
	Records []canonical.Candidate `json:"records"`
}

// ImportArtistsRequest is a batch of candidate artists to import.
type ImportArtistsRequest struct {
	DryRun  bool                        `json:"dry_run"`
	Records []canonical.ArtistCandidate `json:"records"`
}

// ImportVenuesRequest is a batch of candidate venues to import.
type ImportVenuesRequest struct {
	DryRun  bool                       `json:"dry_run"`
	Records []canonical.VenueCandidate `json:"records"`
}

// ImportResponse carries the per-record outcomes of an import call.
type ImportResponse struct {
	Result *importer.BatchResult `json:"result"`
}

// ExportedShow is a stored show rendered as a self-contained candidate, with
// local id and slug attached for reference.
type ExportedShow struct {
	ID   uint64 `json:"id"`
	Slug string `json:"slug"`
	canonical.Candidate
}

// ExportedArtist is a stored artist rendered for replication.
type ExportedArtist struct {
	ID   uint64 `json:"id"`
	Slug string `json:"slug"`
	canonical.ArtistCandidate
}

// ExportedVenue is a stored venue rendered for replication.
type ExportedVenue struct {
	ID   uint64 `json:"id"`
	Slug string `json:"slug"`
	canonical.VenueCandidate
}

// ExportShowsResponse is one page of exported shows.
type ExportShowsResponse struct {
	Shows   []ExportedShow `json:"shows"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Total   int64          `json:"total"`
}

// ExportArtistsResponse is one page of exported artists.
type ExportArtistsResponse struct {
	Artists []ExportedArtist `json:"artists"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Total   int64            `json:"total"`
}

// ExportVenuesResponse is one page of exported venues.
type ExportVenuesResponse struct {
	Venues  []ExportedVenue `json:"venues"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Total   int64           `json:"total"`
}

// ExportSlugsResponse lists every show slug for a status filter.
type ExportSlugsResponse struct {
	Slugs []string `json:"slugs"`
}

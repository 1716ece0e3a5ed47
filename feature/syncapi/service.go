package syncapi

import (
	"context"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical/dbstore"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
)

// Service backs the replication API: it exports stored records as candidates
// and runs incoming batches through the local import pipeline.
type Service struct {
	store    *dbstore.Store
	importer *importer.Importer
	offsets  canonical.Offsets
}

// NewService creates the replication service.
func NewService(store *dbstore.Store, imp *importer.Importer, offsets canonical.Offsets) *Service {
	return &Service{store: store, importer: imp, offsets: offsets}
}

// ImportShows runs a batch of candidate shows through the import pipeline,
// deriving the venues and artists they reference.
func (s *Service) ImportShows(ctx context.Context, req ImportShowsRequest) *ImportResponse {
	batch := importer.BatchFromShows(req.Records)
	return &ImportResponse{Result: s.importer.ImportBatch(ctx, batch, importer.Options{DryRun: req.DryRun})}
}

// ImportArtists imports a batch of candidate artists.
func (s *Service) ImportArtists(ctx context.Context, req ImportArtistsRequest) *ImportResponse {
	batch := importer.Batch{Artists: req.Records}
	return &ImportResponse{Result: s.importer.ImportBatch(ctx, batch, importer.Options{DryRun: req.DryRun})}
}

// ImportVenues imports a batch of candidate venues.
func (s *Service) ImportVenues(ctx context.Context, req ImportVenuesRequest) *ImportResponse {
	batch := importer.Batch{Venues: req.Records}
	return &ImportResponse{Result: s.importer.ImportBatch(ctx, batch, importer.Options{DryRun: req.DryRun})}
}

// ExportShows returns one page of stored shows as self-contained candidates.
func (s *Service) ExportShows(ctx context.Context, status string, page, perPage int) (*ExportShowsResponse, error) {
	shows, total, err := s.store.ListShows(ctx, status, page, perPage)
	if err != nil {
		return nil, err
	}

	out := make([]ExportedShow, 0, len(shows))
	for i := range shows {
		out = append(out, ExportedShow{
			ID:        shows[i].ID,
			Slug:      shows[i].Slug,
			Candidate: canonical.CandidateFromShow(&shows[i], s.offsets),
		})
	}
	return &ExportShowsResponse{Shows: out, Page: page, PerPage: perPage, Total: total}, nil
}

// ExportArtists returns one page of stored artists.
func (s *Service) ExportArtists(ctx context.Context, page, perPage int) (*ExportArtistsResponse, error) {
	artists, total, err := s.store.ListArtists(ctx, page, perPage)
	if err != nil {
		return nil, err
	}

	out := make([]ExportedArtist, 0, len(artists))
	for i := range artists {
		out = append(out, ExportedArtist{
			ID:              artists[i].ID,
			Slug:            artists[i].Slug,
			ArtistCandidate: canonical.ArtistCandidateOf(&artists[i]),
		})
	}
	return &ExportArtistsResponse{Artists: out, Page: page, PerPage: perPage, Total: total}, nil
}

// ExportVenues returns one page of stored venues.
func (s *Service) ExportVenues(ctx context.Context, page, perPage int) (*ExportVenuesResponse, error) {
	venues, total, err := s.store.ListVenues(ctx, page, perPage)
	if err != nil {
		return nil, err
	}

	out := make([]ExportedVenue, 0, len(venues))
	for i := range venues {
		out = append(out, ExportedVenue{
			ID:             venues[i].ID,
			Slug:           venues[i].Slug,
			VenueCandidate: canonical.VenueCandidateOf(&venues[i]),
		})
	}
	return &ExportVenuesResponse{Venues: out, Page: page, PerPage: perPage, Total: total}, nil
}

// ExportShowSlugs returns every show slug matching the status filter.
func (s *Service) ExportShowSlugs(ctx context.Context, status string) (*ExportSlugsResponse, error) {
	slugs, err := s.store.ListShowSlugs(ctx, status)
	if err != nil {
		return nil, err
	}
	return &ExportSlugsResponse{Slugs: slugs}, nil
}

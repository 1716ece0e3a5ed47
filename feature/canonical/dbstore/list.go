package dbstore

import (
	"context"
	"fmt"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
)

// ListShows returns one page of shows with their venue and lineup preloaded,
// plus the total count for the filter. An empty status or StatusAll matches
// all statuses.
func (s *Store) ListShows(ctx context.Context, status string, page, perPage int) ([]canonical.Show, int64, error) {
	q := s.db.WithContext(ctx).Model(&canonical.Show{})
	if status != "" && status != canonical.StatusAll {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count shows: %w", err)
	}

	var shows []canonical.Show
	err := q.
		Preload("Venue").
		Preload("Artists.Artist").
		Order("id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&shows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shows: %w", err)
	}
	return shows, total, nil
}

// ListArtists returns one page of artists ordered by id.
func (s *Store) ListArtists(ctx context.Context, page, perPage int) ([]canonical.Artist, int64, error) {
	q := s.db.WithContext(ctx).Model(&canonical.Artist{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count artists: %w", err)
	}

	var artists []canonical.Artist
	err := q.Order("id ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&artists).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, total, nil
}

// ListVenues returns one page of venues ordered by id.
func (s *Store) ListVenues(ctx context.Context, page, perPage int) ([]canonical.Venue, int64, error) {
	q := s.db.WithContext(ctx).Model(&canonical.Venue{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count venues: %w", err)
	}

	var venues []canonical.Venue
	err := q.Order("id ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&venues).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list venues: %w", err)
	}
	return venues, total, nil
}

// ListShowSlugs returns every show slug for the given status, for
// cross-environment comparison. An empty status or StatusAll matches all
// statuses.
func (s *Store) ListShowSlugs(ctx context.Context, status string) ([]string, error) {
	q := s.db.WithContext(ctx).Model(&canonical.Show{})
	if status != "" && status != canonical.StatusAll {
		q = q.Where("status = ?", status)
	}

	var slugs []string
	if err := q.Order("id ASC").Pluck("slug", &slugs).Error; err != nil {
		return nil, fmt.Errorf("failed to list show slugs: %w", err)
	}
	return slugs, nil
}

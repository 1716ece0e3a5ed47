package dbstore

import (
	"context"
	"fmt"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"

	"gorm.io/gorm"
)

// Store is the gorm-backed canonical.Store.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an open database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the canonical tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(
		&canonical.Venue{},
		&canonical.Artist{},
		&canonical.Show{},
		&canonical.ShowArtist{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for services that need raw queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) FindShowBySourceID(ctx context.Context, sourceVenue, sourceEventID string) (*canonical.Show, error) {
	var shows []canonical.Show
	err := s.db.WithContext(ctx).
		Where("source_venue = ? AND source_event_id = ?", sourceVenue, sourceEventID).
		Order("id ASC").
		Limit(1).
		Find(&shows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find show by source id: %w", err)
	}
	if len(shows) == 0 {
		return nil, nil
	}
	return &shows[0], nil
}

func (s *Store) FindShowByNaturalKey(ctx context.Context, headliner, venue string, from, to time.Time) (*canonical.Show, error) {
	var shows []canonical.Show
	err := s.db.WithContext(ctx).
		Joins("JOIN venues ON venues.id = shows.venue_id").
		Joins("JOIN show_artists ON show_artists.show_id = shows.id AND show_artists.headliner = ?", true).
		Joins("JOIN artists ON artists.id = show_artists.artist_id").
		Where("LOWER(artists.name) = ?", headliner).
		Where("LOWER(venues.name) = ?", venue).
		Where("shows.event_date >= ? AND shows.event_date < ?", from, to).
		Order("shows.id ASC").
		Limit(1).
		Find(&shows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find show by natural key: %w", err)
	}
	if len(shows) == 0 {
		return nil, nil
	}
	return &shows[0], nil
}

func (s *Store) FindShowBySlug(ctx context.Context, slug string) (*canonical.Show, error) {
	var shows []canonical.Show
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Limit(1).Find(&shows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find show by slug: %w", err)
	}
	if len(shows) == 0 {
		return nil, nil
	}
	return &shows[0], nil
}

func (s *Store) FindArtistByName(ctx context.Context, name string) (*canonical.Artist, error) {
	var artists []canonical.Artist
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ?", name).
		Order("id ASC").
		Limit(1).
		Find(&artists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find artist by name: %w", err)
	}
	if len(artists) == 0 {
		return nil, nil
	}
	return &artists[0], nil
}

func (s *Store) FindArtistBySlug(ctx context.Context, slug string) (*canonical.Artist, error) {
	var artists []canonical.Artist
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Limit(1).Find(&artists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find artist by slug: %w", err)
	}
	if len(artists) == 0 {
		return nil, nil
	}
	return &artists[0], nil
}

func (s *Store) FindVenueByNameCity(ctx context.Context, name, city string) (*canonical.Venue, error) {
	var venues []canonical.Venue
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ? AND LOWER(city) = ?", name, city).
		Order("id ASC").
		Limit(1).
		Find(&venues).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find venue by name and city: %w", err)
	}
	if len(venues) == 0 {
		return nil, nil
	}
	return &venues[0], nil
}

func (s *Store) FindVenueBySlug(ctx context.Context, slug string) (*canonical.Venue, error) {
	var venues []canonical.Venue
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Limit(1).Find(&venues).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find venue by slug: %w", err)
	}
	if len(venues) == 0 {
		return nil, nil
	}
	return &venues[0], nil
}

func (s *Store) CreateShow(ctx context.Context, show *canonical.Show) error {
	if err := s.db.WithContext(ctx).Create(show).Error; err != nil {
		return fmt.Errorf("failed to create show: %w", err)
	}
	return nil
}

func (s *Store) CreateArtist(ctx context.Context, artist *canonical.Artist) error {
	if err := s.db.WithContext(ctx).Create(artist).Error; err != nil {
		return fmt.Errorf("failed to create artist: %w", err)
	}
	return nil
}

func (s *Store) CreateVenue(ctx context.Context, venue *canonical.Venue) error {
	if err := s.db.WithContext(ctx).Create(venue).Error; err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

func (s *Store) UpdateShowSlug(ctx context.Context, id uint64, slug string) error {
	if err := s.db.WithContext(ctx).Model(&canonical.Show{}).Where("id = ?", id).Update("slug", slug).Error; err != nil {
		return fmt.Errorf("failed to update show slug: %w", err)
	}
	return nil
}

func (s *Store) UpdateArtistSlug(ctx context.Context, id uint64, slug string) error {
	if err := s.db.WithContext(ctx).Model(&canonical.Artist{}).Where("id = ?", id).Update("slug", slug).Error; err != nil {
		return fmt.Errorf("failed to update artist slug: %w", err)
	}
	return nil
}

func (s *Store) UpdateVenueSlug(ctx context.Context, id uint64, slug string) error {
	if err := s.db.WithContext(ctx).Model(&canonical.Venue{}).Where("id = ?", id).Update("slug", slug).Error; err != nil {
		return fmt.Errorf("failed to update venue slug: %w", err)
	}
	return nil
}

// RefreshShowScrape updates only the scrape-owned fields. Title, lineup,
// status and anything an admin may have edited are never touched here.
func (s *Store) RefreshShowScrape(ctx context.Context, id uint64, scrapedAt time.Time, price *float64) error {
	updates := map[string]any{"scraped_at": scrapedAt}
	if price != nil {
		updates["price"] = *price
	}
	if err := s.db.WithContext(ctx).Model(&canonical.Show{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to refresh show scrape fields: %w", err)
	}
	return nil
}

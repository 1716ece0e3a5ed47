package slug

import (
	"context"
	"fmt"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report summarizes one backfill run.
type Report struct {
	VenuesUpdated  int `json:"venues_updated"`
	ArtistsUpdated int `json:"artists_updated"`
	ShowsUpdated   int `json:"shows_updated"`
}

// Backfill assigns slugs to records that do not have one yet. Records with
// a slug already set are never touched, so re-running is always safe.
type Backfill struct {
	db      *gorm.DB
	offsets canonical.Offsets
	logger  *zap.Logger
}

// NewBackfill creates a backfill service. The offset table is needed to
// recover the venue-local calendar date of stored UTC instants.
func NewBackfill(db *gorm.DB, offsets canonical.Offsets, logger *zap.Logger) *Backfill {
	return &Backfill{db: db, offsets: offsets, logger: logger}
}

// Run backfills venues, then artists, then shows. With dryRun no slug is
// written; the report counts what would change.
func (b *Backfill) Run(ctx context.Context, dryRun bool) (*Report, error) {
	report := &Report{}

	if err := b.venues(ctx, dryRun, report); err != nil {
		return report, err
	}
	if err := b.artists(ctx, dryRun, report); err != nil {
		return report, err
	}
	if err := b.shows(ctx, dryRun, report); err != nil {
		return report, err
	}
	return report, nil
}

func (b *Backfill) venues(ctx context.Context, dryRun bool, report *Report) error {
	var venues []canonical.Venue
	if err := b.db.WithContext(ctx).Where("slug = '' OR slug IS NULL").Order("id ASC").Find(&venues).Error; err != nil {
		return fmt.Errorf("failed to load venues: %w", err)
	}

	for _, v := range venues {
		final, err := b.resolve(ctx, "venues", Slugify(v.Name), v.ID)
		if err != nil {
			return err
		}
		report.VenuesUpdated++
		if dryRun {
			continue
		}
		if err := b.db.WithContext(ctx).Model(&canonical.Venue{}).Where("id = ?", v.ID).Update("slug", final).Error; err != nil {
			return fmt.Errorf("failed to set venue slug: %w", err)
		}
		b.logger.Debug("backfilled venue slug", zap.Uint64("id", v.ID), zap.String("slug", final))
	}
	return nil
}

func (b *Backfill) artists(ctx context.Context, dryRun bool, report *Report) error {
	var artists []canonical.Artist
	if err := b.db.WithContext(ctx).Where("slug = '' OR slug IS NULL").Order("id ASC").Find(&artists).Error; err != nil {
		return fmt.Errorf("failed to load artists: %w", err)
	}

	for _, a := range artists {
		final, err := b.resolve(ctx, "artists", Slugify(a.Name), a.ID)
		if err != nil {
			return err
		}
		report.ArtistsUpdated++
		if dryRun {
			continue
		}
		if err := b.db.WithContext(ctx).Model(&canonical.Artist{}).Where("id = ?", a.ID).Update("slug", final).Error; err != nil {
			return fmt.Errorf("failed to set artist slug: %w", err)
		}
	}
	return nil
}

func (b *Backfill) shows(ctx context.Context, dryRun bool, report *Report) error {
	var shows []canonical.Show
	err := b.db.WithContext(ctx).
		Preload("Venue").
		Preload("Artists.Artist").
		Where("slug = '' OR slug IS NULL").
		Order("id ASC").
		Find(&shows).Error
	if err != nil {
		return fmt.Errorf("failed to load shows: %w", err)
	}

	for _, s := range shows {
		var headliner, venueName, state string
		if s.Venue != nil {
			venueName = s.Venue.Name
			state = s.Venue.State
		}
		for _, link := range s.Artists {
			if link.Headliner && link.Artist != nil {
				headliner = link.Artist.Name
				break
			}
		}

		localDate := canonical.LocalDateOf(s.EventDate, state, b.offsets)
		base := ForShow(s.Title, headliner, venueName, localDate, s.ID)

		final, err := b.resolve(ctx, "shows", base, s.ID)
		if err != nil {
			return err
		}
		report.ShowsUpdated++
		if dryRun {
			continue
		}
		if err := b.db.WithContext(ctx).Model(&canonical.Show{}).Where("id = ?", s.ID).Update("slug", final).Error; err != nil {
			return fmt.Errorf("failed to set show slug: %w", err)
		}
	}
	return nil
}

// resolve returns the base slug if it is free or already owned by this id,
// else the id-suffixed form.
func (b *Backfill) resolve(ctx context.Context, table, base string, id uint64) (string, error) {
	var ownerID uint64
	err := b.db.WithContext(ctx).Table(table).Select("id").Where("slug = ?", base).Limit(1).Scan(&ownerID).Error
	if err != nil {
		return "", fmt.Errorf("failed to check slug %s: %w", base, err)
	}
	if ownerID == 0 || ownerID == id {
		return base, nil
	}
	return WithID(base, id), nil
}

package canonical

import "time"

// Show status lifecycle values. This core only ever assigns StatusPending
// on creation; moderation changes status downstream.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusPrivate  = "private"

	// StatusAll is a filter value, never stored; it matches every status.
	StatusAll = "all"
)

// Show origin values.
const (
	SourceUser    = "user"
	SourceScraper = "scraper"
)

// Show is the canonical record for a live event.
type Show struct {
	ID    uint64  `gorm:"primaryKey" json:"id"`
	Title *string `json:"title"`

	// EventDate is the absolute event instant in UTC.
	EventDate time.Time `gorm:"index" json:"event_date"`

	VenueID uint64       `json:"venue_id"`
	Venue   *Venue       `json:"venue,omitempty"`
	Artists []ShowArtist `gorm:"constraint:OnDelete:CASCADE" json:"artists,omitempty"`

	Price          *float64 `json:"price"`
	AgeRequirement *string  `json:"age_requirement"`
	Description    *string  `json:"description"`

	Status string `gorm:"default:pending" json:"status"`

	// Source records whether the show came from a user submission or a scraper.
	Source string `json:"source"`

	// SourceVenue and SourceEventID identify the scraped origin. The pair is
	// unique whenever both are present.
	SourceVenue   *string    `gorm:"uniqueIndex:idx_shows_source_event" json:"source_venue"`
	SourceEventID *string    `gorm:"uniqueIndex:idx_shows_source_event" json:"source_event_id"`
	ScrapedAt     *time.Time `json:"scraped_at"`

	Slug string `gorm:"uniqueIndex" json:"slug"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShowArtist is the ordered join between shows and artists.
type ShowArtist struct {
	ShowID    uint64  `gorm:"primaryKey" json:"show_id"`
	ArtistID  uint64  `gorm:"primaryKey" json:"artist_id"`
	Artist    *Artist `json:"artist,omitempty"`
	Position  int     `json:"position"`
	Headliner bool    `json:"headliner"`
}

// Artist is the canonical record for a performer. Name is a near-unique
// natural key; resolution is exact case-insensitive.
type Artist struct {
	ID   uint64 `gorm:"primaryKey" json:"id"`
	Name string `gorm:"index" json:"name"`

	City  *string `json:"city"`
	State *string `json:"state"`

	Website   *string `json:"website"`
	Bandcamp  *string `json:"bandcamp"`
	Instagram *string `json:"instagram"`

	Slug string `gorm:"uniqueIndex" json:"slug"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Venue is the canonical record for an event location. City and state are
// required; resolution is exact case-insensitive on name+city.
type Venue struct {
	ID    uint64 `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"index" json:"name"`
	City  string `json:"city"`
	State string `json:"state"`

	Address  *string `json:"address"`
	Verified bool    `json:"verified"`

	Slug string `gorm:"uniqueIndex" json:"slug"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package canonical

import (
	"fmt"
	"strings"
	"time"
)

// VenueCandidate is an unresolved venue reference carried by a candidate show.
type VenueCandidate struct {
	Name    string  `json:"name"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Address *string `json:"address,omitempty"`
}

// ArtistCandidate is an unresolved artist reference carried by a candidate show.
type ArtistCandidate struct {
	Name      string  `json:"name"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	Position  int     `json:"position"`
	Headliner bool    `json:"headliner"`
}

// Candidate is a canonical show that has not been resolved against a target
// store yet. References are by name, not id, so a candidate is self-contained
// and can travel between environments as JSON.
type Candidate struct {
	Title *string `json:"title,omitempty"`

	// EventDateUTC is the absolute event instant.
	EventDateUTC time.Time `json:"event_date_utc"`

	// LocalDate is the venue-local calendar date (YYYY-MM-DD). Slugs and the
	// natural key use the local date, which can differ from the UTC date for
	// evening shows.
	LocalDate string `json:"local_date"`

	Venue   VenueCandidate    `json:"venue"`
	Artists []ArtistCandidate `json:"artists"`

	Price          *float64 `json:"price,omitempty"`
	AgeRequirement *string  `json:"age_requirement,omitempty"`
	Description    *string  `json:"description,omitempty"`

	Source        string     `json:"source"`
	SourceVenue   *string    `json:"source_venue,omitempty"`
	SourceEventID *string    `json:"source_event_id,omitempty"`
	ScrapedAt     *time.Time `json:"scraped_at,omitempty"`
}

// Headliner returns the headlining artist name: the artist flagged as
// headliner, else the first listed artist, else "".
func (c Candidate) Headliner() string {
	for _, a := range c.Artists {
		if a.Headliner {
			return a.Name
		}
	}
	if len(c.Artists) > 0 {
		return c.Artists[0].Name
	}
	return ""
}

// Label derives a display label for messages. It is never persisted.
func (c Candidate) Label() string {
	if c.Title != nil && *c.Title != "" {
		return fmt.Sprintf("%s %s", *c.Title, c.LocalDate)
	}
	return fmt.Sprintf("%s at %s %s", c.Headliner(), c.Venue.Name, c.LocalDate)
}

// Validate checks the fields a canonical show cannot exist without.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Venue.Name) == "" {
		return &ValidationError{Field: "venue.name"}
	}
	if strings.TrimSpace(c.Venue.City) == "" {
		return &ValidationError{Field: "venue.city"}
	}
	if strings.TrimSpace(c.Venue.State) == "" {
		return &ValidationError{Field: "venue.state"}
	}
	if len(c.Artists) == 0 {
		return &ValidationError{Field: "artists"}
	}
	if c.EventDateUTC.IsZero() {
		return &ValidationError{Field: "event_date"}
	}
	return nil
}

// Validate checks the fields a venue cannot exist without.
func (v VenueCandidate) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return &ValidationError{Field: "name"}
	}
	if strings.TrimSpace(v.City) == "" {
		return &ValidationError{Field: "city"}
	}
	if strings.TrimSpace(v.State) == "" {
		return &ValidationError{Field: "state"}
	}
	return nil
}

// Validate checks the fields an artist cannot exist without.
func (a ArtistCandidate) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "name"}
	}
	return nil
}

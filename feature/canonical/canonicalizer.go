package canonical

import (
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider"
)

// Offsets maps a region code (venue state) to its fixed UTC offset in hours.
// There is deliberately no daylight-saving handling: the offset table is
// configured ahead of time for the covered regions.
type Offsets map[string]int

// Canonicalizer converts provider events into canonical candidates.
type Canonicalizer struct {
	offsets Offsets
}

// NewCanonicalizer creates a Canonicalizer with the given region offset table.
func NewCanonicalizer(offsets Offsets) *Canonicalizer {
	return &Canonicalizer{offsets: offsets}
}

// Canonicalize maps one provider event to a candidate show. Source defaults
// (venue name/city/state) fill in whatever the event itself did not carry.
// Missing required fields do not fail here; the importer rejects them with
// an ERROR outcome so one bad event never aborts a batch.
func (c *Canonicalizer) Canonicalize(ev provider.Event, src provider.Source, scrapedAt time.Time) (Candidate, error) {
	venue := VenueCandidate{
		Name:  firstNonEmpty(ev.VenueName, src.Venue.Name),
		City:  firstNonEmpty(ev.VenueCity, src.Venue.City),
		State: firstNonEmpty(ev.VenueState, src.Venue.State),
	}

	offset, ok := c.offsets[venue.State]
	if !ok && venue.State != "" {
		return Candidate{}, &ValidationError{Field: "venue.state", Reason: "no UTC offset configured for region " + venue.State}
	}

	var utc time.Time
	var localDate string
	if ev.StartIsUTC {
		utc = ev.StartLocal.UTC()
		localDate = utc.Add(time.Duration(offset) * time.Hour).Format("2006-01-02")
	} else {
		wall := ev.StartLocal
		utc = time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, time.UTC).
			Add(-time.Duration(offset) * time.Hour)
		localDate = wall.Format("2006-01-02")
	}

	artists := make([]ArtistCandidate, 0, len(ev.ArtistNames))
	for i, name := range ev.ArtistNames {
		artists = append(artists, ArtistCandidate{
			Name:      name,
			Position:  i,
			Headliner: i == ev.HeadlinerIndex,
		})
	}

	cand := Candidate{
		Title:          ev.Title,
		EventDateUTC:   utc,
		LocalDate:      localDate,
		Venue:          venue,
		Artists:        artists,
		AgeRequirement: ev.AgeRequirement,
		Description:    ev.Description,
		Source:         SourceScraper,
		ScrapedAt:      &scrapedAt,
	}

	if ev.Price != nil {
		cand.Price = ParsePrice(*ev.Price)
	}

	srcName := src.Name
	cand.SourceVenue = &srcName
	if ev.SourceEventID != "" {
		id := ev.SourceEventID
		cand.SourceEventID = &id
	}

	return cand, nil
}

// LocalDateOf renders the venue-local calendar date of a stored UTC instant
// using the offset table. Regions without an offset fall back to the UTC date.
func LocalDateOf(utc time.Time, state string, offsets Offsets) string {
	offset := offsets[state]
	return utc.UTC().Add(time.Duration(offset) * time.Hour).Format("2006-01-02")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package importer

import (
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/dedupe"
)

// Batch is the unit of work an import run operates on. Venues and artists
// are imported before the shows that reference them.
type Batch struct {
	Venues  []canonical.VenueCandidate  `json:"venues"`
	Artists []canonical.ArtistCandidate `json:"artists"`
	Shows   []canonical.Candidate       `json:"shows"`
}

// BatchFromShows derives the venue and artist candidates referenced by a set
// of shows, deduplicated by normalized name (and city, for venues) in first
// appearance order.
func BatchFromShows(shows []canonical.Candidate) Batch {
	batch := Batch{Shows: shows}

	seenVenues := make(map[string]bool)
	seenArtists := make(map[string]bool)

	for _, s := range shows {
		vkey := dedupe.Normalize(s.Venue.Name) + "|" + dedupe.Normalize(s.Venue.City)
		if s.Venue.Name != "" && !seenVenues[vkey] {
			seenVenues[vkey] = true
			batch.Venues = append(batch.Venues, s.Venue)
		}

		for _, a := range s.Artists {
			akey := dedupe.Normalize(a.Name)
			if a.Name != "" && !seenArtists[akey] {
				seenArtists[akey] = true
				batch.Artists = append(batch.Artists, a)
			}
		}
	}
	return batch
}

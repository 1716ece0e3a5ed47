package canonical

import "sort"

// CandidateFromShow converts a stored show back into a self-contained
// candidate, for replication to another environment. The receiving side
// resolves identity against its own store; ids and slugs do not travel.
func CandidateFromShow(s *Show, offsets Offsets) Candidate {
	cand := Candidate{
		Title:          s.Title,
		EventDateUTC:   s.EventDate.UTC(),
		Price:          s.Price,
		AgeRequirement: s.AgeRequirement,
		Description:    s.Description,
		Source:         s.Source,
		SourceVenue:    s.SourceVenue,
		SourceEventID:  s.SourceEventID,
		ScrapedAt:      s.ScrapedAt,
	}

	if s.Venue != nil {
		cand.Venue = VenueCandidate{
			Name:    s.Venue.Name,
			City:    s.Venue.City,
			State:   s.Venue.State,
			Address: s.Venue.Address,
		}
	}
	cand.LocalDate = LocalDateOf(s.EventDate, cand.Venue.State, offsets)

	links := make([]ShowArtist, len(s.Artists))
	copy(links, s.Artists)
	sort.Slice(links, func(i, j int) bool { return links[i].Position < links[j].Position })

	for _, link := range links {
		if link.Artist == nil {
			continue
		}
		cand.Artists = append(cand.Artists, ArtistCandidate{
			Name:      link.Artist.Name,
			City:      link.Artist.City,
			State:     link.Artist.State,
			Position:  link.Position,
			Headliner: link.Headliner,
		})
	}

	return cand
}

// ArtistCandidateOf converts a stored artist for replication.
func ArtistCandidateOf(a *Artist) ArtistCandidate {
	return ArtistCandidate{Name: a.Name, City: a.City, State: a.State}
}

// VenueCandidateOf converts a stored venue for replication.
func VenueCandidateOf(v *Venue) VenueCandidate {
	return VenueCandidate{Name: v.Name, City: v.City, State: v.State, Address: v.Address}
}

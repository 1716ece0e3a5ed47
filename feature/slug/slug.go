package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	invalidChars  = regexp.MustCompile(`[^a-z0-9 -]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe identifier: lowercase, strip characters outside
// [a-z0-9 -], collapse whitespace to hyphens, collapse repeated hyphens, and
// trim leading/trailing hyphens. Slugify is idempotent.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ShowBase derives a show's textual base slug from its venue-local calendar
// date and, in priority order, the title or the headliner+venue pair. It
// returns "" when neither yields one.
func ShowBase(title *string, headliner, venue, localDate string) string {
	if title != nil {
		if t := Slugify(*title); t != "" {
			return t + "-" + localDate
		}
	}

	h, v := Slugify(headliner), Slugify(venue)
	if h != "" && v != "" {
		return h + "-at-" + v + "-" + localDate
	}

	return ""
}

// ForShow is ShowBase with a numeric fallback: a show with no textual base
// is named by its own id and date.
func ForShow(title *string, headliner, venue, localDate string, fallbackID uint64) string {
	if base := ShowBase(title, headliner, venue, localDate); base != "" {
		return base
	}
	return fmt.Sprintf("%d-%s", fallbackID, localDate)
}

// WithID appends the entity id to a base slug that collided with a different
// entity. The lowest existing id keeps the bare slug.
func WithID(base string, id uint64) string {
	return fmt.Sprintf("%s-%d", base, id)
}

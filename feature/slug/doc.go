// Package slug derives deterministic, collision-safe human-readable
// identifiers.
//
// Slugify is a pure function; collision handling appends the entity id,
// with the lowest existing id keeping the bare slug. The Backfill service
// assigns slugs to legacy records and is idempotent: a slug that is
// already set is never reassigned.
package slug

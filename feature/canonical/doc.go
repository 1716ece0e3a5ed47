// Package canonical defines the normalized Show/Artist/Venue schema and the
// conversion from provider events into canonical candidates.
//
// A Candidate is a show that has not been resolved against a target store
// yet: it references its venue and artists by name so it can travel between
// environments as JSON. Resolution (reuse vs create) happens at import time
// in the target environment.
//
// # Timezone rule
//
// The canonical record stores the absolute UTC instant of the event. The
// venue-local wall clock is converted using a fixed per-region offset table
// (no daylight-saving adjustment); the venue-local calendar date is kept on
// the candidate because slugs and the natural key are defined in terms of
// the local date, which differs from the UTC date for evening shows.
//
// # Store
//
// The Store interface is the contract identity resolution and import run
// against. It is implemented by dbstore (local Postgres) and exercised
// remotely through the import API of a peer environment.
package canonical

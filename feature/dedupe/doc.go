// Package dedupe resolves candidate shows against a target store.
//
// Resolution runs in priority order: the (sourceVenue, sourceEventID) pair
// identifies a show regardless of lineup or date edits; failing that, the
// natural key of headliner, venue and venue-local calendar date catches the
// same show arriving from a second source or a manual entry.
package dedupe

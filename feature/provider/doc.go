// Package provider defines the fetch+parse boundary over external venue
// sources.
//
// Each source type (a venue page with embedded JSON-LD, an iCalendar feed)
// gets one Adapter implementation; the Registry selects the adapter from the
// source's configured type at runtime. Adapters are pure: they never write
// anywhere, and a single event's parse failure is isolated so the rest of
// the batch continues.
//
// The stable SourceEventID extracted from the source's own structured markup
// is what makes re-fetching the same page idempotent downstream.
package provider

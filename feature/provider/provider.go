package provider

import (
	"context"
	"fmt"
	"time"
)

// VenueDefaults carries the venue identity configured for a source, used
// when the source's own markup does not name its venue.
type VenueDefaults struct {
	Name  string `yaml:"name"`
	City  string `yaml:"city"`
	State string `yaml:"state"`
}

// Source is one configured external source.
type Source struct {
	// Name is the provider identifier; it becomes the sourceVenue of every
	// show scraped from this source.
	Name string `yaml:"name"`
	// Type selects the adapter (jsonld, ical).
	Type string `yaml:"type"`
	// URL is the page or feed to fetch.
	URL string `yaml:"url"`
	// Venue is the default venue identity for events from this source.
	Venue VenueDefaults `yaml:"venue"`
}

// RawEvent is one unparsed event as captured from a source. Payload is the
// exact bytes the adapter will parse, suitable for archiving and replay.
type RawEvent struct {
	Source  string
	EventID string
	URL     string
	Payload []byte
}

// Event is the provider-neutral event shape. StartLocal is the venue-local
// wall clock unless StartIsUTC is set (sources that publish UTC instants).
type Event struct {
	Title          *string
	StartLocal     time.Time
	StartIsUTC     bool
	VenueName      string
	VenueCity      string
	VenueState     string
	ArtistNames    []string
	HeadlinerIndex int
	Price          *string
	AgeRequirement *string
	Description    *string
	SourceEventID  string
	SourceURL      string
}

// Adapter is the per-source-type fetch+parse contract. Implementations are
// pure: no persistent writes happen at this boundary.
type Adapter interface {
	// Name returns the source type this adapter handles.
	Name() string
	// Fetch retrieves the source and splits it into raw events. A fetch
	// failure aborts only this source, never the whole run.
	Fetch(ctx context.Context, src Source) ([]RawEvent, error)
	// Parse converts one raw event. A parse failure is isolated to the
	// single event and recorded as a warning by the caller.
	Parse(raw RawEvent) (Event, error)
}

// Registry holds the available adapters keyed by source type.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry with the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

// Register adds an adapter, replacing any previous one of the same name.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

// Get returns the adapter for a source type.
func (r *Registry) Get(sourceType string) (Adapter, error) {
	a, ok := r.adapters[sourceType]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for source type %q", sourceType)
	}
	return a, nil
}

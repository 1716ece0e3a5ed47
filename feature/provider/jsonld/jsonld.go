package jsonld

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider"
)

// Adapter extracts schema.org Event objects from the JSON-LD blocks venues
// embed in their event pages.
type Adapter struct {
	fetcher *provider.Fetcher
}

// New creates a JSON-LD adapter over the given fetcher.
func New(fetcher *provider.Fetcher) *Adapter {
	return &Adapter{fetcher: fetcher}
}

// Name returns the source type this adapter handles.
func (a *Adapter) Name() string { return "jsonld" }

// Fetch retrieves the page and splits its ld+json blocks into one raw event
// per schema.org Event object.
func (a *Adapter) Fetch(ctx context.Context, src provider.Source) ([]provider.RawEvent, error) {
	body, err := a.fetcher.Get(ctx, src.URL)
	if err != nil {
		return nil, &provider.FetchError{Source: src.Name, Err: err}
	}

	var raws []provider.RawEvent
	for _, block := range extractBlocks(string(body)) {
		objs, ok := eventObjects([]byte(block))
		if !ok {
			// Broken block: surface it as a single raw event so the parse
			// failure shows up as a warning instead of vanishing.
			raws = append(raws, provider.RawEvent{Source: src.Name, URL: src.URL, Payload: []byte(block)})
			continue
		}
		for _, obj := range objs {
			raws = append(raws, provider.RawEvent{
				Source:  src.Name,
				EventID: peekEventID(obj),
				URL:     src.URL,
				Payload: obj,
			})
		}
	}
	return raws, nil
}

// Parse converts one Event object into the provider-neutral shape.
func (a *Adapter) Parse(raw provider.RawEvent) (provider.Event, error) {
	var ev ldEvent
	if err := json.Unmarshal(raw.Payload, &ev); err != nil {
		return provider.Event{}, &provider.ParseError{Source: raw.Source, EventID: raw.EventID, Err: err}
	}

	if ev.StartDate == "" {
		return provider.Event{}, &provider.ParseError{Source: raw.Source, EventID: raw.EventID, Err: fmt.Errorf("missing startDate")}
	}
	start, isUTC, err := parseStart(ev.StartDate)
	if err != nil {
		return provider.Event{}, &provider.ParseError{Source: raw.Source, EventID: raw.EventID, Err: err}
	}

	artists := performerNames(ev.Performer)
	if len(artists) == 0 && ev.Name != "" {
		// Pages without performer markup list the lineup in the event name.
		artists = []string{ev.Name}
	}

	out := provider.Event{
		StartLocal:    start,
		StartIsUTC:    isUTC,
		VenueName:     ev.Location.Name,
		VenueCity:     ev.Location.Address.Locality,
		VenueState:    ev.Location.Address.Region,
		ArtistNames:   artists,
		SourceEventID: sourceEventID(ev),
		SourceURL:     ev.URL,
	}

	// The event name is a title only when it says more than the headliner.
	if ev.Name != "" && len(artists) > 0 && !strings.EqualFold(ev.Name, artists[0]) {
		name := ev.Name
		out.Title = &name
	}

	if price := offersPrice(ev.Offers); price != "" {
		out.Price = &price
	}
	if ev.TypicalAgeRange != "" {
		age := ev.TypicalAgeRange
		out.AgeRequirement = &age
	}
	if ev.Description != "" {
		desc := ev.Description
		out.Description = &desc
	}

	return out, nil
}

type ldEvent struct {
	AtID            string          `json:"@id"`
	Identifier      string          `json:"identifier"`
	Name            string          `json:"name"`
	StartDate       string          `json:"startDate"`
	URL             string          `json:"url"`
	Description     string          `json:"description"`
	TypicalAgeRange string          `json:"typicalAgeRange"`
	Location        ldLocation      `json:"location"`
	Performer       json.RawMessage `json:"performer"`
	Offers          json.RawMessage `json:"offers"`
}

type ldLocation struct {
	Name    string    `json:"name"`
	Address ldAddress `json:"address"`
}

type ldAddress struct {
	Locality string `json:"addressLocality"`
	Region   string `json:"addressRegion"`
	Street   string `json:"streetAddress"`
}

// UnmarshalJSON tolerates the address being a plain string; the source's
// configured venue defaults cover city and state in that case.
func (a *ldAddress) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return nil
	}
	type alias ldAddress
	var v alias
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = ldAddress(v)
	return nil
}

type ldPerformer struct {
	Name string `json:"name"`
}

// sourceEventID prefers the explicit identifier, then @id, then the event
// URL. An event with none of these falls back to natural-key deduplication.
func sourceEventID(ev ldEvent) string {
	switch {
	case ev.Identifier != "":
		return ev.Identifier
	case ev.AtID != "":
		return ev.AtID
	default:
		return ev.URL
	}
}

func peekEventID(obj json.RawMessage) string {
	var ev ldEvent
	if err := json.Unmarshal(obj, &ev); err != nil {
		return ""
	}
	return sourceEventID(ev)
}

var startLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseStart handles the startDate forms seen in the wild: RFC3339 with an
// offset, naive local datetimes, and bare dates. An explicit Z means the
// source publishes UTC instants; any other offset is treated as the venue's
// wall clock, since the fixed per-region table owns the conversion.
func parseStart(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		if strings.HasSuffix(s, "Z") {
			return t.UTC(), true, nil
		}
		wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		return wall, false, nil
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized startDate %q", s)
}

func performerNames(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var many []ldPerformer
	if err := json.Unmarshal(raw, &many); err == nil {
		var names []string
		for _, p := range many {
			if p.Name != "" {
				names = append(names, p.Name)
			}
		}
		if len(names) > 0 {
			return names
		}
	}

	var strs []string
	if err := json.Unmarshal(raw, &strs); err == nil && len(strs) > 0 {
		return strs
	}

	var one ldPerformer
	if err := json.Unmarshal(raw, &one); err == nil && one.Name != "" {
		return []string{one.Name}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}

	return nil
}

type ldOffer struct {
	Price    json.RawMessage `json:"price"`
	LowPrice json.RawMessage `json:"lowPrice"`
}

func offersPrice(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var many []ldOffer
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, o := range many {
			if p := rawPrice(o); p != "" {
				return p
			}
		}
		return ""
	}

	var one ldOffer
	if err := json.Unmarshal(raw, &one); err == nil {
		return rawPrice(one)
	}
	return ""
}

func rawPrice(o ldOffer) string {
	for _, raw := range []json.RawMessage{o.Price, o.LowPrice} {
		if len(raw) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		switch p := v.(type) {
		case string:
			if p != "" {
				return p
			}
		case float64:
			return fmt.Sprintf("%g", p)
		}
	}
	return ""
}

// extractBlocks scans the page for <script type="application/ld+json">
// blocks and returns their contents. A full HTML parser is overkill for
// locating script tags; the markup here is machine-generated.
func extractBlocks(html string) []string {
	var blocks []string
	lower := strings.ToLower(html)

	pos := 0
	for {
		idx := strings.Index(lower[pos:], "<script")
		if idx < 0 {
			break
		}
		idx += pos

		tagEnd := strings.Index(lower[idx:], ">")
		if tagEnd < 0 {
			break
		}
		tagEnd += idx

		tag := lower[idx : tagEnd+1]
		end := strings.Index(lower[tagEnd:], "</script>")
		if end < 0 {
			break
		}
		end += tagEnd

		if strings.Contains(tag, "application/ld+json") {
			blocks = append(blocks, strings.TrimSpace(html[tagEnd+1:end]))
		}
		pos = end + len("</script>")
	}
	return blocks
}

// eventObjects flattens one ld+json block into its schema.org Event objects,
// handling top-level arrays and @graph containers.
func eventObjects(block []byte) ([]json.RawMessage, bool) {
	trimmed := strings.TrimSpace(string(block))
	if trimmed == "" {
		return nil, true
	}

	if strings.HasPrefix(trimmed, "[") {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &arr); err != nil {
			return nil, false
		}
		return filterEvents(arr), true
	}

	var probe struct {
		Type  any               `json:"@type"`
		Graph []json.RawMessage `json:"@graph"`
	}
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return nil, false
	}
	if len(probe.Graph) > 0 {
		return filterEvents(probe.Graph), true
	}
	if isEventType(probe.Type) {
		return []json.RawMessage{json.RawMessage(trimmed)}, true
	}
	return nil, true
}

func filterEvents(objs []json.RawMessage) []json.RawMessage {
	var events []json.RawMessage
	for _, obj := range objs {
		var probe struct {
			Type any `json:"@type"`
		}
		if err := json.Unmarshal(obj, &probe); err != nil {
			continue
		}
		if isEventType(probe.Type) {
			events = append(events, obj)
		}
	}
	return events
}

func isEventType(t any) bool {
	switch v := t.(type) {
	case string:
		return strings.Contains(v, "Event")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.Contains(s, "Event") {
				return true
			}
		}
	}
	return false
}

package ical

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider"
)

// Adapter parses iCalendar feeds. Per-venue calendar exports are the other
// common structured format venues publish besides JSON-LD.
type Adapter struct {
	fetcher *provider.Fetcher
}

// New creates an iCal adapter over the given fetcher.
func New(fetcher *provider.Fetcher) *Adapter {
	return &Adapter{fetcher: fetcher}
}

// Name returns the source type this adapter handles.
func (a *Adapter) Name() string { return "ical" }

// Fetch retrieves the feed and splits it into one raw event per VEVENT.
func (a *Adapter) Fetch(ctx context.Context, src provider.Source) ([]provider.RawEvent, error) {
	body, err := a.fetcher.Get(ctx, src.URL)
	if err != nil {
		return nil, &provider.FetchError{Source: src.Name, Err: err}
	}

	var raws []provider.RawEvent
	for _, block := range splitEvents(unfold(string(body))) {
		raws = append(raws, provider.RawEvent{
			Source:  src.Name,
			EventID: propValue(block, "UID"),
			URL:     src.URL,
			Payload: []byte(block),
		})
	}
	return raws, nil
}

// Parse converts one VEVENT block. The UID is the stable source event id;
// the SUMMARY carries the lineup, separated by slashes or commas.
func (a *Adapter) Parse(raw provider.RawEvent) (provider.Event, error) {
	block := string(raw.Payload)

	uid := propValue(block, "UID")
	summary := unescape(propValue(block, "SUMMARY"))
	if summary == "" {
		return provider.Event{}, &provider.ParseError{Source: raw.Source, EventID: uid, Err: fmt.Errorf("missing SUMMARY")}
	}

	dtstart, params := propWithParams(block, "DTSTART")
	if dtstart == "" {
		return provider.Event{}, &provider.ParseError{Source: raw.Source, EventID: uid, Err: fmt.Errorf("missing DTSTART")}
	}
	start, isUTC, err := parseDT(dtstart, params)
	if err != nil {
		return provider.Event{}, &provider.ParseError{Source: raw.Source, EventID: uid, Err: err}
	}

	out := provider.Event{
		StartLocal:    start,
		StartIsUTC:    isUTC,
		ArtistNames:   splitLineup(summary),
		SourceEventID: uid,
		SourceURL:     unescape(propValue(block, "URL")),
	}

	if loc := unescape(propValue(block, "LOCATION")); loc != "" {
		out.VenueName = loc
	}
	if desc := unescape(propValue(block, "DESCRIPTION")); desc != "" {
		out.Description = &desc
	}

	return out, nil
}

// unfold joins iCalendar continuation lines (lines starting with a space or
// tab continue the previous line).
func unfold(body string) []string {
	rawLines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var lines []string
	for _, line := range rawLines {
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += strings.TrimLeft(line, " \t")
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitEvents returns the text of each BEGIN:VEVENT..END:VEVENT block.
func splitEvents(lines []string) []string {
	var blocks []string
	var current []string
	inEvent := false

	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case "BEGIN:VEVENT":
			inEvent = true
			current = nil
		case "END:VEVENT":
			if inEvent {
				blocks = append(blocks, strings.Join(current, "\n"))
			}
			inEvent = false
		default:
			if inEvent {
				current = append(current, line)
			}
		}
	}
	return blocks
}

// propValue returns the value of the first occurrence of a property,
// ignoring any parameters.
func propValue(block, name string) string {
	v, _ := propWithParams(block, name)
	return v
}

// propWithParams returns the value and raw parameter string of a property.
// "DTSTART;TZID=America/Phoenix:20260130T200000" yields
// ("20260130T200000", "TZID=America/Phoenix").
func propWithParams(block, name string) (value, params string) {
	for _, line := range strings.Split(block, "\n") {
		if !strings.HasPrefix(line, name+":") && !strings.HasPrefix(line, name+";") {
			continue
		}
		rest := line[len(name):]
		colon := strings.Index(rest, ":")
		if colon < 0 {
			return "", ""
		}
		value = strings.TrimSpace(rest[colon+1:])
		if strings.HasPrefix(rest, ";") {
			params = rest[1:colon]
		}
		return value, params
	}
	return "", ""
}

// parseDT handles the DTSTART forms: a trailing Z marks a UTC instant,
// a TZID parameter or bare local time is the venue wall clock, and
// VALUE=DATE entries become local midnight.
func parseDT(value, params string) (time.Time, bool, error) {
	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("unrecognized UTC DTSTART %q", value)
		}
		return t, true, nil
	}

	if strings.Contains(params, "VALUE=DATE") || len(value) == 8 {
		t, err := time.Parse("20060102", value)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("unrecognized date DTSTART %q", value)
		}
		return t, false, nil
	}

	t, err := time.Parse("20060102T150405", value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unrecognized DTSTART %q", value)
	}
	return t, false, nil
}

// splitLineup splits a summary like "The National / Lucy Dacus" into artist
// names. Slashes win over commas so "Crosby, Stills & Nash" stays whole when
// slash-separated elsewhere on the line.
func splitLineup(summary string) []string {
	var parts []string
	if strings.Contains(summary, "/") {
		parts = strings.Split(summary, "/")
	} else {
		parts = strings.Split(summary, ",")
	}

	var names []string
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func unescape(s string) string {
	r := strings.NewReplacer(`\n`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)
	return r.Replace(s)
}

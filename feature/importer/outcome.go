package importer

import "fmt"

// Per-record outcome statuses. These strings are stable: they appear in CLI
// output, API responses and the messages operators grep for.
const (
	StatusImported    = "IMPORTED"
	StatusWouldImport = "WOULD IMPORT"
	StatusDuplicate   = "DUPLICATE"
	StatusError       = "ERROR"
	StatusSkip        = "SKIP"
)

// Outcome aggregates the per-record results for one entity type.
type Outcome struct {
	Total      int      `json:"total"`
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Skipped    int      `json:"skipped"`
	Errors     int      `json:"errors"`
	Messages   []string `json:"messages"`
}

func (o *Outcome) record(status, label string) {
	o.Total++
	switch status {
	case StatusImported, StatusWouldImport:
		o.Imported++
	case StatusDuplicate:
		o.Duplicates++
	case StatusSkip:
		o.Skipped++
	case StatusError:
		o.Errors++
	}
	o.Messages = append(o.Messages, fmt.Sprintf("%s: %s", status, label))
}

func (o *Outcome) recordErr(label string, err error) {
	o.Total++
	o.Errors++
	o.Messages = append(o.Messages, fmt.Sprintf("%s: %s: %v", StatusError, label, err))
}

// BatchResult groups the outcomes of one import run by entity.
type BatchResult struct {
	Venues  Outcome `json:"venues"`
	Artists Outcome `json:"artists"`
	Shows   Outcome `json:"shows"`
}

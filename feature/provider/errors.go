package provider

import "fmt"

// FetchError wraps a network or HTTP failure reaching a source. It is
// retryable and scoped to one source.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps malformed markup for a single event. The rest of the
// batch continues.
type ParseError struct {
	Source  string
	EventID string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s event %s: %v", e.Source, e.EventID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

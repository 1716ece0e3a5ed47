package canonical

import "fmt"

// ValidationError marks a candidate missing a required field. Records with
// a validation error are rejected with an ERROR outcome, never imported.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing required field: %s", e.Field)
}

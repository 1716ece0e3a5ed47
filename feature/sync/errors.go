package sync

import "fmt"

// AuthError means a target's credential environment variable is unset. It is
// raised before any network call so a misconfigured target fails fast without
// leaking partial writes.
type AuthError struct {
	Target string
	Env    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("target %s: credential environment variable %s is not set", e.Target, e.Env)
}

package models

import "fmt"

// ValidationError reports a constructor argument that violates a domain
// invariant. Bad input always fails construction, it is never silently
// corrected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

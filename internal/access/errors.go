package access

import (
	"fmt"
	"strings"
)

// InvalidReferenceError reports explicit filter IDs that do not
// resolve for the caller, carrying every offending ID so the boundary
// can surface a precise client error. Explicit filtering is
// all-or-nothing: bad IDs are never silently dropped.
type InvalidReferenceError struct {
	IDs []string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid company references: %s", strings.Join(e.IDs, ", "))
}

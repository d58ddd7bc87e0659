package wiki

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a slug or revision id does not resolve.
var ErrNotFound = errors.New("wiki: not found")

// ErrNoRevisions is an integrity error: a persisted page with zero
// revisions. The append-only creation contract makes this unreachable for
// well-formed data, so callers treat it as fatal rather than a normal miss.
var ErrNoRevisions = errors.New("wiki: page has no revisions")

// ErrBadRequest is returned when a diff is requested without both revision
// identifiers.
var ErrBadRequest = errors.New("wiki: bad request")

// ErrMissingPage is returned by View when the slug does not resolve but the
// caller is authenticated and may be offered the creation form instead of a
// plain not-found.
var ErrMissingPage = errors.New("wiki: page does not exist")

// ForbiddenError reports a failed capability check. It carries the
// human-readable reason shown to the caller.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("wiki: forbidden: %s", e.Reason)
}

// ValidationError reports submitted content that failed a contract, such as
// an empty body or a no-change resubmission. No store mutation happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wiki: invalid %s: %s", e.Field, e.Reason)
}

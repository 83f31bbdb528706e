package stats

import "errors"

// Sentinel kinds for pipeline errors.
var (
	// ErrBadEventLog marks input the pipeline refuses as a whole:
	// invalid JSON, or an event with an unparseable required field.
	// The HTTP layer maps it to a client error.
	ErrBadEventLog = errors.New("malformed event log")
)

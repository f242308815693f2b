package sefaria

import "errors"

var (
	// ErrOffline indicates the Sefaria server could not be reached at all
	// (connection refused, DNS failure). The UI offers deferred retry for
	// this case, so it must stay distinguishable from other failures.
	ErrOffline = errors.New("sefaria unreachable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("sefaria request timed out")

	// ErrNotFound indicates the server has no data for the requested date
	// or reference.
	ErrNotFound = errors.New("sefaria data not found")
)

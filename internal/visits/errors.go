package visits

import "errors"

var (
	// ErrVisitorLookup means the identity store could not find or
	// create the visitor. Fatal to the calling request, not retried.
	ErrVisitorLookup = errors.New("visitor lookup failed")

	// ErrNoOpenVisit means check-out was requested but no entry with a
	// check-in and no check-out exists for that visitor and date.
	// Client-correctable; surfaced to callers as not found.
	ErrNoOpenVisit = errors.New("no open visit")
)

package domain

import "errors"

// Sentinel errors for the resolver pipeline. The HTTP adapter maps these to
// status codes; everything else is an internal error.
var (
	// ErrInvalidRequest means the request was malformed (e.g. fewer than
	// two stops). Never retried.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound means a referenced record (bus) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrGeocodeInsufficient means fewer than two stops could be geocoded,
	// so no route can be requested.
	ErrGeocodeInsufficient = errors.New("insufficient geocoded stops")

	// ErrRoutingUnavailable means the routing provider returned no route.
	ErrRoutingUnavailable = errors.New("routing unavailable")
)

package graph

import "errors"

var (
	// ErrUnknownLocation is returned when a location has no adjacency entry.
	ErrUnknownLocation = errors.New("unknown location")
	// ErrAsymmetricRoute is returned when a route has no reciprocal route of the same length.
	ErrAsymmetricRoute = errors.New("asymmetric route")
	// ErrDuplicateLocation is returned when a name is registered twice.
	ErrDuplicateLocation = errors.New("duplicate location")
)

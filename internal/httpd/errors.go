package httpd

import "errors"

var (
	// ErrHandlerExists is returned when registering a URI+method pair
	// that already has a handler. The first-registered handler stays
	// effective.
	ErrHandlerExists = errors.New("httpd: handler already registered for uri and method")

	// ErrHandlersFull is returned when the route table has reached the
	// configured handler limit.
	ErrHandlersFull = errors.New("httpd: max uri handlers reached")

	// ErrHandlerNotFound is returned by Unregister for an unknown route.
	ErrHandlerNotFound = errors.New("httpd: no handler registered for uri and method")
)

package hal

import "errors"

var (
	// ErrInvalidArgument is returned for endpoints missing a URI or handler.
	ErrInvalidArgument = errors.New("hal: invalid argument")

	// ErrInvalidState is returned for operations that need a running
	// server, such as unregistering a live route while stopped.
	ErrInvalidState = errors.New("hal: invalid state")
)

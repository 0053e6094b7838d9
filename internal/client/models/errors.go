package models

import "errors"

// Domain error taxonomy. The controller converts these into user-visible
// signals; none of them is fatal.
var (
	// ErrConnectivity: backend unreachable at startup.
	ErrConnectivity = errors.New("backend unreachable")
	// ErrNoActiveSession: expected, silent; routes to the unauthenticated view.
	ErrNoActiveSession = errors.New("no active session")
	// ErrAuthentication: credentials were rejected.
	ErrAuthentication = errors.New("authentication failed")
	// ErrValidation: a submission is missing a required field or holds an
	// invalid value. Raised before any network call.
	ErrValidation = errors.New("validation error")
	// ErrTransport: any other network/backend failure.
	ErrTransport = errors.New("transport error")
)

// Package services holds the client's application services:
//
//   - ConnectivityProbe: one reachability check against the backend.
//   - SessionService: login, logout and startup restoration. It is the only
//     owner of the backend-issued credential.
//   - CatalogService: fetches the hydrated, newest-first collection and
//     submits new entries.
//
// Services return errors from the models taxonomy (ErrNoActiveSession,
// ErrAuthentication, ErrValidation, ErrTransport) wrapping the transport
// cause, so callers can match either with errors.Is.
package services

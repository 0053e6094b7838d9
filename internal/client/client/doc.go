// Package client contains the transport side of the catalog client.
//
// # Overview
//
// The package provides:
//  1. The Client interface: health, login, current user, logout, paged
//     listing of the varieties collection and multipart creation.
//  2. HTTPClient, the REST implementation. Every request carries the
//     application id and a fresh request id; the bearer credential is taken
//     from the context (WithBearer), so the transport holds no session state.
//  3. GRPCHealthChecker, a grpc.health.v1 alternative for the startup probe.
//  4. InitDatabase / RunMigrations to bootstrap the local credential store
//     (SQLite plus embedded goose migrations).
//
// # Error Handling
//
// Replies are mapped to sentinels matched with errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrValidation, ErrNotFound, ErrTransport. Non-2xx replies
// are returned as *APIError carrying the status and the server message.
package client

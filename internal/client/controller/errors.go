package controller

import "errors"

// User-facing failure signals. Each wraps the underlying domain error, so
// logs and tests can still tell a validation failure from a transport one.
var (
	ErrLoginFailed  = errors.New("login failed, please check your credentials")
	ErrLoadFailed   = errors.New("failed to load potato varieties")
	ErrCreateFailed = errors.New("failed to create variety, please try again")
)

package shttp

import "errors"

var (
	// ErrDuplicateRoute is returned by Router.Register when the same
	// (method, pattern) pair is registered twice.
	ErrDuplicateRoute = errors.New("shttp: duplicate route")

	// ErrServerClosed is returned by Serve and ListenAndServe after
	// Shutdown.
	ErrServerClosed = errors.New("shttp: server closed")

	errBadPattern = errors.New("shttp: invalid route pattern")
	errNilHandler = errors.New("shttp: nil handler")
)

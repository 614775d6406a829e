package service

import "errors"

// Business-rule errors surfaced to callers. Anything else escaping a service
// is treated as an internal fault and hidden behind a generic 500.
var (
	ErrNotFound         = errors.New("not found")
	ErrNoCapacity       = errors.New("no available trucks")
	ErrNoBins           = errors.New("no bins to route")
	ErrValidation       = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")
)

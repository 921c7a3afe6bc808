package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrEventNotOngoing       = errors.New("event is not ongoing")
	ErrEventReadOnly         = errors.New("event is completed and read-only")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
)

package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConfiguration         = errors.New("configuration error")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

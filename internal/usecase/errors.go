package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrMissingConfig         = errors.New("missing configuration")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

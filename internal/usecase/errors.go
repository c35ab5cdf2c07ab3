package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrInsufficientData      = errors.New("insufficient data")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

package catalog

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid listing state")
	ErrInvalidInput = errors.New("invalid input")
)

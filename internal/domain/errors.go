package domain

import "errors"

// Error kinds shared by every layer. Concrete errors wrap one of these so the
// transport can map them without knowing where they came from.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
)

package sqlite

import "errors"

// Sentinel errors returned by the store. The HTTP layer maps these onto the
// response taxonomy; the board treats all of them as terminal for the
// attempted operation.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("not allowed")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("invalid input")
)

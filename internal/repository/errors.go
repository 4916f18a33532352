package repository

import "errors"

// ErrNotFound is returned when a well-formed identifier matches no row.
var ErrNotFound = errors.New("not found")

// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// string matching on driver errors.
package repository

import "errors"

// ErrConflict is returned when an operation cannot proceed because of
// the record's current state, such as deleting a service whose invoice
// has already been settled. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

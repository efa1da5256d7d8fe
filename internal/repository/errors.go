// Package repository implements data access on top of database/sql.  The
// sentinel errors defined here let handlers distinguish failure scenarios
// without inspecting driver-specific error strings themselves.
package repository

import "errors"

// ErrEmailExists is returned when an insert hits the unique email index.
// Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a record does not exist or is not owned by
// the requesting user.  Handlers translate this into an HTTP 404 response;
// ownership misses are deliberately indistinguishable from absence.
var ErrNotFound = errors.New("not found")

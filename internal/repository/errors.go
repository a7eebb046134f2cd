// Package repository holds the data access layer for users, groups, sections
// and tasks.  Sentinel errors defined here let handlers map store failures to
// HTTP responses without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Owner-scoped
// lookups return it both for absent rows and for rows belonging to another
// owner, so the two cases are indistinguishable to the caller.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registration collides with an existing
// user email.  Handlers translate it into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

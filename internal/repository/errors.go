// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow the handler layer to
// distinguish between different failure scenarios without inspecting
// error strings. Absent rows are reported as sql.ErrNoRows so that a
// missing resource and a resource owned by another provider are
// indistinguishable to callers.
package repository

import "errors"

// ErrNoFields is returned when a sparse update contains none of the
// columns the resource recognizes. Handlers should translate this into
// an HTTP 400 response rather than issuing a no-op statement.
var ErrNoFields = errors.New("no fields to update")

// ErrQueryBuild is returned when a built statement's placeholder count
// does not match its bind values. It indicates a programming defect, not
// user input; handlers must translate it into a generic 500 and log it.
var ErrQueryBuild = errors.New("query build: placeholder/bind mismatch")

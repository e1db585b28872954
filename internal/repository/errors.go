package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// Services translate it into their own typed errors at the boundary.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint. Callers that specify idempotent semantics (get-or-create
// party, auto-create race) treat it as "already exists, fetch and
// reuse"; everywhere else it surfaces as a conflict.
var ErrDuplicate = errors.New("record already exists")

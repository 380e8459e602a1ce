// Package repository implements MySQL persistence for users and the
// revocation ledger. Sentinel errors defined here let the service layer
// distinguish failure scenarios without inspecting driver error strings.
package repository

import "errors"

// ErrEmailExists is returned when an INSERT collides with the unique email
// key, i.e. an account with that address already exists.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateToken is returned when a revocation INSERT collides with the
// unique token hash key. The token was already revoked; under correct
// operation a token is revoked at most once, so callers use this as the
// losing side of the rotation race rather than as a hard failure.
var ErrDuplicateToken = errors.New("token already revoked")

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

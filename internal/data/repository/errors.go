// Package repository defines sentinel errors shared by the data layer so
// that services can distinguish failure scenarios with errors.Is instead of
// inspecting driver-specific error values.
package repository

import "errors"

// ErrDuplicateEmail is returned when an insert collides with the unique
// email index. Services should translate this into a conflict message.
var ErrDuplicateEmail = errors.New("duplicate email")

// ErrNotFound is returned when an update targets a user id that does not
// exist in the store.
var ErrNotFound = errors.New("user not found")

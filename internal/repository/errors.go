// Package repository contains the data access layer. Catalog documents live in
// MongoDB; users and refresh tokens live in MySQL. Sentinel errors defined
// here let higher layers tell failure scenarios apart without knowing which
// driver produced them.
package repository

import "github.com/pkg/errors"

// ErrNotFound is returned when a lookup by id or slug matches no document.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write would break a unique index, such as
// two genres sharing a slug. Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering an email that is already taken.
var ErrEmailExists = errors.New("email already exists")

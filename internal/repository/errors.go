// Package repository defines typed accessors over the atomic
// collection store. This file holds the sentinel error values reused
// across repositories and services. These sentinels allow higher
// layers such as handlers to distinguish between different failure
// scenarios with errors.Is and map them onto HTTP status codes.
package repository

import "errors"

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a uniqueness invariant would be
// violated, such as a second review or bookmark for the same
// (user, movie) pair, or a duplicate username. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, lacks the required role, or has crossed
// the penalty threshold. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// Package store implements the atomic collection store: every named
// collection is a single JSON file that is loaded, validated and
// replaced as a unit. Sentinel errors defined here let callers
// distinguish a record that failed its field contract from a file
// that can no longer be decoded at all.
package store

import "errors"

// ErrValidation is returned when a record fails its field contract
// before a write. The write is aborted and the on-disk collection is
// left untouched.
var ErrValidation = errors.New("validation failed")

// ErrCorrupted is returned when a collection file exists but cannot
// be decoded or contains records that fail validation on read. The
// error is surfaced instead of silently dropping data; operations on
// the affected collection fail until the file is repaired.
var ErrCorrupted = errors.New("collection corrupted")

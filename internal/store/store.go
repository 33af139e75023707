package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Record is implemented by every entity persisted through the store.
// RecordID returns the primary identifier of the record and Validate
// checks the entity's field contract. Validation runs at the store
// boundary on every write and on every load, so malformed records
// never enter or leave a collection unnoticed.
type Record interface {
	RecordID() string
	Validate() error
}

// Collection is a file-backed ordered sequence of records of a single
// entity type. The backing file is a pretty-printed JSON array under
// the data directory, named <name>.json.
//
// Concurrency model: a single RWMutex per collection. Writers hold the
// exclusive lock for the whole read-modify-write cycle, so writes to
// the same collection are linearized. Readers block only for the
// duration of a snapshot copy and observe either the pre- or
// post-write state, never a mix.
//
// The decoded records are cached after the first load and the cache is
// replaced on every successful write, so reads normally touch no disk.
type Collection[T Record] struct {
	name string
	path string

	mu     sync.RWMutex
	cache  []T
	loaded bool
}

// NewCollection binds a collection name to its JSON file under dir.
// The file may not exist yet; a missing file reads as an empty
// collection and is created on the first write.
func NewCollection[T Record](dir, name string) *Collection[T] {
	return &Collection[T]{
		name: name,
		path: filepath.Join(dir, name+".json"),
	}
}

// Name returns the collection name, used in error messages and logs.
func (c *Collection[T]) Name() string { return c.name }

// LoadAll returns a snapshot of all records in storage order. The
// returned slice is a copy; callers may modify it freely without
// affecting the collection.
func (c *Collection[T]) LoadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	if c.loaded {
		out := make([]T, len(c.cache))
		copy(out, c.cache)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	// First access: take the write lock to populate the cache.
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make([]T, len(c.cache))
	copy(out, c.cache)
	return out, nil
}

// ReplaceAll validates the given records and atomically replaces the
// whole collection with them. On any error the previous on-disk state
// remains committed and readable.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(records)
}

// Mutate runs fn against the latest committed state of the collection
// under the exclusive lock and atomically commits whatever fn returns.
// The records passed to fn are a copy; fn may filter, append to or
// rewrite them. If fn returns an error, nothing is written and the
// error propagates unchanged, so callers can run invariant checks
// (uniqueness, existence) inside the same critical section as the
// write itself.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(records []T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(); err != nil {
		return err
	}
	work := make([]T, len(c.cache))
	copy(work, c.cache)
	next, err := fn(work)
	if err != nil {
		return err
	}
	return c.commit(next)
}

// ensureLoaded reads and validates the backing file into the cache.
// Caller must hold the write lock.
func (c *Collection[T]) ensureLoaded() error {
	if c.loaded {
		return nil
	}
	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		c.cache = nil
		c.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: read: %w", c.name, err)
	}
	var records []T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &records); err != nil {
			return fmt.Errorf("%s: %w: %v", c.name, ErrCorrupted, err)
		}
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w: %v", c.name, i, ErrCorrupted, err)
		}
	}
	c.cache = records
	c.loaded = true
	return nil
}

// commit validates records, stages them to a temporary file in the
// same directory and renames it over the collection file in a single
// step. A crash mid-write leaves the previous version intact. Caller
// must hold the write lock.
func (c *Collection[T]) commit(records []T) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w: %v", c.name, i, ErrValidation, err)
		}
	}
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: encode: %w", c.name, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("%s: mkdir: %w", c.name, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), c.name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%s: stage: %w", c.name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: stage write: %w", c.name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: stage sync: %w", c.name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: stage close: %w", c.name, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: commit: %w", c.name, err)
	}
	c.cache = records
	c.loaded = true
	return nil
}

package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors.
var (
	// ErrIO marks every failure touching the persistence medium.
	ErrIO = errors.New("record store i/o failed")
	// ErrCorrupt marks stored data that cannot be decoded back into an observation.
	ErrCorrupt = errors.New("record store corrupt")
	// ErrUnknownBackend is returned by Open for an unsupported Kind.
	ErrUnknownBackend = errors.New("unknown record store backend")
)

// StoreError describes a failed store operation. It matches ErrIO and the
// underlying cause through errors.Is.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrIO, e.Err} }

func ioError(op, path string, err error) error {
	return &StoreError{Op: op, Path: path, Err: err}
}

// corruptError wraps a decode failure at a given line of the medium.
func corruptError(op, path string, line int, err error) error {
	return &StoreError{Op: op, Path: path, Err: fmt.Errorf("%w at line %d: %w", ErrCorrupt, line, err)}
}

// Package repository holds the append-only record stores that persist
// observations and stream them back in insertion order.
package repository

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/okian/apexstats/internal/domain/model"
)

// Store is an append-only log of observations.
type Store interface {
	// Append durably persists o. On success o is visible to every later
	// Records call, in this process or the next. Append does not validate o.
	Append(ctx context.Context, o model.Observation) error

	// Records streams every stored observation in insertion order. The
	// sequence is lazy and may be ranged over more than once. A failure is
	// yielded once as a non-nil error, after which the sequence ends. If ctx
	// is done the sequence yields ctx.Err() and ends.
	Records(ctx context.Context) iter.Seq2[model.Observation, error]

	// Close releases the backend's resources.
	Close() error
}

// Kind selects a Store backend.
type Kind string

// Supported backends.
const (
	KindCSV    Kind = "csv"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// ParseKind matches text against the supported backends.
func ParseKind(text string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(text))); k {
	case KindCSV, KindSQLite, KindMemory:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, text)
}

// Open returns the backend for kind rooted at path. path is ignored for
// KindMemory.
func Open(ctx context.Context, kind Kind, path string, opts ...Option) (Store, error) {
	switch kind {
	case KindCSV:
		return NewCSVLog(path, opts...), nil
	case KindSQLite:
		return OpenSQLite(ctx, path, opts...)
	case KindMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
}

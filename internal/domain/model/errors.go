package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrUnknownCharacter = errors.New("unknown character")
	ErrUnknownSquad     = errors.New("unknown squad composition")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidField     = errors.New("invalid observation field")
)

// ParseKind names the vocabulary a ParseError was raised against.
type ParseKind string

// Parse kinds.
const (
	KindCharacter ParseKind = "character"
	KindSquad     ParseKind = "squad"
	KindTimestamp ParseKind = "timestamp"
)

// ParseError reports a raw string that does not belong to a closed vocabulary.
// Input is the string exactly as the caller supplied it, before trimming.
type ParseError struct {
	Kind  ParseKind
	Input string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindCharacter:
		return fmt.Sprintf("unknown character %q; supported characters are %s", e.Input, characterList())
	case KindSquad:
		return fmt.Sprintf("unknown squad type %q; supported types are solo, duo and trio", e.Input)
	case KindTimestamp:
		return fmt.Sprintf("invalid timestamp %q; use RFC3339 or YYYY-MM-DD", e.Input)
	default:
		return fmt.Sprintf("cannot parse %q", e.Input)
	}
}

// Unwrap maps the kind to its sentinel.
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case KindCharacter:
		return ErrUnknownCharacter
	case KindSquad:
		return ErrUnknownSquad
	case KindTimestamp:
		return ErrInvalidTimestamp
	default:
		return nil
	}
}

// ValidationError reports a field that violates an Observation constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidField }

func characterList() string {
	names := make([]string, 0, len(characterNames))
	for _, c := range Characters() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

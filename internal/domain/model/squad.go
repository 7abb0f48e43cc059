package model

import "strings"

// SquadComposition is the team size category of a match.
type SquadComposition uint8

// Squad compositions. Unknown only ever comes out of storage, see
// DecodeSquadComposition.
const (
	Unknown SquadComposition = iota
	Solo
	Duo
	Trio
)

var squadNames = map[SquadComposition]string{
	Unknown: "unknown",
	Solo:    "solo",
	Duo:     "duo",
	Trio:    "trio",
}

// ParseSquadComposition accepts solo, duo or trio, ignoring case and
// surrounding whitespace. It never returns Unknown.
func ParseSquadComposition(text string) (SquadComposition, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "solo":
		return Solo, nil
	case "duo":
		return Duo, nil
	case "trio":
		return Trio, nil
	}
	return Unknown, &ParseError{Kind: KindSquad, Input: text}
}

// DecodeSquadComposition is the storage-side counterpart of
// ParseSquadComposition: it also maps "unknown" and the empty string, which
// legacy rows carry, to Unknown.
func DecodeSquadComposition(text string) (SquadComposition, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "unknown":
		return Unknown, nil
	}
	return ParseSquadComposition(text)
}

// Valid reports whether s is one of the four compositions.
func (s SquadComposition) Valid() bool {
	_, ok := squadNames[s]
	return ok
}

// String returns the canonical lowercase name used in storage.
func (s SquadComposition) String() string {
	if name, ok := squadNames[s]; ok {
		return name
	}
	return "invalid"
}

// MarshalText implements encoding.TextMarshaler.
func (s SquadComposition) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &ValidationError{Field: "squad", Reason: "out of range"}
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Fresh input goes
// through ParseSquadComposition, so "unknown" is rejected.
func (s *SquadComposition) UnmarshalText(text []byte) error {
	parsed, err := ParseSquadComposition(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Package model contains the domain values passed between layers: the
// recorded Observation and the closed vocabularies it is built from.
package model

import "strings"

// Character is the playable identity chosen for a match.
// The zero value is not a valid character.
type Character uint8

// Known characters.
const (
	Bangalore Character = iota + 1
	Bloodhound
	Caustic
	Gibraltar
	Lifeline
	Mirage
	Octane
	Pathfinder
	Wraith
)

var characterNames = map[Character]string{
	Bangalore:  "bangalore",
	Bloodhound: "bloodhound",
	Caustic:    "caustic",
	Gibraltar:  "gibraltar",
	Lifeline:   "lifeline",
	Mirage:     "mirage",
	Octane:     "octane",
	Pathfinder: "pathfinder",
	Wraith:     "wraith",
}

var charactersByName = func() map[string]Character {
	m := make(map[string]Character, len(characterNames))
	for c, name := range characterNames {
		m[name] = c
	}
	return m
}()

// Characters returns every known character in declaration order.
func Characters() []Character {
	out := make([]Character, 0, len(characterNames))
	for c := Bangalore; c <= Wraith; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCharacter matches text against the known characters, ignoring case
// and surrounding whitespace.
func ParseCharacter(text string) (Character, error) {
	if c, ok := charactersByName[strings.ToLower(strings.TrimSpace(text))]; ok {
		return c, nil
	}
	return 0, &ParseError{Kind: KindCharacter, Input: text}
}

// Valid reports whether c is one of the known characters.
func (c Character) Valid() bool {
	_, ok := characterNames[c]
	return ok
}

// String returns the canonical lowercase name used in storage.
func (c Character) String() string {
	if name, ok := characterNames[c]; ok {
		return name
	}
	return "invalid"
}

// DisplayName returns the capitalised name.
func (c Character) DisplayName() string {
	name := c.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// MarshalText implements encoding.TextMarshaler.
func (c Character) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, &ValidationError{Field: "character", Reason: "not set"}
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Character) UnmarshalText(text []byte) error {
	parsed, err := ParseCharacter(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

package model

import "time"

// LastPlacePosition is the placement from which a match counts as a last
// place finish. It is a fixed approximation and ignores the real lobby size.
const LastPlacePosition = 20

// Observation is one recorded match outcome. It is built once by a
// collector, appended once to a store and never mutated afterwards.
type Observation struct {
	Kills         uint64           `json:"kills"`
	Damage        uint64           `json:"damage"`
	SquadPosition uint64           `json:"squad_position"`
	Character     Character        `json:"character"`
	Squad         SquadComposition `json:"squad"`
	Notes         string           `json:"notes"`
	RecordedAt    time.Time        `json:"recorded_at"`
}

// IsWin reports a first place finish.
func (o Observation) IsWin() bool { return o.SquadPosition == 1 }

// IsTopThree reports a podium finish.
func (o Observation) IsTopThree() bool { return o.SquadPosition < 4 }

// IsLast reports a finish at or beyond LastPlacePosition.
func (o Observation) IsLast() bool { return o.SquadPosition >= LastPlacePosition }

// Validate checks the field constraints that the unsigned types cannot
// express. Stores never call it; collectors do before appending.
func (o Observation) Validate() error {
	switch {
	case o.SquadPosition == 0:
		return &ValidationError{Field: "squad_position", Reason: "must be at least 1"}
	case !o.Character.Valid():
		return &ValidationError{Field: "character", Reason: "not set"}
	case !o.Squad.Valid():
		return &ValidationError{Field: "squad", Reason: "out of range"}
	case o.RecordedAt.IsZero():
		return &ValidationError{Field: "recorded_at", Reason: "not set"}
	}
	return nil
}

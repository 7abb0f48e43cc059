// Package stats answers aggregate questions over a stream of observations.
//
// A Query is an immutable filter description. Every builder method returns
// a new Query; the receiver is never modified, so a base query can be shared
// and refined independently. Empty character or squad sets mean the
// dimension is unrestricted. Time bounds are exclusive at both ends.
package stats

import (
	"iter"
	"maps"
	"time"

	"github.com/okian/apexstats/internal/domain/model"
)

// Query selects observations by character, squad composition and time window.
type Query struct {
	characters map[model.Character]struct{}
	squads     map[model.SquadComposition]struct{}
	after      *time.Time
	before     *time.Time
}

// NewQuery returns a query that matches every observation.
func NewQuery() Query {
	return Query{}
}

// MatchCharacter adds c to the accepted characters.
func (q Query) MatchCharacter(c model.Character) Query {
	return q.MatchCharacters(c)
}

// MatchCharacters adds every element of cs to the accepted characters.
func (q Query) MatchCharacters(cs ...model.Character) Query {
	next := q.clone()
	if len(cs) == 0 {
		return next
	}
	if next.characters == nil {
		next.characters = make(map[model.Character]struct{}, len(cs))
	}
	for _, c := range cs {
		next.characters[c] = struct{}{}
	}
	return next
}

// MatchSquad adds s to the accepted squad compositions.
func (q Query) MatchSquad(s model.SquadComposition) Query {
	return q.MatchSquads(s)
}

// MatchSquads adds every element of ss to the accepted squad compositions.
func (q Query) MatchSquads(ss ...model.SquadComposition) Query {
	next := q.clone()
	if len(ss) == 0 {
		return next
	}
	if next.squads == nil {
		next.squads = make(map[model.SquadComposition]struct{}, len(ss))
	}
	for _, s := range ss {
		next.squads[s] = struct{}{}
	}
	return next
}

// After restricts matches to observations recorded strictly later than t.
func (q Query) After(t time.Time) Query {
	next := q.clone()
	next.after = &t
	return next
}

// Before restricts matches to observations recorded strictly earlier than t.
func (q Query) Before(t time.Time) Query {
	next := q.clone()
	next.before = &t
	return next
}

// Characters returns the accepted characters; empty means any.
func (q Query) Characters() []model.Character {
	out := make([]model.Character, 0, len(q.characters))
	for _, c := range model.Characters() {
		if _, ok := q.characters[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Squads returns the accepted squad compositions; empty means any.
func (q Query) Squads() []model.SquadComposition {
	out := make([]model.SquadComposition, 0, len(q.squads))
	for _, s := range []model.SquadComposition{model.Solo, model.Duo, model.Trio, model.Unknown} {
		if _, ok := q.squads[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// AfterBound returns the exclusive lower bound, if set.
func (q Query) AfterBound() (time.Time, bool) {
	if q.after == nil {
		return time.Time{}, false
	}
	return *q.after, true
}

// BeforeBound returns the exclusive upper bound, if set.
func (q Query) BeforeBound() (time.Time, bool) {
	if q.before == nil {
		return time.Time{}, false
	}
	return *q.before, true
}

// Matches reports whether o passes every active filter.
func (q Query) Matches(o model.Observation) bool {
	if len(q.characters) > 0 {
		if _, ok := q.characters[o.Character]; !ok {
			return false
		}
	}
	if len(q.squads) > 0 {
		if _, ok := q.squads[o.Squad]; !ok {
			return false
		}
	}
	if q.before != nil && !o.RecordedAt.Before(*q.before) {
		return false
	}
	if q.after != nil && !o.RecordedAt.After(*q.after) {
		return false
	}
	return true
}

// Filter yields the elements of records that match q, in order.
func (q Query) Filter(records iter.Seq[model.Observation]) iter.Seq[model.Observation] {
	return func(yield func(model.Observation) bool) {
		for o := range records {
			if q.Matches(o) && !yield(o) {
				return
			}
		}
	}
}

// Execute folds the matching observations into a QueryResult in a single
// pass. ok is false when nothing matched.
func (q Query) Execute(records iter.Seq[model.Observation]) (QueryResult, bool) {
	var r QueryResult
	for o := range q.Filter(records) {
		r.add(o)
	}
	if r.Matches == 0 {
		return QueryResult{}, false
	}
	return r, true
}

func (q Query) clone() Query {
	next := Query{after: q.after, before: q.before}
	if q.characters != nil {
		next.characters = maps.Clone(q.characters)
	}
	if q.squads != nil {
		next.squads = maps.Clone(q.squads)
	}
	return next
}

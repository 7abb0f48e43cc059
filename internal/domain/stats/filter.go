package stats

import (
	"strings"
	"time"

	"github.com/okian/apexstats/internal/domain/model"
)

// LastWeekWindow is the look-back used by Filter.LastWeek.
const LastWeekWindow = 7 * 24 * time.Hour

// Filter is the raw-string form of a Query as it arrives from a CLI flag set
// or an HTTP query string. Blank entries are ignored.
type Filter struct {
	Characters []string
	Squads     []string
	After      string
	Before     string
	LastWeek   bool
}

// Query parses f into a Query. now anchors LastWeek and supplies the
// location for bare dates. Parse errors are returned as *model.ParseError so
// the caller can report the offending input.
func (f Filter) Query(now time.Time) (Query, error) {
	q := NewQuery()

	for _, raw := range f.Characters {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		c, err := model.ParseCharacter(raw)
		if err != nil {
			return Query{}, err
		}
		q = q.MatchCharacter(c)
	}

	for _, raw := range f.Squads {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := model.ParseSquadComposition(raw)
		if err != nil {
			return Query{}, err
		}
		q = q.MatchSquad(s)
	}

	var after time.Time
	hasAfter := false
	if f.LastWeek {
		after, hasAfter = now.Add(-LastWeekWindow), true
	}
	if strings.TrimSpace(f.After) != "" {
		t, err := model.ParseTimestamp(f.After, now.Location())
		if err != nil {
			return Query{}, err
		}
		// The tighter of the two lower bounds wins.
		if !hasAfter || t.After(after) {
			after, hasAfter = t, true
		}
	}
	if hasAfter {
		q = q.After(after)
	}

	if strings.TrimSpace(f.Before) != "" {
		t, err := model.ParseTimestamp(f.Before, now.Location())
		if err != nil {
			return Query{}, err
		}
		q = q.Before(t)
	}

	return q, nil
}

package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/apexstats/internal/domain/model"
)

// Column names of the CSV log. The order is the write order; reads locate
// columns by name.
const (
	colKills         = "Kills"
	colDamage        = "Damage"
	colSquadPosition = "Squad Position"
	colCharacter     = "Legend"
	colTime          = "Time"
	colSquad         = "Squad Makeup"
	colNotes         = "Notes"
)

var csvHeader = []string{colKills, colDamage, colSquadPosition, colCharacter, colTime, colSquad, colNotes}

func encodeRow(o model.Observation) []string {
	return []string{
		strconv.FormatUint(o.Kills, 10),
		strconv.FormatUint(o.Damage, 10),
		strconv.FormatUint(o.SquadPosition, 10),
		o.Character.String(),
		o.RecordedAt.Format(time.RFC3339Nano),
		o.Squad.String(),
		o.Notes,
	}
}

// csvColumns maps column names to positions in a header row. Optional
// columns are -1 when absent.
type csvColumns struct {
	kills, damage, position, character, at, squad, notes int
}

func newCSVColumns(header []string) (csvColumns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	lookup := func(names ...string) int {
		for _, name := range names {
			if i, ok := index[strings.ToLower(name)]; ok {
				return i
			}
		}
		return -1
	}

	cols := csvColumns{
		kills:     lookup(colKills),
		damage:    lookup(colDamage),
		position:  lookup(colSquadPosition),
		character: lookup(colCharacter, "Character"),
		at:        lookup(colTime),
		squad:     lookup(colSquad),
		notes:     lookup(colNotes),
	}
	required := map[string]int{
		colKills:         cols.kills,
		colDamage:        cols.damage,
		colSquadPosition: cols.position,
		colCharacter:     cols.character,
		colTime:          cols.at,
	}
	for _, name := range []string{colKills, colDamage, colSquadPosition, colCharacter, colTime} {
		if required[name] < 0 {
			return csvColumns{}, fmt.Errorf("header is missing column %q", name)
		}
	}
	return cols, nil
}

func (c csvColumns) decode(row []string) (model.Observation, error) {
	var (
		o   model.Observation
		err error
	)
	if o.Kills, err = parseCounter(colKills, row[c.kills]); err != nil {
		return model.Observation{}, err
	}
	if o.Damage, err = parseCounter(colDamage, row[c.damage]); err != nil {
		return model.Observation{}, err
	}
	if o.SquadPosition, err = parseCounter(colSquadPosition, row[c.position]); err != nil {
		return model.Observation{}, err
	}
	if o.Character, err = model.ParseCharacter(row[c.character]); err != nil {
		return model.Observation{}, err
	}
	if o.RecordedAt, err = time.Parse(time.RFC3339Nano, strings.TrimSpace(row[c.at])); err != nil {
		return model.Observation{}, fmt.Errorf("column %q: %w", colTime, err)
	}
	if c.squad >= 0 {
		if o.Squad, err = model.DecodeSquadComposition(row[c.squad]); err != nil {
			return model.Observation{}, err
		}
	}
	if c.notes >= 0 {
		o.Notes = row[c.notes]
	}
	return o, nil
}

func parseCounter(column, text string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", column, err)
	}
	return n, nil
}

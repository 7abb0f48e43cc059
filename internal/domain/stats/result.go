package stats

import "github.com/okian/apexstats/internal/domain/model"

// QueryResult holds the summary statistics of the observations that matched
// a Query. It is only handed out when at least one observation matched.
type QueryResult struct {
	MaxDamage   uint64 `json:"max_damage"`
	MaxKills    uint64 `json:"max_kills"`
	TotalDamage uint64 `json:"total_damage"`
	TotalKills  uint64 `json:"total_kills"`
	Matches     uint64 `json:"number_of_matches"`

	Wins     uint64 `json:"wins"`
	TopThree uint64 `json:"top_three"`
}

// AverageDamage returns damage per match.
func (r QueryResult) AverageDamage() float64 {
	return float64(r.TotalDamage) / float64(r.Matches)
}

// AverageKills returns kills per match.
func (r QueryResult) AverageKills() float64 {
	return float64(r.TotalKills) / float64(r.Matches)
}

// WinRate returns the share of matches finished first.
func (r QueryResult) WinRate() float64 {
	return float64(r.Wins) / float64(r.Matches)
}

func (r *QueryResult) add(o model.Observation) {
	r.TotalDamage += o.Damage
	r.TotalKills += o.Kills
	r.MaxDamage = max(r.MaxDamage, o.Damage)
	r.MaxKills = max(r.MaxKills, o.Kills)
	r.Matches++
	if o.IsWin() {
		r.Wins++
	}
	if o.IsTopThree() {
		r.TopThree++
	}
}

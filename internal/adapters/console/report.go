package console

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/apexstats/internal/domain/model"
	"github.com/okian/apexstats/internal/domain/stats"
)

// NoDataMessage is written instead of a report when nothing matched.
const NoDataMessage = "No observations match the given filters."

// WriteReport writes the seven summary lines for result, or NoDataMessage
// when ok is false.
func WriteReport(w io.Writer, result stats.QueryResult, ok bool) error {
	if !ok {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	_, err := fmt.Fprintf(w,
		"Max damage: %d\n"+
			"Max kills: %d\n"+
			"Average damage per round: %.2f\n"+
			"Average kills per round: %.2f\n"+
			"Number of matches: %d\n"+
			"Total damage: %d\n"+
			"Total kills: %d\n",
		result.MaxDamage,
		result.MaxKills,
		result.AverageDamage(),
		result.AverageKills(),
		result.Matches,
		result.TotalDamage,
		result.TotalKills,
	)
	return err
}

// WriteObservations writes one aligned row per observation, oldest first.
func WriteObservations(w io.Writer, observations []model.Observation) error {
	if len(observations) == 0 {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tLEGEND\tSQUAD\tPOSITION\tKILLS\tDAMAGE\tNOTES")
	for _, o := range observations {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			o.RecordedAt.Format("2006-01-02 15:04"),
			o.Character.DisplayName(),
			o.Squad,
			o.SquadPosition,
			o.Kills,
			o.Damage,
			o.Notes,
		)
	}
	return tw.Flush()
}

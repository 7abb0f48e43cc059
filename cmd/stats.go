package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/apexstats/internal/adapters/console"
	"github.com/okian/apexstats/internal/domain/stats"
)

// addFilterFlags binds the query filter flags shared by stats and list.
func addFilterFlags(cmd *cobra.Command, f *stats.Filter) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&f.Characters, "character", "c", nil, "only matches played as this legend (repeatable)")
	flags.StringArrayVarP(&f.Squads, "squad", "s", nil, "only matches with this squad makeup: solo, duo or trio (repeatable)")
	flags.StringVar(&f.After, "after", "", "only matches strictly after this time (RFC3339 or YYYY-MM-DD)")
	flags.StringVar(&f.Before, "before", "", "only matches strictly before this time (RFC3339 or YYYY-MM-DD)")
	flags.BoolVar(&f.LastWeek, "last-week", false, "only matches from the last 7 days")
}

func (c *cli) statsCmd() *cobra.Command {
	var f stats.Filter

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics for the recorded matches",
		Long: `Aggregates every recorded match that passes the filters and prints
max damage, max kills, average damage and kills per round, the number of
matches and the totals.

Example:
  apexstats stats --character wraith --character octane --squad trio --after 2019-04-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, ok, err := c.svc.QueryFilter(cmd.Context(), f)
			if err != nil {
				return err
			}
			return console.WriteReport(c.stdout, result, ok)
		},
	}
	addFilterFlags(cmd, &f)
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var (
		f     stats.Filter
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := f.Query(c.svc.Now())
			if err != nil {
				return err
			}
			list, err := c.svc.Observations(cmd.Context(), q, limit)
			if err != nil {
				return err
			}
			return console.WriteObservations(c.stdout, list)
		},
	}
	addFilterFlags(cmd, &f)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the most recent N matches (0 for all)")
	return cmd
}

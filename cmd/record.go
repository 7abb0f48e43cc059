package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/apexstats/internal/adapters/console"
)

func (c *cli) recordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Interactively record one match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			collector := console.NewCollector(c.stdin, c.stdout, console.WithClock(c.svc.Now))

			o, err := collector.Collect(ctx)
			if err != nil {
				return fmt.Errorf("could not gather observation: %w", err)
			}
			if err := c.svc.Record(ctx, o); err != nil {
				return fmt.Errorf("could not record observation: %w", err)
			}
			return nil
		},
	}
}

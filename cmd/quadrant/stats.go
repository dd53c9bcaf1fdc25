package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/quadrant"
)

func statsCmd(a *app) *cobra.Command {
	var r string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.svc.Stats(cmd.Context(), domain.StatsRange(r))
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd, stats)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "range\t%s (%s to %s)\n", stats.Range, stats.Start.Format("2006-01-02"), stats.End.Format("2006-01-02"))
			fmt.Fprintf(w, "completed\t%d\n", stats.Completed)
			fmt.Fprintf(w, "streak\t%d days\n", stats.Streak)
			if stats.BusiestDay != "" {
				fmt.Fprintf(w, "busiest\t%s (%d) %s\n", stats.BusiestDay, stats.BusiestCount, todo.HighlightLabel(stats.BusiestCount))
			}
			for q := quadrant.DoFirst; q <= quadrant.Drop; q++ {
				fmt.Fprintf(w, "%s\t%d\n", quadrantTitle(q), stats.Quadrants.Counts[q])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&r, "range", "r", string(domain.RangeWeek), "today, week or month")
	return cmd
}

func matrixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "matrix",
		Short: "Show open tasks grouped by quadrant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.svc.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			buckets := quadrant.Buckets(tasks)

			if a.asJSON {
				return writeJSON(cmd, buckets)
			}

			out := cmd.OutOrStdout()
			for q := quadrant.DoFirst; q <= quadrant.Drop; q++ {
				fmt.Fprintf(out, "%s (%d)\n", quadrantTitle(q), len(buckets[q]))
				for _, t := range buckets[q] {
					fmt.Fprintf(out, "  %s  %s  %s\n", shortID(t.ID), t.Title, dueLabel(t))
				}
			}
			return nil
		},
	}
}

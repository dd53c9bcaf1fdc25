package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func remindersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Inspect and rebuild the reminder queue",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List queued reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.queue.Entries(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd, entries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tAT\tSTATUS\tTITLE")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(e.TaskID), e.ReminderDateTime, e.Status, e.Title)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Rebuild the queue from the task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tasks, err := a.svc.ListTasks(ctx)
			if err != nil {
				return err
			}
			result, err := a.queue.Sync(ctx, tasks)
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd, result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "upserted %d, removed %d\n", result.Upserted, result.Removed)
			return nil
		},
	})

	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/ptr"
	"github.com/rezkam/quadrant/internal/quadrant"
)

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProblems(cmd *cobra.Command, problems []string) {
	for _, p := range problems {
		fmt.Fprintf(cmd.ErrOrStderr(), "- %s\n", p)
	}
}

func (a *app) printTasks(cmd *cobra.Command, tasks []*domain.Task) error {
	if a.asJSON {
		if tasks == nil {
			tasks = []*domain.Task{}
		}
		return writeJSON(cmd, tasks)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tQ\tTITLE\tDUE\tPRIORITY\tCATEGORY")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			shortID(t.ID), doneMark(t), t.Quadrant, t.Title, dueLabel(t), t.Priority, a.categoryName(t.CategoryID))
	}
	return w.Flush()
}

func (a *app) printTask(cmd *cobra.Command, t *domain.Task) error {
	if a.asJSON {
		return writeJSON(cmd, t)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", t.ID)
	fmt.Fprintf(w, "title\t%s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(w, "description\t%s\n", t.Description)
	}
	fmt.Fprintf(w, "done\t%s\n", doneMark(t))
	fmt.Fprintf(w, "due\t%s\n", dueLabel(t))
	fmt.Fprintf(w, "priority\t%s\n", t.Priority)
	fmt.Fprintf(w, "scores\timportance %d, urgency %d\n", ptr.Deref(t.ImportanceScore, 0), ptr.Deref(t.UrgencyScore, 0))
	fmt.Fprintf(w, "quadrant\t%d %s\n", t.Quadrant, t.QuadrantRecommendation)
	fmt.Fprintf(w, "category\t%s\n", a.categoryName(t.CategoryID))
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "tags\t%s\n", strings.Join(t.Tags, ", "))
	}
	if t.ReminderEnabled {
		fmt.Fprintf(w, "reminder\t%s %s (%s)\n", t.ReminderDate, t.ReminderTime, t.ReminderStatus)
	}
	if t.RecurrenceEnabled {
		fmt.Fprintf(w, "repeat\t%s every %d, #%d of series %s\n",
			t.RecurrenceType, t.RecurrenceInterval, t.RecurrenceOccurrence, shortID(t.RecurrenceSeriesID))
	}
	return w.Flush()
}

func (a *app) categoryName(id string) string {
	if c := domain.FindCategory(a.svc.Categories(), id); c != nil {
		return c.Icon + " " + c.Name
	}
	return id
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func doneMark(t *domain.Task) string {
	if t.Completed {
		return "x"
	}
	return "-"
}

func dueLabel(t *domain.Task) string {
	if t.DueDate == "" {
		return "-"
	}
	return strings.TrimSpace(t.DueDate + " " + t.DueTime)
}

func quadrantTitle(q int) string {
	return fmt.Sprintf("Q%d %s", q, quadrant.Recommendation(q))
}

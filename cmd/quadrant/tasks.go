package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
)

var errValidation = errors.New("task is invalid")

func addCmd(a *app) *cobra.Command {
	var (
		flags taskFlags
		force bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Long: `Create a task. The input is validated first; --force stores it anyway
and lets normalization repair what it can.

Examples:
  quadrant add -t "写周报" --due 2024-01-12 --at 18:00 -p high
  quadrant add -t "晨跑" --due 2024-01-15 --repeat weekly --weekdays 1,3,5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categories := a.svc.Categories()

			raw, err := flags.task(cmd, categories)
			if err != nil {
				return err
			}
			if problems := raw.Validate(categories, time.Now()); len(problems) > 0 && !force {
				printProblems(cmd, problems)
				return errValidation
			}

			task, err := a.svc.CreateTask(ctx, raw)
			if err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}
			a.syncReminders(ctx)
			return a.printTask(cmd, task)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "store the task even if validation fails")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check task input without storing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := a.svc.Categories()
			raw, err := flags.task(cmd, categories)
			if err != nil {
				return err
			}

			problems := raw.Validate(categories, time.Now())
			if a.asJSON {
				if problems == nil {
					problems = []string{}
				}
				return writeJSON(cmd, map[string]any{"valid": len(problems) == 0, "problems": problems})
			}
			if len(problems) > 0 {
				printProblems(cmd, problems)
				return errValidation
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var (
		done, open bool
		query      domain.TaskQuery
		category   string
		sort       string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if done && open {
				return errors.New("--done and --open are mutually exclusive")
			}
			if done || open {
				query.Completed = &done
			}
			if category != "" {
				c, err := resolveCategory(a.svc.Categories(), category)
				if err != nil {
					return err
				}
				query.CategoryID = c.ID
			}
			switch s := domain.TaskSort(sort); s {
			case "", domain.SortByCreated, domain.SortByDue, domain.SortByPriority:
				query.Sort = s
			default:
				return fmt.Errorf("unknown sort %q", sort)
			}

			tasks, err := a.svc.FindTasks(cmd.Context(), query)
			if err != nil {
				return err
			}
			return a.printTasks(cmd, tasks)
		},
	}

	cmd.Flags().BoolVar(&done, "done", false, "only completed tasks")
	cmd.Flags().BoolVar(&open, "open", false, "only open tasks")
	cmd.Flags().StringVarP(&query.Keyword, "keyword", "k", "", "match title or description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	cmd.Flags().StringSliceVar(&query.Tags, "tag", nil, "require tag (repeatable)")
	cmd.Flags().IntVarP(&query.Quadrant, "quadrant", "q", 0, "quadrant 1-4")
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "created, due or priority")
	return cmd
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.resolveTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printTask(cmd, task)
		},
	}
}

func updateCmd(a *app) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a task",
		Long: `Change fields of a task. Only the flags given are applied; pass an
empty value (for example --due "") to clear a field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}

			patch, err := flags.patch(cmd, a.svc.Categories())
			if err != nil {
				return err
			}

			task, err := a.svc.UpdateTask(ctx, current.ID, patch)
			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
			a.syncReminders(ctx)
			return a.printTask(cmd, task)
		},
	}

	flags.register(cmd)
	return cmd
}

func completeCmd(a *app, completed bool) *cobra.Command {
	use, short := "complete <id>", "Mark a task done"
	if !completed {
		use, short = "reopen <id>", "Mark a task not done"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}

			task, err := a.svc.UpdateTask(ctx, current.ID, domain.TaskPatch{Completed: &completed})
			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
			a.syncReminders(ctx)
			return a.printTask(cmd, task)
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			task, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeleteTask(ctx, task.ID); err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}
			a.syncReminders(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", task.ID)
			return nil
		},
	}
}

func scoresCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scores <id> <importance> <urgency>",
		Short: "Place a task on the matrix by setting both scores",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}

			var importance, urgency int
			if _, err := fmt.Sscan(args[1], &importance); err != nil {
				return fmt.Errorf("invalid importance %q", args[1])
			}
			if _, err := fmt.Sscan(args[2], &urgency); err != nil {
				return fmt.Errorf("invalid urgency %q", args[2])
			}

			task, err := a.svc.SetScores(ctx, current.ID, importance, urgency)
			if err != nil {
				return err
			}
			return a.printTask(cmd, task)
		},
	}
}

func upcomingCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming <id>",
		Short: "Preview the next occurrences of a recurring task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			task, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}

			until := time.Now().AddDate(0, 0, days)
			dates, err := a.svc.PreviewOccurrences(ctx, task.ID, until)
			if err != nil {
				return err
			}

			labels := make([]string, 0, len(dates))
			for _, d := range dates {
				date, clock := datetime.Split(d)
				labels = append(labels, date+" "+clock)
			}
			if a.asJSON {
				return writeJSON(cmd, labels)
			}
			for _, l := range labels {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "how far ahead to look")
	return cmd
}

// resolveTask accepts a full id or a unique prefix or suffix of one, such as
// the short id printed by list.
func (a *app) resolveTask(ctx context.Context, ref string) (*domain.Task, error) {
	if ref == "" {
		return nil, domain.ErrTaskNotFound
	}
	if task, err := a.svc.GetTask(ctx, ref); err == nil {
		return task, nil
	}

	tasks, err := a.svc.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	var match *domain.Task
	for _, t := range tasks {
		if !strings.HasPrefix(t.ID, ref) && !strings.HasSuffix(t.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("task id %q is ambiguous", ref)
		}
		match = t
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, ref)
	}
	return match, nil
}

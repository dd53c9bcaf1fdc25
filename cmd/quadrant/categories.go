package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/domain"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(categoriesListCmd(a))
	cmd.AddCommand(categoriesAddCmd(a))
	cmd.AddCommand(categoriesEditCmd(a))
	cmd.AddCommand(categoriesDeleteCmd(a))
	return cmd
}

func categoriesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with their task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categories, err := a.svc.ListCategories(ctx)
			if err != nil {
				return err
			}
			usage := a.svc.CategoryUsage(ctx)

			if a.asJSON {
				type row struct {
					domain.Category
					Tasks int `json:"tasks"`
				}
				rows := make([]row, 0, len(categories))
				for _, c := range categories {
					rows = append(rows, row{Category: c, Tasks: usage[c.ID]})
				}
				return writeJSON(cmd, rows)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tTASKS")
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%d\n", c.ID, c.Icon, c.Name, c.Color, usage[c.ID])
			}
			return w.Flush()
		},
	}
}

func categoriesAddCmd(a *app) *cobra.Command {
	var color, icon string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.svc.CreateCategory(cmd.Context(), args[0], color, icon)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}
			if a.asJSON {
				return writeJSON(cmd, c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s %s)\n", c.ID, c.Icon, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "hex color from the palette")
	cmd.Flags().StringVar(&icon, "icon", "", "icon from the icon set")
	return cmd
}

func categoriesEditCmd(a *app) *cobra.Command {
	var name, color, icon string

	cmd := &cobra.Command{
		Use:     "edit <id|name>",
		Aliases: []string{"rename"},
		Short:   "Change a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := resolveCategory(a.svc.Categories(), args[0])
			if err != nil {
				return err
			}

			var patch todo.CategoryPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if cmd.Flags().Changed("icon") {
				patch.Icon = &icon
			}

			c, err := a.svc.UpdateCategory(cmd.Context(), current.ID, patch)
			if err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}
			if a.asJSON {
				return writeJSON(cmd, c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s %s)\n", c.ID, c.Icon, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "new color")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon")
	return cmd
}

func categoriesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a category and move its tasks to the first remaining one",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveCategory(a.svc.Categories(), args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeleteCategory(cmd.Context(), c.ID); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", c.ID)
			return nil
		},
	}
}

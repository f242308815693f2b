package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rabbishuki/rambam-sub001/internal/cli/formatter"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
)

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Keep a free-form note on a study day",
	}

	var setDay string
	set := &cobra.Command{
		Use:   "set <path> <text...>",
		Short: "Write the day's note, replacing any previous one",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			path, err := parsePath(args[0])
			if err != nil {
				return err
			}
			day, err := resolveDay(ctx, app, setDay)
			if err != nil {
				return err
			}
			sum, err := app.Summaries.Set(ctx, path, day, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note saved for %s %s\n", sum.Path, sum.Day)
			return nil
		},
	}
	set.Flags().StringVar(&setDay, "day", "", "Date (YYYY-MM-DD, \"today\", \"yesterday\"); defaults to today")

	var showDay string
	show := &cobra.Command{
		Use:   "show <path>",
		Short: "Print the day's note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			path, err := parsePath(args[0])
			if err != nil {
				return err
			}
			day, err := resolveDay(ctx, app, showDay)
			if err != nil {
				return err
			}
			sum, err := app.Summaries.Get(ctx, path, day)
			if errors.Is(err, repository.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf("no note for %s %s", path, day)))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sum.Note)
			return nil
		},
	}
	show.Flags().StringVar(&showDay, "day", "", "Date (YYYY-MM-DD, \"today\", \"yesterday\"); defaults to today")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all day notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sums, err := app.Summaries.List(context.Background())
			if err != nil {
				return err
			}
			if len(sums) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("no notes"))
				return nil
			}
			for _, sum := range sums {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", formatter.Bold(string(sum.Day)), formatter.Dim(string(sum.Path)), sum.Note)
			}
			return nil
		},
	}

	var rmDay string
	rm := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete the day's note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			path, err := parsePath(args[0])
			if err != nil {
				return err
			}
			day, err := resolveDay(ctx, app, rmDay)
			if err != nil {
				return err
			}
			if err := app.Summaries.Remove(ctx, path, day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note for %s %s removed\n", path, day)
			return nil
		},
	}
	rm.Flags().StringVar(&rmDay, "day", "", "Date (YYYY-MM-DD, \"today\", \"yesterday\"); defaults to today")

	cmd.AddCommand(set, show, list, rm)
	return cmd
}

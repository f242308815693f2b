package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rabbishuki/rambam-sub001/internal/cli/formatter"
)

func newCalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cal [YYYY-MM]",
		Short: "Show a month calendar of aggregate completion",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			today := app.Study.Today(ctx)

			year, month := today.Time().Year(), today.Time().Month()
			if len(args) == 1 {
				parsed, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("month must look like 2026-02, got %q", args[0])
				}
				year, month = parsed.Year(), parsed.Month()
			}

			view, err := app.Stats.CalendarMonth(ctx, year, month)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMonth(view, today))
			return nil
		},
	}
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-path streak, backlog, and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out, err := app.Stats.Overview(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverview(out, language(ctx, app)))
			return nil
		},
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rabbishuki/rambam-sub001/internal/cli/formatter"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/sefaria"
)

func newTodayCmd(app *App) *cobra.Command {
	var withItems bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's study cards for the active paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printDay(cmd, app, "", withItems)
		},
	}

	cmd.Flags().BoolVar(&withItems, "items", false, "Include the item checklist under each card")
	return cmd
}

func newDayCmd(app *App) *cobra.Command {
	var withItems bool

	cmd := &cobra.Command{
		Use:   "day <path> <date>",
		Short: "Show one path's card for a specific date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			path, err := parsePath(args[0])
			if err != nil {
				return err
			}
			day, err := resolveDay(ctx, app, args[1])
			if err != nil {
				return err
			}
			return printCard(cmd, app, path, day, withItems)
		},
	}

	cmd.Flags().BoolVar(&withItems, "items", false, "Include the item checklist")
	return cmd
}

// printToday is the non-interactive bare-root output.
func printToday(cmd *cobra.Command, app *App) error {
	return printDay(cmd, app, "", false)
}

func printDay(cmd *cobra.Command, app *App, dayArg string, withItems bool) error {
	ctx := context.Background()
	day, err := resolveDay(ctx, app, dayArg)
	if err != nil {
		return err
	}

	cfg, err := app.Settings.Get(ctx)
	if err != nil {
		return err
	}
	for _, path := range cfg.ActivePaths {
		if err := printCard(cmd, app, path, day, withItems); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func printCard(cmd *cobra.Command, app *App, path domain.StudyPath, day domain.DayKey, withItems bool) error {
	ctx := context.Background()
	lang := language(ctx, app)

	card, err := app.Study.DayCard(ctx, path, day)
	if err != nil {
		return describeFetchError(err, path, day)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDayCard(card, lang))

	if withItems {
		items, err := app.Study.DayItems(ctx, path, day)
		if err != nil {
			return describeFetchError(err, path, day)
		}
		cfg, err := app.Settings.Get(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDayItems(card, items, lang, cfg.HideCompleted))
	}
	return nil
}

// describeFetchError turns provider sentinels into actionable messages.
func describeFetchError(err error, path domain.StudyPath, day domain.DayKey) error {
	switch {
	case errors.Is(err, sefaria.ErrOffline):
		return fmt.Errorf("cannot reach Sefaria for %s %s; check your connection and retry", path, day)
	case errors.Is(err, sefaria.ErrTimeout):
		return fmt.Errorf("Sefaria timed out for %s %s; retry in a moment", path, day)
	case errors.Is(err, sefaria.ErrNotFound):
		return fmt.Errorf("no %s schedule published for %s", path, day)
	}
	return err
}

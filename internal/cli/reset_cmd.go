package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset <path> [date]",
		Short: "Erase progress for a track, or for one of its days",
		Long: `Erase progress. With a date, only that day's marks are cleared. Without
one, ALL of the track's marks, its cached schedule, and its custom start
date are erased.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			path, err := parsePath(args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				day, err := resolveDay(ctx, app, args[1])
				if err != nil {
					return err
				}
				if !yes {
					ok, err := confirm(fmt.Sprintf("Clear all marks for %s on %s?", path, day))
					if err != nil || !ok {
						return err
					}
				}
				if err := app.Study.ResetDay(ctx, path, day); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s cleared\n", path, day)
				return nil
			}

			if !yes {
				ok, err := confirm(fmt.Sprintf("Erase ALL progress for %s? This cannot be undone.", path))
				if err != nil || !ok {
					return err
				}
			}
			if err := app.Study.ResetPath(ctx, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s reset\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rabbishuki/rambam-sub001/internal/cli/formatter"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

func newPathsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Manage which study tracks are active",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all tracks and their active state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}
			lang := cfg.Language
			for _, p := range domain.AllStudyPaths() {
				state := formatter.Dim("off")
				if cfg.IsActive(p) {
					state = formatter.StyleGreen.Render("on ")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %s\n", state, p, p.DisplayName().Display(lang))
			}
			return nil
		},
	}

	on := &cobra.Command{
		Use:   "on <path>",
		Short: "Activate a track",
		Args:  cobra.ExactArgs(1),
		RunE:  setPathActive(app, true),
	}
	off := &cobra.Command{
		Use:   "off <path>",
		Short: "Deactivate a track (its data is kept)",
		Args:  cobra.ExactArgs(1),
		RunE:  setPathActive(app, false),
	}

	cmd.AddCommand(list, on, off)
	return cmd
}

func setPathActive(app *App, active bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		path, err := parsePath(args[0])
		if err != nil {
			return err
		}
		cfg, err := app.Settings.SetPathActive(context.Background(), path, active)
		if err != nil {
			return err
		}
		if !active && cfg.IsActive(path) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s stays active: at least one track must remain\n", path)
			return nil
		}
		var state string
		if active {
			state = "on"
		} else {
			state = "off"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", path, state)
		return nil
	}
}

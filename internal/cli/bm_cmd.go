package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rabbishuki/rambam-sub001/internal/cli/formatter"
)

func newBookmarkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bm",
		Short: "Manage bookmarks on study items",
	}

	var dayArg string
	add := &cobra.Command{
		Use:   "add <path> <item> [note...]",
		Short: "Bookmark an item, optionally with a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			path, err := parsePath(args[0])
			if err != nil {
				return err
			}
			day, err := resolveDay(ctx, app, dayArg)
			if err != nil {
				return err
			}
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			b, err := app.Bookmarks.Add(ctx, path, day, index, strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bookmarked %s %s #%d (%s)\n", b.Path, b.Day, b.Index+1, b.ID[:8])
			return nil
		},
	}
	add.Flags().StringVar(&dayArg, "day", "", "Date (YYYY-MM-DD, \"today\", \"yesterday\"); defaults to today")

	list := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			bms, err := app.Bookmarks.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBookmarks(bms, language(ctx, app)))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a bookmark by ID (prefixes accepted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveBookmarkID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Bookmarks.Remove(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bookmark %s removed\n", id[:8])
			return nil
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

// resolveBookmarkID expands a unique ID prefix to the full bookmark ID.
func resolveBookmarkID(ctx context.Context, app *App, prefix string) (string, error) {
	bms, err := app.Bookmarks.List(ctx)
	if err != nil {
		return "", err
	}
	var match string
	for _, b := range bms {
		if strings.HasPrefix(b.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("bookmark ID prefix %q is ambiguous", prefix)
			}
			match = b.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no bookmark matches %q", prefix)
	}
	return match, nil
}

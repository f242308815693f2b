package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rabbishuki/rambam-sub001/internal/cli/formatter"
	"github.com/rabbishuki/rambam-sub001/internal/progress"
)

func newMarkCmd(app *App) *cobra.Command {
	var (
		dayArg  string
		through bool
		all     bool
		prev    choiceFlag
	)

	cmd := &cobra.Command{
		Use:   "mark <path> [item]",
		Short: "Mark a study item (or a whole day) as done",
		Long: `Mark a study item as done.

With --through, marking an item also considers the incomplete items before
it: depending on your auto-mark setting you are asked whether to mark them
too. Without it, exactly the named item is toggled on.`,
		Args: cobra.RangeArgs(1, 2),
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

			if all {
				if err := app.Study.MarkDayComplete(ctx, path, day); err != nil {
					return describeFetchError(err, path, day)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s marked complete\n", path, day)
				return nil
			}

			if len(args) < 2 {
				return fmt.Errorf("an item number is required unless --all is given")
			}
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}

			if !through {
				if err := app.Study.MarkItem(ctx, path, day, index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s item %d marked\n", path, day, index+1)
				return nil
			}

			out, err := app.Study.MarkThrough(ctx, path, day, index, prev.choice)
			if err != nil {
				return err
			}
			if out.PromptRequired {
				if !app.interactive() {
					return fmt.Errorf("%d earlier item(s) are unmarked; pass --prev always|once|only|cancel to decide", out.IncompleteBelow)
				}
				answered, err := askAutoMark(out.IncompleteBelow)
				if err != nil {
					return err
				}
				out, err = app.Study.MarkThrough(ctx, path, day, index, &answered)
				if err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMarkOutcome(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&dayArg, "day", "", "Date (YYYY-MM-DD, \"today\", \"yesterday\"); defaults to today")
	cmd.Flags().BoolVar(&through, "through", false, "History-aware mark: consider unmarked items before this one")
	cmd.Flags().BoolVar(&all, "all", false, "Mark the whole day complete")
	cmd.Flags().Var(&prev, "prev", "Answer for the earlier-items question: always|once|only|cancel")
	return cmd
}

func newUnmarkCmd(app *App) *cobra.Command {
	var dayArg string

	cmd := &cobra.Command{
		Use:   "unmark <path> <item>",
		Short: "Clear a study item's done mark",
		Args:  cobra.ExactArgs(2),
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
			if err := app.Study.UnmarkItem(ctx, path, day, index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s item %d unmarked\n", path, day, index+1)
			return nil
		},
	}

	cmd.Flags().StringVar(&dayArg, "day", "", "Date (YYYY-MM-DD, \"today\", \"yesterday\"); defaults to today")
	return cmd
}

// choiceFlag parses the --prev answer into an auto-mark choice. A nil
// choice means the flag was not given and the prompt protocol applies.
type choiceFlag struct {
	choice *progress.Choice
}

var _ pflag.Value = (*choiceFlag)(nil)

func (f *choiceFlag) String() string {
	if f.choice == nil {
		return ""
	}
	return string(*f.choice)
}

func (f *choiceFlag) Set(v string) error {
	var c progress.Choice
	switch v {
	case "always":
		c = progress.ChoiceAlways
	case "once":
		c = progress.ChoiceJustOnce
	case "only":
		c = progress.ChoiceOnlyThis
	case "cancel":
		c = progress.ChoiceCancel
	default:
		return fmt.Errorf("unknown --prev value %q (expected always, once, only, or cancel)", v)
	}
	f.choice = &c
	return nil
}

func (f *choiceFlag) Type() string { return "answer" }

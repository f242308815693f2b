package cli

import (
	"github.com/spf13/cobra"

	"github.com/rabbishuki/rambam-sub001/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Study     service.StudyService
	Stats     service.StatsService
	Settings  service.SettingsService
	Bookmarks service.BookmarkService
	Summaries service.SummaryService
	Backup    service.BackupService

	// IsInteractive reports whether stdin is a terminal. The bare root
	// command launches the TUI only when it is.
	IsInteractive func() bool
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// NewRootCmd creates the top-level "rambam" command and registers all
// subcommands against the provided App. Bare "rambam" on a terminal opens
// the TUI; piped, it prints today's cards.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "rambam",
		Short: "Daily Rambam and Sefer HaMitzvot study tracker",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(app)
			}
			return printToday(cmd, app)
		},
	}

	root.AddCommand(
		newTodayCmd(app),
		newDayCmd(app),
		newMarkCmd(app),
		newUnmarkCmd(app),
		newCalCmd(app),
		newStatsCmd(app),
		newPathsCmd(app),
		newSettingsCmd(app),
		newResetCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newBookmarkCmd(app),
		newNoteCmd(app),
	)

	return root
}

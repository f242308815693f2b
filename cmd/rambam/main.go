package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/rabbishuki/rambam-sub001/internal/cli"
	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/hebcal"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
	"github.com/rabbishuki/rambam-sub001/internal/schedule"
	"github.com/rabbishuki/rambam-sub001/internal/sefaria"
	"github.com/rabbishuki/rambam-sub001/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.rambam/rambam.db
	dbPath := os.Getenv("RAMBAM_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".rambam", "rambam.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	settingsRepo := repository.NewSQLiteSettingsRepo(database)
	completionRepo := repository.NewSQLiteCompletionRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	bookmarkRepo := repository.NewSQLiteBookmarkRepo(database)
	summaryRepo := repository.NewSQLiteSummaryRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Provider clients. Call telemetry goes to stderr only when asked for.
	var observer sefaria.Observer = sefaria.NoopObserver{}
	var useCaseObserver service.UseCaseObserver = service.NoopUseCaseObserver{}
	var cacheLogger *slog.Logger
	if os.Getenv("RAMBAM_DEBUG") == "1" {
		observer = sefaria.NewLogObserver(os.Stderr)
		useCaseObserver = service.NewLogUseCaseObserver(os.Stderr)
		cacheLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	sefariaClient := sefaria.NewClient(sefaria.LoadConfig(), observer)
	hebcalClient := hebcal.NewClient(hebcal.LoadConfig())

	source := schedule.NewAnnotatedSource(sefariaClient, hebcalClient)
	cache := schedule.NewCache(source, scheduleRepo, cacheLogger)
	store := service.NewLedgerStore(completionRepo)

	studySvc := service.NewStudyService(store, settingsRepo, cache, hebcalClient, useCaseObserver)

	app := &cli.App{
		Study:     studySvc,
		Stats:     service.NewStatsService(completionRepo, settingsRepo, cache, studySvc.Today),
		Settings:  service.NewSettingsService(settingsRepo),
		Bookmarks: service.NewBookmarkService(bookmarkRepo),
		Summaries: service.NewSummaryService(summaryRepo),
		Backup:    service.NewBackupService(settingsRepo, store, bookmarkRepo, summaryRepo, uow),
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

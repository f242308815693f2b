package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// parsePath validates a study path argument.
func parsePath(arg string) (domain.StudyPath, error) {
	if !domain.ValidStudyPaths[arg] {
		return "", fmt.Errorf("unknown path %q (expected rambam3, rambam1, or mitzvot)", arg)
	}
	return domain.StudyPath(arg), nil
}

// resolveDay turns a date argument into a DayKey. "today" and "" resolve
// through the configured day boundary, "yesterday" one day earlier.
func resolveDay(ctx context.Context, app *App, arg string) (domain.DayKey, error) {
	switch arg {
	case "", "today":
		return app.Study.Today(ctx), nil
	case "yesterday":
		return app.Study.Today(ctx).Prev(), nil
	}
	return domain.ParseDayKey(arg)
}

// parseIndex converts a 1-based item number argument to a 0-based index.
func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("item number must be a positive integer, got %q", arg)
	}
	return n - 1, nil
}

// language reads the configured display language, defaulting when the
// settings cannot be loaded.
func language(ctx context.Context, app *App) domain.Language {
	cfg, err := app.Settings.Get(ctx)
	if err != nil {
		return domain.DefaultSettings().Language
	}
	return cfg.Language
}

package cli

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
	"github.com/rabbishuki/rambam-sub001/internal/schedule"
	"github.com/rabbishuki/rambam-sub001/internal/service"
	"github.com/rabbishuki/rambam-sub001/internal/testutil"
)

// fakeSource serves a canned three-item portion for any (path, day).
type fakeSource struct {
	dayErr error
}

func (f *fakeSource) Day(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.ScheduleDay, error) {
	if f.dayErr != nil {
		return nil, f.dayErr
	}
	return &domain.ScheduleDay{
		Path:      path,
		Day:       day,
		Display:   domain.BiText{En: fmt.Sprintf("%s portion for %s", path, day)},
		Refs:      []domain.SourceRef{{Ref: fmt.Sprintf("Ref %s %s", path, day)}},
		ItemCount: 3,
		FetchedAt: testutil.FetchedAt,
	}, nil
}

func (f *fakeSource) Items(ctx context.Context, ref string, refIndex int) ([]domain.StudyItem, error) {
	return []domain.StudyItem{
		{Text: domain.BiText{En: ref + " a"}, Chapter: 1, FirstInChapter: true, RefIndex: refIndex},
		{Text: domain.BiText{En: ref + " b"}, Chapter: 1, RefIndex: refIndex},
		{Text: domain.BiText{En: ref + " c"}, Chapter: 1, RefIndex: refIndex},
	}, nil
}

// newTestApp wires real services over an in-memory DB and a fake schedule
// source. Commands built from the returned App never touch the network.
func newTestApp(t *testing.T) (*App, *fakeSource) {
	t.Helper()
	database := testutil.NewTestDB(t)

	source := &fakeSource{}
	settingsRepo := repository.NewSQLiteSettingsRepo(database)
	completionRepo := repository.NewSQLiteCompletionRepo(database)
	bookmarkRepo := repository.NewSQLiteBookmarkRepo(database)
	summaryRepo := repository.NewSQLiteSummaryRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)

	cache := schedule.NewCache(source, scheduleRepo, nil)
	store := service.NewLedgerStore(completionRepo)
	study := service.NewStudyService(store, settingsRepo, cache, nil)

	app := &App{
		Study:     study,
		Stats:     service.NewStatsService(completionRepo, settingsRepo, cache, study.Today),
		Settings:  service.NewSettingsService(settingsRepo),
		Bookmarks: service.NewBookmarkService(bookmarkRepo),
		Summaries: service.NewSummaryService(summaryRepo),
		Backup:    service.NewBackupService(settingsRepo, store, bookmarkRepo, summaryRepo, db.NewSQLiteUnitOfWork(database)),
	}
	return app, source
}

// runCmd executes one CLI invocation against a fresh command tree and
// returns the stripped stdout.
func runCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	silence(root)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

// silence keeps cobra from printing usage on expected errors.
func silence(cmd *cobra.Command) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	for _, c := range cmd.Commands() {
		silence(c)
	}
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRE.ReplaceAllString(s, "") }

// mustRun asserts the invocation succeeds and returns its output.
func mustRun(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := runCmd(t, app, args...)
	require.NoError(t, err, "command %v failed: %s", args, out)
	return out
}

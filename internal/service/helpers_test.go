package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
	"github.com/rabbishuki/rambam-sub001/internal/schedule"
	"github.com/rabbishuki/rambam-sub001/internal/testutil"
)

// fakeScheduleSource serves canned schedule days: every (path, day) not
// explicitly overridden gets a three-item single-ref portion.
type fakeScheduleSource struct {
	dayCalls atomic.Int32
	days     map[string]*domain.ScheduleDay
	dayErr   error
}

func sourceKey(path domain.StudyPath, day domain.DayKey) string {
	return string(path) + "|" + string(day)
}

func (f *fakeScheduleSource) Day(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.ScheduleDay, error) {
	f.dayCalls.Add(1)
	if f.dayErr != nil {
		return nil, f.dayErr
	}
	if sd, ok := f.days[sourceKey(path, day)]; ok {
		out := *sd
		return &out, nil
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

func (f *fakeScheduleSource) Items(ctx context.Context, ref string, refIndex int) ([]domain.StudyItem, error) {
	return []domain.StudyItem{
		{Text: domain.BiText{En: ref + " a"}, Chapter: 1, FirstInChapter: true, RefIndex: refIndex},
		{Text: domain.BiText{En: ref + " b"}, Chapter: 1, RefIndex: refIndex},
		{Text: domain.BiText{En: ref + " c"}, Chapter: 1, RefIndex: refIndex},
	}, nil
}

// fakeSunset returns a fixed sunset instant, or an error.
type fakeSunset struct {
	at  time.Time
	err error
}

func (f *fakeSunset) Sunset(ctx context.Context, day domain.DayKey, lat, lng float64) (time.Time, error) {
	if f.err != nil {
		return time.Time{}, f.err
	}
	return f.at, nil
}

var errSunsetDown = errors.New("zmanim service down")

// testEnv bundles everything a service test needs over one in-memory DB.
type testEnv struct {
	db       *sql.DB
	source   *fakeScheduleSource
	sunset   *fakeSunset
	cache    *schedule.Cache
	store    *LedgerStore
	settings repository.SettingsRepo
	study    StudyService
	stats    StatsService
	config   SettingsService
	backup   BackupService
	marks    BookmarkService
	notes    SummaryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)

	source := &fakeScheduleSource{days: map[string]*domain.ScheduleDay{}}
	sunset := &fakeSunset{}
	settingsRepo := repository.NewSQLiteSettingsRepo(database)
	completionRepo := repository.NewSQLiteCompletionRepo(database)
	bookmarkRepo := repository.NewSQLiteBookmarkRepo(database)
	summaryRepo := repository.NewSQLiteSummaryRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)

	cache := schedule.NewCache(source, scheduleRepo, nil)
	store := NewLedgerStore(completionRepo)
	study := NewStudyService(store, settingsRepo, cache, sunset)

	env := &testEnv{
		db:       database,
		source:   source,
		sunset:   sunset,
		cache:    cache,
		store:    store,
		settings: settingsRepo,
		study:    study,
		stats:    NewStatsService(completionRepo, settingsRepo, cache, study.Today),
		config:   NewSettingsService(settingsRepo),
		backup:   NewBackupService(settingsRepo, store, bookmarkRepo, summaryRepo, db.NewSQLiteUnitOfWork(database)),
		marks:    NewBookmarkService(bookmarkRepo),
		notes:    NewSummaryService(summaryRepo),
	}
	return env
}

// setDay overrides the schedule served for one (path, day).
func (e *testEnv) setDay(path domain.StudyPath, day domain.DayKey, itemCount int, refs ...string) {
	sd := &domain.ScheduleDay{
		Path:      path,
		Day:       day,
		Display:   domain.BiText{En: string(path) + " " + string(day)},
		ItemCount: itemCount,
		FetchedAt: testutil.FetchedAt,
	}
	if len(refs) == 0 {
		refs = []string{"Ref " + string(path) + " " + string(day)}
	}
	for _, r := range refs {
		sd.Refs = append(sd.Refs, domain.SourceRef{Ref: r})
	}
	e.source.days[sourceKey(path, day)] = sd
}

// setClock pins the study service's wall clock.
func (e *testEnv) setClock(t *testing.T, now time.Time) {
	t.Helper()
	svc, ok := e.study.(*studyService)
	require.True(t, ok)
	svc.now = func() time.Time { return now }
}

// activatePaths rewrites the active path set directly.
func (e *testEnv) activatePaths(t *testing.T, paths ...domain.StudyPath) {
	t.Helper()
	ctx := context.Background()
	cfg, err := e.config.Get(ctx)
	require.NoError(t, err)
	cfg.ActivePaths = paths
	require.NoError(t, e.config.Update(ctx, *cfg))
}

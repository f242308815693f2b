package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
	"github.com/rabbishuki/rambam-sub001/internal/testutil"
)

func TestBackupRoundTrip(t *testing.T) {
	src := newTestEnv(t)
	ctx := context.Background()

	cfg, err := src.config.Get(ctx)
	require.NoError(t, err)
	cfg.Language = domain.LangBoth
	cfg.AutoMarkPrevious = true
	cfg.StartDates = map[domain.StudyPath]domain.DayKey{domain.PathRambam3: "2026-01-10"}
	require.NoError(t, src.config.Update(ctx, *cfg))

	require.NoError(t, src.study.MarkDayComplete(ctx, domain.PathRambam3, "2026-02-03"))
	require.NoError(t, src.study.MarkItem(ctx, domain.PathRambam1, "2026-02-04", 1))

	bookmarks := repository.NewSQLiteBookmarkRepo(src.db)
	require.NoError(t, bookmarks.Create(ctx, &domain.Bookmark{
		ID:        "bm-1",
		Path:      domain.PathRambam3,
		Day:       "2026-02-03",
		Index:     2,
		Note:      "revisit the laws of vows",
		CreatedAt: time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC),
	}))
	summaries := repository.NewSQLiteSummaryRepo(src.db)
	require.NoError(t, summaries.Upsert(ctx, &domain.DaySummary{
		Path:      domain.PathRambam3,
		Day:       "2026-02-03",
		Note:      "finished early",
		UpdatedAt: time.Date(2026, 2, 3, 21, 0, 0, 0, time.UTC),
	}))

	var buf bytes.Buffer
	require.NoError(t, src.backup.Export(ctx, &buf))
	assert.Contains(t, buf.String(), "version: 1")
	assert.Contains(t, buf.String(), "rambam3:2026-02-03:0")

	dst := newTestEnv(t)
	stats, err := dst.backup.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Completions)
	assert.Equal(t, 1, stats.Bookmarks)
	assert.Equal(t, 1, stats.Summaries)

	snap, err := dst.store.snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.IsDayComplete(domain.PathRambam3, "2026-02-03", 3))
	assert.True(t, snap.IsDone(domain.PathRambam1, "2026-02-04", 1))

	got, err := dst.config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.LangBoth, got.Language)
	assert.True(t, got.AutoMarkPrevious)
	assert.Equal(t, domain.DayKey("2026-01-10"), got.StartDate(domain.PathRambam3))

	bms, err := repository.NewSQLiteBookmarkRepo(dst.db).List(ctx)
	require.NoError(t, err)
	require.Len(t, bms, 1)
	assert.Equal(t, "revisit the laws of vows", bms[0].Note)

	sums, err := repository.NewSQLiteSummaryRepo(dst.db).List(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "finished early", sums[0].Note)
}

func TestImport_ReplacesExistingState(t *testing.T) {
	src := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, src.study.MarkItem(ctx, domain.PathRambam3, "2026-02-03", 0))
	var buf bytes.Buffer
	require.NoError(t, src.backup.Export(ctx, &buf))

	dst := newTestEnv(t)
	require.NoError(t, dst.study.MarkDayComplete(ctx, domain.PathMitzvot, "2026-01-20"))

	_, err := dst.backup.Import(ctx, &buf)
	require.NoError(t, err)

	// The restore replaces, it does not merge.
	snap, err := dst.store.snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.CountDone(domain.PathMitzvot, "2026-01-20"))
	assert.True(t, snap.IsDone(domain.PathRambam3, "2026-02-03", 0))
}

func TestImport_RejectsMalformedFileAtomically(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.study.MarkItem(ctx, domain.PathRambam3, "2026-02-03", 0))

	bad := `version: 1
exported_at: "2026-02-05T10:00:00Z"
settings:
  active_paths: [rambam3]
  language: en
  boundary: fixed
  fixed_hour: 18
  fixed_minute: 0
completions:
  "rambam3:2026-02-04:0": "2026-02-04T20:00:00Z"
  "rambam9:2026-02-04:1": "2026-02-04T20:00:00Z"
`
	_, err := env.backup.Import(ctx, strings.NewReader(bad))
	require.Error(t, err)

	// Nothing was applied: the valid key in the same file is absent and
	// the pre-existing mark survived.
	snap, err := env.store.snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.IsDone(domain.PathRambam3, "2026-02-03", 0))
	assert.False(t, snap.IsDone(domain.PathRambam3, "2026-02-04", 0))
}

func TestImport_RejectsUnknownVersion(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.backup.Import(context.Background(), strings.NewReader("version: 99\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestImport_MidTransactionFailureRollsBackEverything(t *testing.T) {
	src := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, src.study.MarkDayComplete(ctx, domain.PathRambam3, "2026-02-03"))

	var buf bytes.Buffer
	require.NoError(t, src.backup.Export(ctx, &buf))

	dst := newTestEnv(t)
	require.NoError(t, dst.study.MarkItem(ctx, domain.PathRambam1, "2026-02-05", 0))

	// Exec order inside the restore tx: settings upsert, three path
	// deletes, then the completion inserts. Failing on the sixth exec
	// lands mid-insert.
	errBoom := errors.New("disk full")
	failing := NewBackupService(
		dst.settings,
		dst.store,
		repository.NewSQLiteBookmarkRepo(dst.db),
		repository.NewSQLiteSummaryRepo(dst.db),
		&testutil.FailOnNthExecUoW{DB: dst.db, FailOn: 6, Err: errBoom},
	)

	_, err := failing.Import(ctx, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	// The pre-existing mark survived and nothing from the backup landed.
	snap, err := dst.store.snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.IsDone(domain.PathRambam1, "2026-02-05", 0))
	assert.False(t, snap.IsDone(domain.PathRambam3, "2026-02-03", 0))
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/testutil"
)

func TestSettingsRepo_Get_DefaultSeededRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSettingsRepo(db)
	ctx := context.Background()

	s, err := repo.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, "default", s.ID)
	assert.Equal(t, []domain.StudyPath{domain.PathRambam3}, s.ActivePaths)
	assert.Equal(t, domain.LangBoth, s.Language)
	assert.False(t, s.AutoMarkPrevious)
	assert.False(t, s.AutoMarkAsked)
	assert.False(t, s.HideCompleted)
	assert.Empty(t, s.StartDates)
	assert.Equal(t, domain.BoundaryFixed, s.Boundary)
	assert.Equal(t, 18, s.FixedHour)
	assert.Equal(t, 0, s.FixedMinute)
}

func TestSettingsRepo_Upsert_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSettingsRepo(db)
	ctx := context.Background()

	updated := &domain.Settings{
		ID:               domain.DefaultSettingsID,
		ActivePaths:      []domain.StudyPath{domain.PathRambam3, domain.PathMitzvot},
		Language:         domain.LangHebrew,
		AutoMarkPrevious: true,
		AutoMarkAsked:    true,
		HideCompleted:    true,
		StartDates: map[domain.StudyPath]domain.DayKey{
			domain.PathRambam3: "2026-01-15",
			domain.PathMitzvot: "2026-02-01",
		},
		Boundary:    domain.BoundarySunset,
		FixedHour:   20,
		FixedMinute: 30,
		Latitude:    31.78,
		Longitude:   35.22,
	}
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated.ActivePaths, got.ActivePaths)
	assert.Equal(t, updated.Language, got.Language)
	assert.Equal(t, updated.AutoMarkPrevious, got.AutoMarkPrevious)
	assert.Equal(t, updated.AutoMarkAsked, got.AutoMarkAsked)
	assert.Equal(t, updated.HideCompleted, got.HideCompleted)
	assert.Equal(t, updated.StartDates, got.StartDates)
	assert.Equal(t, updated.Boundary, got.Boundary)
	assert.Equal(t, updated.FixedHour, got.FixedHour)
	assert.Equal(t, updated.FixedMinute, got.FixedMinute)
	assert.Equal(t, updated.Latitude, got.Latitude)
	assert.Equal(t, updated.Longitude, got.Longitude)
}

func TestSettingsRepo_Get_CorruptActivePathsFallsBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSettingsRepo(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `UPDATE settings SET active_paths = 'bogus,unknown' WHERE id = 'default'`)
	require.NoError(t, err)

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.StudyPath{domain.PathRambam3}, s.ActivePaths,
		"unrecognized stored paths fall back to the default active set")
}

func TestSettingsRepo_Get_MalformedStartDatesDropped(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSettingsRepo(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`UPDATE settings SET start_dates = 'rambam3=2026-01-15,mitzvot=notadate,bogus=2026-01-01' WHERE id = 'default'`)
	require.NoError(t, err)

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.StudyPath]domain.DayKey{domain.PathRambam3: "2026-01-15"}, s.StartDates)
}

func TestSettingsRepo_Get_NotFoundWhenDefaultDeleted(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSettingsRepo(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `DELETE FROM settings WHERE id = 'default'`)
	require.NoError(t, err)

	_, err = repo.Get(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

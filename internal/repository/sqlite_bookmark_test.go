package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/testutil"
)

func TestBookmarkRepo_CreateList_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBookmarkRepo(db)
	ctx := context.Background()

	b := testutil.NewTestBookmark(domain.PathRambam3, "2026-02-03", 1)
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, domain.PathRambam3, got[0].Path)
	assert.Equal(t, domain.DayKey("2026-02-03"), got[0].Day)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, b.Note, got[0].Note)
	assert.Equal(t, b.CreatedAt, got[0].CreatedAt.UTC())
}

func TestBookmarkRepo_Create_RejectsDuplicateItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBookmarkRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestBookmark(domain.PathRambam3, "2026-02-03", 0)))

	// Same item again under a fresh ID hits the unique index.
	err := repo.Create(ctx, testutil.NewTestBookmark(domain.PathRambam3, "2026-02-03", 0))
	assert.Error(t, err)

	// A different item on the same day is fine.
	require.NoError(t, repo.Create(ctx, testutil.NewTestBookmark(domain.PathRambam3, "2026-02-03", 1)))
}

func TestBookmarkRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBookmarkRepo(db)
	ctx := context.Background()

	b := testutil.NewTestBookmark(domain.PathMitzvot, "2026-02-03", 0)
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Delete(ctx, b.ID))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBookmarkRepo_Delete_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBookmarkRepo(db)

	err := repo.Delete(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

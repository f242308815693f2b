package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
)

func TestBookmarkAddListRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b, err := env.marks.Add(ctx, domain.PathRambam3, "2026-02-03", 1, "  check the Raavad here ")
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "check the Raavad here", b.Note)

	list, err := env.marks.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	require.NoError(t, env.marks.Remove(ctx, b.ID))
	list, err = env.marks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBookmarkAdd_RejectsInvalidTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.marks.Add(ctx, "rambam5", "2026-02-03", 0, "")
	assert.Error(t, err)
	_, err = env.marks.Add(ctx, domain.PathRambam3, "February 3rd", 0, "")
	assert.Error(t, err)
	_, err = env.marks.Add(ctx, domain.PathRambam3, "2026-02-03", -1, "")
	assert.Error(t, err)
}

func TestBookmarkRemove_UnknownID(t *testing.T) {
	env := newTestEnv(t)
	err := env.marks.Remove(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

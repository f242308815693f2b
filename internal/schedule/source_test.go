package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

type fakeDater struct {
	date domain.BiText
	err  error
}

func (f *fakeDater) HebrewDate(ctx context.Context, day domain.DayKey) (domain.BiText, error) {
	return f.date, f.err
}

func TestAnnotatedSource_AddsHebrewDate(t *testing.T) {
	base := &fakeSource{day: twoRefDay()}
	src := NewAnnotatedSource(base, &fakeDater{date: domain.BiText{En: "16 Shevat 5786"}})

	meta, err := src.Day(context.Background(), domain.PathRambam3, "2026-02-03")
	require.NoError(t, err)
	assert.Equal(t, "16 Shevat 5786", meta.HebrewDate.En)
}

func TestAnnotatedSource_DateFailureIsNotFatal(t *testing.T) {
	base := &fakeSource{day: twoRefDay()}
	src := NewAnnotatedSource(base, &fakeDater{err: errors.New("hebcal down")})

	meta, err := src.Day(context.Background(), domain.PathRambam3, "2026-02-03")
	require.NoError(t, err)
	assert.True(t, meta.HebrewDate.Empty())
}

func TestAnnotatedSource_NilDaterPassesThrough(t *testing.T) {
	base := &fakeSource{day: twoRefDay()}
	assert.Equal(t, Source(base), NewAnnotatedSource(base, nil))
}

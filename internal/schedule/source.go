package schedule

import (
	"context"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// HebrewDater supplies the Hebrew calendar date for a civil day.
// Implemented by hebcal.Client.
type HebrewDater interface {
	HebrewDate(ctx context.Context, day domain.DayKey) (domain.BiText, error)
}

// annotatedSource decorates a Source with Hebrew dates on fetched days.
// The annotation is best effort: a failed date lookup never fails the
// schedule fetch.
type annotatedSource struct {
	base  Source
	dater HebrewDater
}

// NewAnnotatedSource wraps base so every fetched day carries its Hebrew
// date. A nil dater returns base unchanged.
func NewAnnotatedSource(base Source, dater HebrewDater) Source {
	if dater == nil {
		return base
	}
	return &annotatedSource{base: base, dater: dater}
}

func (s *annotatedSource) Day(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.ScheduleDay, error) {
	meta, err := s.base.Day(ctx, path, day)
	if err != nil {
		return nil, err
	}
	if meta.HebrewDate.Empty() {
		if hd, err := s.dater.HebrewDate(ctx, day); err == nil {
			meta.HebrewDate = hd
		}
	}
	return meta, nil
}

func (s *annotatedSource) Items(ctx context.Context, ref string, refIndex int) ([]domain.StudyItem, error) {
	return s.base.Items(ctx, ref, refIndex)
}

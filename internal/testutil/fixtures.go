package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// FetchedAt is the fixed fetch timestamp used by schedule fixtures.
var FetchedAt = time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC)

// ScheduleDay options
type ScheduleDayOption func(*domain.ScheduleDay)

func WithItemCount(n int) ScheduleDayOption {
	return func(sd *domain.ScheduleDay) {
		sd.ItemCount = n
	}
}

func WithRefs(refs ...string) ScheduleDayOption {
	return func(sd *domain.ScheduleDay) {
		sd.Refs = nil
		for _, r := range refs {
			sd.Refs = append(sd.Refs, domain.SourceRef{
				Ref:   r,
				Title: domain.BiText{En: r},
				URL:   "/" + r,
			})
		}
	}
}

func WithHebrewDate(he, en string) ScheduleDayOption {
	return func(sd *domain.ScheduleDay) {
		sd.HebrewDate = domain.BiText{He: he, En: en}
	}
}

// NewTestScheduleDay builds a one-ref, three-item schedule day for path/day.
func NewTestScheduleDay(path domain.StudyPath, day domain.DayKey, opts ...ScheduleDayOption) *domain.ScheduleDay {
	ref := fmt.Sprintf("Ref for %s %s", path, day)
	sd := &domain.ScheduleDay{
		Path:      path,
		Day:       day,
		Display:   domain.BiText{He: "תצוגה", En: "Display " + string(day)},
		Refs:      []domain.SourceRef{{Ref: ref, Title: domain.BiText{En: ref}, URL: "/" + string(day)}},
		ItemCount: 3,
		FetchedAt: FetchedAt,
	}
	for _, opt := range opts {
		opt(sd)
	}
	return sd
}

// NewTestBookmark builds a bookmark for one study item.
func NewTestBookmark(path domain.StudyPath, day domain.DayKey, index int) *domain.Bookmark {
	return &domain.Bookmark{
		ID:        uuid.New().String(),
		Path:      path,
		Day:       day,
		Index:     index,
		Note:      "test bookmark",
		CreatedAt: FetchedAt,
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
)

type summaryService struct {
	repo repository.SummaryRepo
	now  func() time.Time
}

// NewSummaryService wires the day-note use cases.
func NewSummaryService(repo repository.SummaryRepo) SummaryService {
	return &summaryService{repo: repo, now: time.Now}
}

func (s *summaryService) Set(ctx context.Context, path domain.StudyPath, day domain.DayKey, note string) (*domain.DaySummary, error) {
	if !domain.ValidStudyPaths[string(path)] {
		return nil, fmt.Errorf("unknown path %q", path)
	}
	if !day.Valid() {
		return nil, fmt.Errorf("invalid day %q", day)
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, fmt.Errorf("a note cannot be empty; use remove instead")
	}
	sum := &domain.DaySummary{
		Path:      path,
		Day:       day,
		Note:      note,
		UpdatedAt: s.now(),
	}
	if err := s.repo.Upsert(ctx, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *summaryService) Get(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.DaySummary, error) {
	return s.repo.Get(ctx, path, day)
}

func (s *summaryService) List(ctx context.Context) ([]*domain.DaySummary, error) {
	return s.repo.List(ctx)
}

func (s *summaryService) Remove(ctx context.Context, path domain.StudyPath, day domain.DayKey) error {
	return s.repo.Delete(ctx, path, day)
}

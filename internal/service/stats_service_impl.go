package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/progress"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
	"github.com/rabbishuki/rambam-sub001/internal/schedule"
)

// statsService is the multi-path coordinator: it folds per-path completion
// state into the aggregate views the calendar and stats screens render.
// It reads only persisted data, so it works fully offline.
type statsService struct {
	completions repository.CompletionRepo
	settings    repository.SettingsRepo
	cache       *schedule.Cache
	today       TodayFunc
}

// NewStatsService wires the aggregate read-side use cases.
func NewStatsService(
	completions repository.CompletionRepo,
	settings repository.SettingsRepo,
	cache *schedule.Cache,
	today TodayFunc,
) StatsService {
	return &statsService{
		completions: completions,
		settings:    settings,
		cache:       cache,
		today:       today,
	}
}

func (s *statsService) ledger(ctx context.Context) (progress.Ledger, error) {
	loaded, err := s.completions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading completion ledger: %w", err)
	}
	return progress.Ledger(loaded), nil
}

func (s *statsService) CalendarMonth(ctx context.Context, year int, month time.Month) (*MonthView, error) {
	cfg, err := loadSettings(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger(ctx)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	from := domain.DayKeyOf(first)
	to := domain.DayKeyOf(last)

	counts := make(map[domain.StudyPath]map[domain.DayKey]*domain.ScheduleDay, len(cfg.ActivePaths))
	for _, path := range cfg.ActivePaths {
		known, err := s.cache.KnownDays(ctx, path, from, to)
		if err != nil {
			return nil, err
		}
		counts[path] = known
	}

	view := &MonthView{Year: year, Month: month}
	for d := from; !d.After(to); d = d.Next() {
		cell := DayCell{Day: d}
		for _, path := range cfg.ActivePaths {
			total := 0
			if sd, ok := counts[path][d]; ok {
				total = sd.ItemCount
			}
			cell.PerPath = append(cell.PerPath, progress.DayProgress{
				Path:  path,
				Done:  ledger.CountDone(path, d),
				Total: total,
			})
		}
		cell.State = progress.AggregateDay(cell.PerPath)
		view.Cells = append(view.Cells, cell)
	}
	return view, nil
}

func (s *statsService) Overview(ctx context.Context) (*Overview, error) {
	cfg, err := loadSettings(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today(ctx)

	out := &Overview{Today: today}
	var todayPerPath []progress.DayProgress

	for _, path := range cfg.ActivePaths {
		start := cfg.StartDate(path)
		known, err := s.cache.KnownDays(ctx, path, start, today)
		if err != nil {
			return nil, err
		}

		countOf := func(d domain.DayKey) int {
			if sd, ok := known[d]; ok {
				return sd.ItemCount
			}
			return 0
		}
		completeOn := func(d domain.DayKey) bool {
			c := countOf(d)
			return c > 0 && ledger.IsDayComplete(path, d, c)
		}

		todayProg := progress.DayProgress{
			Path:  path,
			Done:  ledger.CountDone(path, today),
			Total: countOf(today),
		}
		todayPerPath = append(todayPerPath, todayProg)

		totalDone := 0
		for key := range ledger {
			if key.Path == path {
				totalDone++
			}
		}

		out.Paths = append(out.Paths, PathOverview{
			Path:        path,
			Display:     path.DisplayName(),
			Today:       todayProg,
			BacklogDays: progress.CountBacklogDays(ledger, path, start, today, countOf),
			Streak:      progress.Streak(completeOn, today),
			TotalDone:   totalDone,
		})
	}

	out.TodayState = progress.AggregateDay(todayPerPath)
	return out, nil
}

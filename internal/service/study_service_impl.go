package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/dayclock"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/progress"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
	"github.com/rabbishuki/rambam-sub001/internal/schedule"
)

type studyService struct {
	store    *LedgerStore
	settings repository.SettingsRepo
	cache    *schedule.Cache
	sunset   SunsetProvider // nil when no provider is configured
	now      func() time.Time
	observer UseCaseObserver
}

// NewStudyService wires the completion ledger, settings, and schedule
// cache into the main study use cases. The store is shared with the
// backup service so a restore can refresh the live snapshot.
func NewStudyService(
	store *LedgerStore,
	settings repository.SettingsRepo,
	cache *schedule.Cache,
	sunset SunsetProvider,
	observers ...UseCaseObserver,
) StudyService {
	return &studyService{
		store:    store,
		settings: settings,
		cache:    cache,
		sunset:   sunset,
		now:      time.Now,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *studyService) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}

func (s *studyService) Today(ctx context.Context) domain.DayKey {
	now := s.now()

	cfg, err := loadSettings(ctx, s.settings)
	if err != nil {
		def := domain.DefaultSettings()
		cfg = &def
	}

	rule := dayclock.FromSettings(*cfg)
	var sunset *time.Time
	if cfg.Boundary == domain.BoundarySunset && s.sunset != nil {
		// Best effort: a failed lookup leaves sunset nil and the resolver
		// falls back to the fixed default.
		if t, err := s.sunset.Sunset(ctx, domain.DayKeyOf(now), cfg.Latitude, cfg.Longitude); err == nil {
			sunset = &t
		}
	}
	return dayclock.Resolve(now, rule, sunset)
}

func (s *studyService) DayCard(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*DayCard, error) {
	meta, err := s.cache.GetDay(ctx, path, day)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	done := make([]bool, meta.ItemCount)
	for i := range done {
		done[i] = snap.IsDone(path, day, i)
	}
	prog := progress.DayProgress{
		Path:  path,
		Done:  snap.CountDone(path, day),
		Total: meta.ItemCount,
	}
	return &DayCard{
		Schedule: meta,
		Progress: prog,
		Done:     done,
		Complete: prog.IsComplete(),
	}, nil
}

func (s *studyService) DayItems(ctx context.Context, path domain.StudyPath, day domain.DayKey) ([]domain.StudyItem, error) {
	return s.cache.GetItems(ctx, path, day)
}

func (s *studyService) MarkItem(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int) error {
	start := s.now()
	err := s.store.markOne(ctx, path, day, index, start)
	s.observe(ctx, "study.mark_item", start, err, map[string]any{
		"path": string(path), "day": string(day), "index": index,
	})
	return err
}

func (s *studyService) UnmarkItem(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int) error {
	start := s.now()
	err := s.store.unmarkOne(ctx, path, day, index)
	s.observe(ctx, "study.unmark_item", start, err, map[string]any{
		"path": string(path), "day": string(day), "index": index,
	})
	return err
}

func (s *studyService) ToggleItem(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int) (bool, error) {
	snap, err := s.store.snapshot(ctx)
	if err != nil {
		return false, err
	}
	if snap.IsDone(path, day, index) {
		return false, s.UnmarkItem(ctx, path, day, index)
	}
	return true, s.MarkItem(ctx, path, day, index)
}

func (s *studyService) MarkThrough(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int, choice *progress.Choice) (*MarkOutcome, error) {
	start := s.now()
	outcome, err := s.markThrough(ctx, path, day, index, choice, start)
	s.observe(ctx, "study.mark_through", start, err, map[string]any{
		"path": string(path), "day": string(day), "index": index,
	})
	return outcome, err
}

func (s *studyService) markThrough(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int, choice *progress.Choice, ts time.Time) (*MarkOutcome, error) {
	cfg, err := loadSettings(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	incomplete := progress.IncompleteBelow(snap, path, day, index)

	if choice == nil {
		switch progress.DecideAutoMark(*cfg, incomplete) {
		case progress.DecisionAutoMarkRange:
			if err := s.store.markRange(ctx, path, day, index+1, ts); err != nil {
				return nil, err
			}
		case progress.DecisionPrompt:
			return &MarkOutcome{PromptRequired: true, IncompleteBelow: incomplete}, nil
		default:
			if err := s.store.markOne(ctx, path, day, index, ts); err != nil {
				return nil, err
			}
		}
		return s.outcome(ctx, path, day), nil
	}

	// The user answered the prompt. Every answer except cancel records
	// that the prompt was asked; cancel records nothing so it can appear
	// again.
	switch *choice {
	case progress.ChoiceAlways:
		if err := s.store.markRange(ctx, path, day, index+1, ts); err != nil {
			return nil, err
		}
		cfg.AutoMarkPrevious = true
		cfg.AutoMarkAsked = true
	case progress.ChoiceJustOnce:
		if err := s.store.markRange(ctx, path, day, index+1, ts); err != nil {
			return nil, err
		}
		cfg.AutoMarkAsked = true
	case progress.ChoiceOnlyThis:
		if err := s.store.markOne(ctx, path, day, index, ts); err != nil {
			return nil, err
		}
		cfg.AutoMarkAsked = true
	case progress.ChoiceCancel:
		out := s.outcome(ctx, path, day)
		out.Applied = false
		return out, nil
	default:
		return nil, fmt.Errorf("unknown auto-mark choice %q", *choice)
	}

	if err := s.settings.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("recording auto-mark answer: %w", err)
	}
	return s.outcome(ctx, path, day), nil
}

// outcome builds the post-mutation MarkOutcome. The schedule lookup is
// best effort: without a declared count the day is just not reported
// complete.
func (s *studyService) outcome(ctx context.Context, path domain.StudyPath, day domain.DayKey) *MarkOutcome {
	out := &MarkOutcome{Applied: true}
	snap, err := s.store.snapshot(ctx)
	if err != nil {
		return out
	}
	if meta, err := s.cache.GetDay(ctx, path, day); err == nil && meta.ItemCount > 0 {
		out.DayComplete = snap.IsDayComplete(path, day, meta.ItemCount)
	}
	return out
}

func (s *studyService) MarkDayComplete(ctx context.Context, path domain.StudyPath, day domain.DayKey) error {
	start := s.now()
	meta, err := s.cache.GetDay(ctx, path, day)
	if err == nil {
		err = s.store.markRange(ctx, path, day, meta.ItemCount, start)
	}
	s.observe(ctx, "study.mark_day_complete", start, err, map[string]any{
		"path": string(path), "day": string(day),
	})
	return err
}

func (s *studyService) ResetDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) error {
	start := s.now()
	err := s.store.resetDay(ctx, path, day)
	if err == nil {
		err = s.cache.ResetDay(ctx, path, day)
	}
	s.observe(ctx, "study.reset_day", start, err, map[string]any{
		"path": string(path), "day": string(day),
	})
	return err
}

func (s *studyService) ResetPath(ctx context.Context, path domain.StudyPath) error {
	start := s.now()
	err := s.resetPath(ctx, path)
	s.observe(ctx, "study.reset_path", start, err, map[string]any{
		"path": string(path),
	})
	return err
}

func (s *studyService) resetPath(ctx context.Context, path domain.StudyPath) error {
	if err := s.store.resetPath(ctx, path); err != nil {
		return err
	}
	if err := s.cache.ResetPath(ctx, path); err != nil {
		return err
	}

	// The start date goes back to the cycle default alongside the data.
	cfg, err := loadSettings(ctx, s.settings)
	if err != nil {
		return err
	}
	if _, ok := cfg.StartDates[path]; ok {
		delete(cfg.StartDates, path)
		if err := s.settings.Upsert(ctx, cfg); err != nil {
			return fmt.Errorf("resetting start date: %w", err)
		}
	}
	return nil
}

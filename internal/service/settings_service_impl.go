package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
)

// loadSettings returns the persisted settings, or the shipped defaults on a
// database that has never saved any.
func loadSettings(ctx context.Context, repo repository.SettingsRepo) (*domain.Settings, error) {
	cfg, err := repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		def := domain.DefaultSettings()
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	return cfg, nil
}

type settingsService struct {
	repo repository.SettingsRepo
}

// NewSettingsService wires the settings use cases.
func NewSettingsService(repo repository.SettingsRepo) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*domain.Settings, error) {
	return loadSettings(ctx, s.repo)
}

func (s *settingsService) Update(ctx context.Context, cfg domain.Settings) error {
	if err := validateSettings(cfg); err != nil {
		return err
	}
	cfg.ID = domain.DefaultSettingsID
	return s.repo.Upsert(ctx, &cfg)
}

func validateSettings(cfg domain.Settings) error {
	if len(cfg.ActivePaths) == 0 {
		return fmt.Errorf("at least one study path must stay active")
	}
	for _, p := range cfg.ActivePaths {
		if !domain.ValidStudyPaths[string(p)] {
			return fmt.Errorf("unknown study path %q", p)
		}
	}
	if !domain.ValidLanguages[string(cfg.Language)] {
		return fmt.Errorf("unknown language %q", cfg.Language)
	}
	if !domain.ValidBoundaryKinds[string(cfg.Boundary)] {
		return fmt.Errorf("unknown day boundary %q", cfg.Boundary)
	}
	if cfg.FixedHour < 0 || cfg.FixedHour > 23 || cfg.FixedMinute < 0 || cfg.FixedMinute > 59 {
		return fmt.Errorf("invalid boundary time %02d:%02d", cfg.FixedHour, cfg.FixedMinute)
	}
	for path, day := range cfg.StartDates {
		if !day.Valid() {
			return fmt.Errorf("invalid start date %q for %s", day, path)
		}
	}
	return nil
}

func (s *settingsService) SetAutoMark(ctx context.Context, on bool) error {
	cfg, err := loadSettings(ctx, s.repo)
	if err != nil {
		return err
	}
	cfg.AutoMarkPrevious = on
	// An explicit setting change counts as having decided; the one-time
	// prompt never shows after it.
	cfg.AutoMarkAsked = true
	return s.repo.Upsert(ctx, cfg)
}

func (s *settingsService) SetPathActive(ctx context.Context, path domain.StudyPath, active bool) (*domain.Settings, error) {
	if !domain.ValidStudyPaths[string(path)] {
		return nil, fmt.Errorf("unknown study path %q", path)
	}
	cfg, err := loadSettings(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	updated := cfg.WithPathActive(path, active)
	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *settingsService) SetStartDate(ctx context.Context, path domain.StudyPath, day domain.DayKey) error {
	if !domain.ValidStudyPaths[string(path)] {
		return fmt.Errorf("unknown study path %q", path)
	}
	if !day.Valid() {
		return fmt.Errorf("invalid start date %q", day)
	}
	cfg, err := loadSettings(ctx, s.repo)
	if err != nil {
		return err
	}
	if cfg.StartDates == nil {
		cfg.StartDates = map[domain.StudyPath]domain.DayKey{}
	}
	cfg.StartDates[path] = day
	return s.repo.Upsert(ctx, cfg)
}

package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
)

// backupVersion is the current export file format version.
const backupVersion = 1

// backupFile is the on-disk YAML layout. Completion keys use the
// serialized "path:day:index" form, the only place that form leaves the
// persistence boundary.
type backupFile struct {
	Version     int               `yaml:"version"`
	ExportedAt  string            `yaml:"exported_at"`
	Settings    backupSettings    `yaml:"settings"`
	Completions map[string]string `yaml:"completions"`
	Bookmarks   []backupBookmark  `yaml:"bookmarks,omitempty"`
	Summaries   []backupSummary   `yaml:"summaries,omitempty"`
}

type backupSettings struct {
	ActivePaths      []string          `yaml:"active_paths"`
	Language         string            `yaml:"language"`
	AutoMarkPrevious bool              `yaml:"auto_mark_previous"`
	AutoMarkAsked    bool              `yaml:"auto_mark_asked"`
	HideCompleted    bool              `yaml:"hide_completed"`
	StartDates       map[string]string `yaml:"start_dates,omitempty"`
	Boundary         string            `yaml:"boundary"`
	FixedHour        int               `yaml:"fixed_hour"`
	FixedMinute      int               `yaml:"fixed_minute"`
	Latitude         float64           `yaml:"latitude,omitempty"`
	Longitude        float64           `yaml:"longitude,omitempty"`
}

type backupBookmark struct {
	ID        string `yaml:"id"`
	Path      string `yaml:"path"`
	Day       string `yaml:"day"`
	Index     int    `yaml:"index"`
	Note      string `yaml:"note,omitempty"`
	CreatedAt string `yaml:"created_at"`
}

type backupSummary struct {
	Path      string `yaml:"path"`
	Day       string `yaml:"day"`
	Note      string `yaml:"note"`
	UpdatedAt string `yaml:"updated_at"`
}

type backupService struct {
	settings  repository.SettingsRepo
	store     *LedgerStore
	bookmarks repository.BookmarkRepo
	summaries repository.SummaryRepo
	uow       db.UnitOfWork
	now       func() time.Time
}

// NewBackupService wires export and restore of the persisted state.
func NewBackupService(
	settings repository.SettingsRepo,
	store *LedgerStore,
	bookmarks repository.BookmarkRepo,
	summaries repository.SummaryRepo,
	uow db.UnitOfWork,
) BackupService {
	return &backupService{
		settings:  settings,
		store:     store,
		bookmarks: bookmarks,
		summaries: summaries,
		uow:       uow,
		now:       time.Now,
	}
}

func (s *backupService) Export(ctx context.Context, w io.Writer) error {
	cfg, err := loadSettings(ctx, s.settings)
	if err != nil {
		return err
	}
	ledger, err := s.store.snapshot(ctx)
	if err != nil {
		return err
	}
	bms, err := s.bookmarks.List(ctx)
	if err != nil {
		return fmt.Errorf("loading bookmarks: %w", err)
	}
	sums, err := s.summaries.List(ctx)
	if err != nil {
		return fmt.Errorf("loading summaries: %w", err)
	}

	file := backupFile{
		Version:     backupVersion,
		ExportedAt:  s.now().UTC().Format(time.RFC3339),
		Settings:    settingsToBackup(cfg),
		Completions: make(map[string]string, len(ledger)),
	}
	for key, ts := range ledger {
		file.Completions[key.String()] = ts.UTC().Format(time.RFC3339)
	}
	for _, b := range bms {
		file.Bookmarks = append(file.Bookmarks, backupBookmark{
			ID:        b.ID,
			Path:      string(b.Path),
			Day:       string(b.Day),
			Index:     b.Index,
			Note:      b.Note,
			CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(file.Bookmarks, func(i, j int) bool { return file.Bookmarks[i].ID < file.Bookmarks[j].ID })
	for _, sum := range sums {
		file.Summaries = append(file.Summaries, backupSummary{
			Path:      string(sum.Path),
			Day:       string(sum.Day),
			Note:      sum.Note,
			UpdatedAt: sum.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return enc.Close()
}

// Import validates the whole file first and then restores everything in a
// single transaction, so a malformed backup can never leave a half-written
// ledger behind. Existing progress, bookmarks, and summaries are replaced.
func (s *backupService) Import(ctx context.Context, r io.Reader) (*ImportStats, error) {
	var file backupFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}
	if file.Version != backupVersion {
		return nil, fmt.Errorf("unsupported backup version %d", file.Version)
	}

	cfg, err := settingsFromBackup(file.Settings)
	if err != nil {
		return nil, err
	}
	completions, err := parseCompletions(file.Completions)
	if err != nil {
		return nil, err
	}
	bms, err := parseBookmarks(file.Bookmarks)
	if err != nil {
		return nil, err
	}
	sums, err := parseSummaries(file.Summaries)
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{
		Completions: len(completions),
		Bookmarks:   len(bms),
		Summaries:   len(sums),
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		settingsRepo := repository.NewSQLiteSettingsRepo(tx)
		completionRepo := repository.NewSQLiteCompletionRepo(tx)
		bookmarkRepo := repository.NewSQLiteBookmarkRepo(tx)
		summaryRepo := repository.NewSQLiteSummaryRepo(tx)

		if err := settingsRepo.Upsert(ctx, cfg); err != nil {
			return err
		}
		for _, path := range domain.AllStudyPaths() {
			if err := completionRepo.DeletePath(ctx, path); err != nil {
				return err
			}
		}
		for key, ts := range completions {
			if err := completionRepo.Put(ctx, key, ts); err != nil {
				return err
			}
		}

		existing, err := bookmarkRepo.List(ctx)
		if err != nil {
			return err
		}
		for _, b := range existing {
			if err := bookmarkRepo.Delete(ctx, b.ID); err != nil {
				return err
			}
		}
		for _, b := range bms {
			if err := bookmarkRepo.Create(ctx, b); err != nil {
				return err
			}
		}

		oldSums, err := summaryRepo.List(ctx)
		if err != nil {
			return err
		}
		for _, sum := range oldSums {
			if err := summaryRepo.Delete(ctx, sum.Path, sum.Day); err != nil {
				return err
			}
		}
		for _, sum := range sums {
			if err := summaryRepo.Upsert(ctx, sum); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restoring backup: %w", err)
	}

	// The live snapshot predates the restore.
	s.store.invalidate()
	return stats, nil
}

func settingsToBackup(cfg *domain.Settings) backupSettings {
	out := backupSettings{
		Language:         string(cfg.Language),
		AutoMarkPrevious: cfg.AutoMarkPrevious,
		AutoMarkAsked:    cfg.AutoMarkAsked,
		HideCompleted:    cfg.HideCompleted,
		Boundary:         string(cfg.Boundary),
		FixedHour:        cfg.FixedHour,
		FixedMinute:      cfg.FixedMinute,
		Latitude:         cfg.Latitude,
		Longitude:        cfg.Longitude,
	}
	for _, p := range cfg.ActivePaths {
		out.ActivePaths = append(out.ActivePaths, string(p))
	}
	if len(cfg.StartDates) > 0 {
		out.StartDates = map[string]string{}
		for p, d := range cfg.StartDates {
			out.StartDates[string(p)] = string(d)
		}
	}
	return out
}

func settingsFromBackup(in backupSettings) (*domain.Settings, error) {
	cfg := domain.Settings{
		ID:               domain.DefaultSettingsID,
		Language:         domain.Language(in.Language),
		AutoMarkPrevious: in.AutoMarkPrevious,
		AutoMarkAsked:    in.AutoMarkAsked,
		HideCompleted:    in.HideCompleted,
		Boundary:         domain.BoundaryKind(in.Boundary),
		FixedHour:        in.FixedHour,
		FixedMinute:      in.FixedMinute,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		StartDates:       map[domain.StudyPath]domain.DayKey{},
	}
	for _, p := range in.ActivePaths {
		cfg.ActivePaths = append(cfg.ActivePaths, domain.StudyPath(p))
	}
	for p, d := range in.StartDates {
		day, err := domain.ParseDayKey(d)
		if err != nil {
			return nil, fmt.Errorf("backup start date for %s: %w", p, err)
		}
		cfg.StartDates[domain.StudyPath(p)] = day
	}
	if err := validateSettings(cfg); err != nil {
		return nil, fmt.Errorf("backup settings: %w", err)
	}
	return &cfg, nil
}

func parseCompletions(in map[string]string) (map[domain.CompletionKey]time.Time, error) {
	out := make(map[domain.CompletionKey]time.Time, len(in))
	for raw, tsRaw := range in {
		key, err := domain.ParseCompletionKey(raw)
		if err != nil {
			return nil, fmt.Errorf("backup completion: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("backup completion %s: bad timestamp %q", raw, tsRaw)
		}
		out[key] = ts
	}
	return out, nil
}

func parseBookmarks(in []backupBookmark) ([]*domain.Bookmark, error) {
	var out []*domain.Bookmark
	for _, b := range in {
		if _, err := domain.NewCompletionKey(domain.StudyPath(b.Path), domain.DayKey(b.Day), b.Index); err != nil {
			return nil, fmt.Errorf("backup bookmark %s: %w", b.ID, err)
		}
		created, err := time.Parse(time.RFC3339, b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("backup bookmark %s: bad timestamp %q", b.ID, b.CreatedAt)
		}
		out = append(out, &domain.Bookmark{
			ID:        b.ID,
			Path:      domain.StudyPath(b.Path),
			Day:       domain.DayKey(b.Day),
			Index:     b.Index,
			Note:      b.Note,
			CreatedAt: created,
		})
	}
	return out, nil
}

func parseSummaries(in []backupSummary) ([]*domain.DaySummary, error) {
	var out []*domain.DaySummary
	for _, sum := range in {
		if !domain.ValidStudyPaths[sum.Path] {
			return nil, fmt.Errorf("backup summary: unknown path %q", sum.Path)
		}
		day, err := domain.ParseDayKey(sum.Day)
		if err != nil {
			return nil, fmt.Errorf("backup summary: %w", err)
		}
		updated, err := time.Parse(time.RFC3339, sum.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("backup summary %s:%s: bad timestamp", sum.Path, sum.Day)
		}
		out = append(out, &domain.DaySummary{
			Path:      domain.StudyPath(sum.Path),
			Day:       day,
			Note:      sum.Note,
			UpdatedAt: updated,
		})
	}
	return out, nil
}

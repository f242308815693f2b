package service

import (
	"context"
	"io"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/progress"
)

// DayCard is everything the UI needs to render one path's day: the cached
// portion metadata plus per-item completion state.
type DayCard struct {
	Schedule *domain.ScheduleDay
	Progress progress.DayProgress
	Done     []bool // indexed by item, length = declared ItemCount
	Complete bool
}

// MarkOutcome reports what a history-aware mark did. When PromptRequired
// is set nothing was mutated yet; the caller shows the four-way prompt and
// calls MarkThrough again with the user's choice.
type MarkOutcome struct {
	Applied         bool
	PromptRequired  bool
	IncompleteBelow int
	DayComplete     bool
}

// StudyService is the main entry point for day resolution, day cards, and
// all completion mutations.
type StudyService interface {
	// Today resolves the current study day under the configured boundary
	// rule. It is total: any failure falls back to the fixed default.
	Today(ctx context.Context) domain.DayKey

	DayCard(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*DayCard, error)
	DayItems(ctx context.Context, path domain.StudyPath, day domain.DayKey) ([]domain.StudyItem, error)

	// MarkItem and UnmarkItem are the single-item gesture: they never look
	// at neighboring items.
	MarkItem(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int) error
	UnmarkItem(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int) error
	ToggleItem(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int) (bool, error)

	// MarkThrough is the history-aware gesture: marking item index may
	// also mark the incomplete items before it, per the auto-mark
	// protocol. Pass a nil choice first; re-invoke with the user's answer
	// when the outcome says a prompt is required.
	MarkThrough(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int, choice *progress.Choice) (*MarkOutcome, error)

	MarkDayComplete(ctx context.Context, path domain.StudyPath, day domain.DayKey) error
	ResetDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) error

	// ResetPath deletes the path's ledger entries and schedule cache and
	// restores its start date to the cycle default.
	ResetPath(ctx context.Context, path domain.StudyPath) error
}

// DayCell is one calendar day aggregated across the active paths.
type DayCell struct {
	Day     domain.DayKey
	PerPath []progress.DayProgress
	State   progress.AggregateState
}

// MonthView is a calendar month of aggregated day cells.
type MonthView struct {
	Year  int
	Month time.Month
	Cells []DayCell
}

// PathOverview is one path's standing: today's progress, backlog since the
// start date, and the current streak.
type PathOverview struct {
	Path        domain.StudyPath
	Display     domain.BiText
	Today       progress.DayProgress
	BacklogDays int
	Streak      int
	TotalDone   int
}

// Overview is the stats dashboard across all active paths.
type Overview struct {
	Today      domain.DayKey
	Paths      []PathOverview
	TodayState progress.AggregateState
}

// StatsService aggregates completion state across the active paths for
// calendar and stats display. Inactive paths are filtered out of every
// aggregate but their data is never touched.
type StatsService interface {
	CalendarMonth(ctx context.Context, year int, month time.Month) (*MonthView, error)
	Overview(ctx context.Context) (*Overview, error)
}

// SettingsService reads and mutates the singleton settings row.
type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, s domain.Settings) error
	SetAutoMark(ctx context.Context, on bool) error

	// SetPathActive enables or disables a path. Disabling the last active
	// path is a silent no-op; deactivation never deletes any data.
	SetPathActive(ctx context.Context, path domain.StudyPath, active bool) (*domain.Settings, error)
	SetStartDate(ctx context.Context, path domain.StudyPath, day domain.DayKey) error
}

// BookmarkService manages item annotations. Bookmarks live beside the
// completion ledger and never collide with it.
type BookmarkService interface {
	Add(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int, note string) (*domain.Bookmark, error)
	List(ctx context.Context) ([]*domain.Bookmark, error)
	Remove(ctx context.Context, id string) error
}

// SummaryService manages free-form day notes, one per (path, day).
type SummaryService interface {
	Set(ctx context.Context, path domain.StudyPath, day domain.DayKey, note string) (*domain.DaySummary, error)
	Get(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.DaySummary, error)
	List(ctx context.Context) ([]*domain.DaySummary, error)
	Remove(ctx context.Context, path domain.StudyPath, day domain.DayKey) error
}

// ImportStats reports what a backup restore brought in.
type ImportStats struct {
	Completions int
	Bookmarks   int
	Summaries   int
}

// BackupService exports and restores the persisted state. The ledger is
// the only unrecoverable record, so it ships with an explicit backup path.
type BackupService interface {
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (*ImportStats, error)
}

// SunsetProvider supplies the sunset instant for a day at the configured
// coordinates. Best-effort: errors fall back to the fixed boundary.
type SunsetProvider interface {
	Sunset(ctx context.Context, day domain.DayKey, lat, lng float64) (time.Time, error)
}

// TodayFunc resolves the current study day; wired to StudyService.Today.
type TodayFunc func(ctx context.Context) domain.DayKey

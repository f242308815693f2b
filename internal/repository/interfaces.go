package repository

import (
	"context"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// SettingsRepo persists the single user settings row.
type SettingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, s *domain.Settings) error
}

// CompletionRepo persists the completion ledger. Load returns the full
// ledger as a snapshot; every mutation is one synchronous statement so a
// crash can never lose an acknowledged mark. Deletes of absent rows are
// silent no-ops, mirroring the in-memory ledger semantics.
type CompletionRepo interface {
	Load(ctx context.Context) (map[domain.CompletionKey]time.Time, error)
	Put(ctx context.Context, key domain.CompletionKey, completedAt time.Time) error
	PutRange(ctx context.Context, path domain.StudyPath, day domain.DayKey, itemCount int, completedAt time.Time) error
	Delete(ctx context.Context, key domain.CompletionKey) error
	DeleteDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) error
	DeletePath(ctx context.Context, path domain.StudyPath) error
	CountDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) (int, error)
}

// ScheduleRepo persists per-(path, day) schedule metadata. Item texts are
// never stored; losing this table costs a refetch, never progress.
type ScheduleRepo interface {
	GetDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.ScheduleDay, error)
	PutDay(ctx context.Context, sd *domain.ScheduleDay) error
	ListRange(ctx context.Context, path domain.StudyPath, from, to domain.DayKey) ([]*domain.ScheduleDay, error)
	DeleteDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) error
	DeletePath(ctx context.Context, path domain.StudyPath) error
}

// BookmarkRepo persists item bookmarks.
type BookmarkRepo interface {
	Create(ctx context.Context, b *domain.Bookmark) error
	List(ctx context.Context) ([]*domain.Bookmark, error)
	Delete(ctx context.Context, id string) error
}

// SummaryRepo persists per-(path, day) study notes.
type SummaryRepo interface {
	Get(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.DaySummary, error)
	Upsert(ctx context.Context, s *domain.DaySummary) error
	List(ctx context.Context) ([]*domain.DaySummary, error)
	Delete(ctx context.Context, path domain.StudyPath, day domain.DayKey) error
}

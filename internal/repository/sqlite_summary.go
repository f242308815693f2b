package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// SQLiteSummaryRepo implements SummaryRepo using a SQLite database.
type SQLiteSummaryRepo struct {
	db db.DBTX
}

// NewSQLiteSummaryRepo creates a new SQLiteSummaryRepo.
func NewSQLiteSummaryRepo(conn db.DBTX) *SQLiteSummaryRepo {
	return &SQLiteSummaryRepo{db: conn}
}

func (r *SQLiteSummaryRepo) Get(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.DaySummary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT path, day, note, updated_at FROM day_summaries WHERE path = ? AND day = ?`,
		string(path), string(day))

	var (
		s         domain.DaySummary
		pathStr   string
		dayStr    string
		updatedAt string
	)
	if err := row.Scan(&pathStr, &dayStr, &s.Note, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("summary %s:%s: %w", path, day, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning summary: %w", err)
	}
	s.Path = domain.StudyPath(pathStr)
	s.Day = domain.DayKey(dayStr)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

func (r *SQLiteSummaryRepo) Upsert(ctx context.Context, s *domain.DaySummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO day_summaries (path, day, note, updated_at)
		 VALUES (?, ?, ?, ?)`,
		string(s.Path), string(s.Day), s.Note, formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting summary %s:%s: %w", s.Path, s.Day, err)
	}
	return nil
}

func (r *SQLiteSummaryRepo) List(ctx context.Context) ([]*domain.DaySummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT path, day, note, updated_at FROM day_summaries ORDER BY day, path`)
	if err != nil {
		return nil, fmt.Errorf("listing summaries: %w", err)
	}
	defer rows.Close()

	var out []*domain.DaySummary
	for rows.Next() {
		var (
			s         domain.DaySummary
			pathStr   string
			dayStr    string
			updatedAt string
		)
		if err := rows.Scan(&pathStr, &dayStr, &s.Note, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		s.Path = domain.StudyPath(pathStr)
		s.Day = domain.DayKey(dayStr)
		s.UpdatedAt = parseTime(updatedAt)
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summaries: %w", err)
	}
	return out, nil
}

func (r *SQLiteSummaryRepo) Delete(ctx context.Context, path domain.StudyPath, day domain.DayKey) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM day_summaries WHERE path = ? AND day = ?`, string(path), string(day))
	if err != nil {
		return fmt.Errorf("deleting summary %s:%s: %w", path, day, err)
	}
	return nil
}

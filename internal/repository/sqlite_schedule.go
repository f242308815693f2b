package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// scheduleDayColumns is the canonical SELECT column list for schedule_days.
const scheduleDayColumns = `path, day, display_he, display_en, item_count,
		hebrew_he, hebrew_en, fetched_at`

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

func (r *SQLiteScheduleRepo) GetDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.ScheduleDay, error) {
	query := `SELECT ` + scheduleDayColumns + ` FROM schedule_days WHERE path = ? AND day = ?`
	row := r.db.QueryRowContext(ctx, query, string(path), string(day))

	sd, err := scanScheduleDay(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("schedule %s:%s: %w", path, day, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule day: %w", err)
	}

	refs, err := r.loadRefs(ctx, path, day, day)
	if err != nil {
		return nil, err
	}
	sd.Refs = refs[day]
	return sd, nil
}

func (r *SQLiteScheduleRepo) PutDay(ctx context.Context, sd *domain.ScheduleDay) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO schedule_days (path, day, display_he, display_en,
			item_count, hebrew_he, hebrew_en, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(sd.Path),
		string(sd.Day),
		sd.Display.He,
		sd.Display.En,
		sd.ItemCount,
		sd.HebrewDate.He,
		sd.HebrewDate.En,
		formatTime(sd.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting schedule day %s:%s: %w", sd.Path, sd.Day, err)
	}

	// Replace the ref rows wholesale; a day's refs only change together.
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM schedule_refs WHERE path = ? AND day = ?`,
		string(sd.Path), string(sd.Day)); err != nil {
		return fmt.Errorf("clearing schedule refs %s:%s: %w", sd.Path, sd.Day, err)
	}
	for i, ref := range sd.Refs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO schedule_refs (path, day, ref_index, ref, title_he, title_en, url)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(sd.Path), string(sd.Day), i, ref.Ref, ref.Title.He, ref.Title.En, ref.URL); err != nil {
			return fmt.Errorf("inserting schedule ref %s:%s[%d]: %w", sd.Path, sd.Day, i, err)
		}
	}
	return nil
}

func (r *SQLiteScheduleRepo) ListRange(ctx context.Context, path domain.StudyPath, from, to domain.DayKey) ([]*domain.ScheduleDay, error) {
	query := `SELECT ` + scheduleDayColumns + ` FROM schedule_days
		WHERE path = ? AND day >= ? AND day <= ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, query, string(path), string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("listing schedule days: %w", err)
	}
	defer rows.Close()

	var out []*domain.ScheduleDay
	for rows.Next() {
		sd, err := scanScheduleDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning schedule day: %w", err)
		}
		out = append(out, sd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule days: %w", err)
	}

	refs, err := r.loadRefs(ctx, path, from, to)
	if err != nil {
		return nil, err
	}
	for _, sd := range out {
		sd.Refs = refs[sd.Day]
	}
	return out, nil
}

func (r *SQLiteScheduleRepo) DeleteDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM schedule_days WHERE path = ? AND day = ?`, string(path), string(day))
	if err != nil {
		return fmt.Errorf("deleting schedule day %s:%s: %w", path, day, err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) DeletePath(ctx context.Context, path domain.StudyPath) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM schedule_days WHERE path = ?`, string(path))
	if err != nil {
		return fmt.Errorf("deleting schedule days for %s: %w", path, err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanScheduleDay(row scanner) (*domain.ScheduleDay, error) {
	var (
		sd        domain.ScheduleDay
		pathStr   string
		dayStr    string
		fetchedAt string
	)
	err := row.Scan(
		&pathStr,
		&dayStr,
		&sd.Display.He,
		&sd.Display.En,
		&sd.ItemCount,
		&sd.HebrewDate.He,
		&sd.HebrewDate.En,
		&fetchedAt,
	)
	if err != nil {
		return nil, err
	}
	sd.Path = domain.StudyPath(pathStr)
	sd.Day = domain.DayKey(dayStr)
	sd.FetchedAt = parseTime(fetchedAt)
	return &sd, nil
}

func (r *SQLiteScheduleRepo) loadRefs(ctx context.Context, path domain.StudyPath, from, to domain.DayKey) (map[domain.DayKey][]domain.SourceRef, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day, ref, title_he, title_en, url FROM schedule_refs
		 WHERE path = ? AND day >= ? AND day <= ? ORDER BY day, ref_index`,
		string(path), string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("listing schedule refs: %w", err)
	}
	defer rows.Close()

	out := map[domain.DayKey][]domain.SourceRef{}
	for rows.Next() {
		var (
			day string
			ref domain.SourceRef
		)
		if err := rows.Scan(&day, &ref.Ref, &ref.Title.He, &ref.Title.En, &ref.URL); err != nil {
			return nil, fmt.Errorf("scanning schedule ref: %w", err)
		}
		out[domain.DayKey(day)] = append(out[domain.DayKey(day)], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule refs: %w", err)
	}
	return out, nil
}

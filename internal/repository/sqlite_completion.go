package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// SQLiteCompletionRepo implements CompletionRepo using a SQLite database.
// The completions table is the ledger: one row per done item, nothing else.
type SQLiteCompletionRepo struct {
	db db.DBTX
}

// NewSQLiteCompletionRepo creates a new SQLiteCompletionRepo.
func NewSQLiteCompletionRepo(conn db.DBTX) *SQLiteCompletionRepo {
	return &SQLiteCompletionRepo{db: conn}
}

func (r *SQLiteCompletionRepo) Load(ctx context.Context) (map[domain.CompletionKey]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT path, day, item_index, completed_at FROM completions`)
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}
	defer rows.Close()

	out := map[domain.CompletionKey]time.Time{}
	for rows.Next() {
		var (
			path, day, completedAt string
			index                  int
		)
		if err := rows.Scan(&path, &day, &index, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		key, err := domain.NewCompletionKey(domain.StudyPath(path), domain.DayKey(day), index)
		if err != nil {
			return nil, fmt.Errorf("stored completion %s:%s:%d: %w", path, day, index, err)
		}
		out[key] = parseTime(completedAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completions: %w", err)
	}
	return out, nil
}

func (r *SQLiteCompletionRepo) Put(ctx context.Context, key domain.CompletionKey, completedAt time.Time) error {
	if err := key.Validate(); err != nil {
		return fmt.Errorf("putting completion: %w", err)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO completions (path, day, item_index, completed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(path, day, item_index) DO UPDATE SET completed_at = excluded.completed_at`,
		string(key.Path), string(key.Day), key.Index, formatTime(completedAt))
	if err != nil {
		return fmt.Errorf("putting completion %s: %w", key, err)
	}
	return nil
}

// PutRange writes items 0..itemCount-1 in one statement so the whole range
// carries one timestamp and lands atomically.
func (r *SQLiteCompletionRepo) PutRange(ctx context.Context, path domain.StudyPath, day domain.DayKey, itemCount int, completedAt time.Time) error {
	if itemCount <= 0 {
		return nil
	}
	query := `INSERT INTO completions (path, day, item_index, completed_at) VALUES `
	args := make([]any, 0, itemCount*4)
	for i := 0; i < itemCount; i++ {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?, ?)"
		args = append(args, string(path), string(day), i, formatTime(completedAt))
	}
	query += ` ON CONFLICT(path, day, item_index) DO UPDATE SET completed_at = excluded.completed_at`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("putting completion range %s:%s[0..%d): %w", path, day, itemCount, err)
	}
	return nil
}

func (r *SQLiteCompletionRepo) Delete(ctx context.Context, key domain.CompletionKey) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM completions WHERE path = ? AND day = ? AND item_index = ?`,
		string(key.Path), string(key.Day), key.Index)
	if err != nil {
		return fmt.Errorf("deleting completion %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteCompletionRepo) DeleteDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM completions WHERE path = ? AND day = ?`, string(path), string(day))
	if err != nil {
		return fmt.Errorf("deleting completions for %s:%s: %w", path, day, err)
	}
	return nil
}

func (r *SQLiteCompletionRepo) DeletePath(ctx context.Context, path domain.StudyPath) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM completions WHERE path = ?`, string(path))
	if err != nil {
		return fmt.Errorf("deleting completions for %s: %w", path, err)
	}
	return nil
}

func (r *SQLiteCompletionRepo) CountDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM completions WHERE path = ? AND day = ?`,
		string(path), string(day)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting completions for %s:%s: %w", path, day, err)
	}
	return n, nil
}

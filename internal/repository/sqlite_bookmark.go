package repository

import (
	"context"
	"fmt"

	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// SQLiteBookmarkRepo implements BookmarkRepo using a SQLite database.
type SQLiteBookmarkRepo struct {
	db db.DBTX
}

// NewSQLiteBookmarkRepo creates a new SQLiteBookmarkRepo.
func NewSQLiteBookmarkRepo(conn db.DBTX) *SQLiteBookmarkRepo {
	return &SQLiteBookmarkRepo{db: conn}
}

func (r *SQLiteBookmarkRepo) Create(ctx context.Context, b *domain.Bookmark) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookmarks (id, path, day, item_index, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, string(b.Path), string(b.Day), b.Index, b.Note, formatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting bookmark: %w", err)
	}
	return nil
}

func (r *SQLiteBookmarkRepo) List(ctx context.Context) ([]*domain.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, path, day, item_index, note, created_at FROM bookmarks
		 ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Bookmark
	for rows.Next() {
		var (
			b         domain.Bookmark
			pathStr   string
			dayStr    string
			createdAt string
		)
		if err := rows.Scan(&b.ID, &pathStr, &dayStr, &b.Index, &b.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		b.Path = domain.StudyPath(pathStr)
		b.Day = domain.DayKey(dayStr)
		b.CreatedAt = parseTime(createdAt)
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmarks: %w", err)
	}
	return out, nil
}

func (r *SQLiteBookmarkRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}
	return nil
}

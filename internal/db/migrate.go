package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateLegacyCompletions(db); err != nil {
		return fmt.Errorf("migrating legacy completion keys: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		id                 TEXT PRIMARY KEY DEFAULT 'default',
		active_paths       TEXT NOT NULL DEFAULT 'rambam3',
		language           TEXT NOT NULL DEFAULT 'both'
		                   CHECK(language IN ('he','en','both')),
		auto_mark_previous INTEGER NOT NULL DEFAULT 0,
		auto_mark_asked    INTEGER NOT NULL DEFAULT 0,
		hide_completed     INTEGER NOT NULL DEFAULT 0,
		start_dates        TEXT NOT NULL DEFAULT '',
		boundary           TEXT NOT NULL DEFAULT 'fixed'
		                   CHECK(boundary IN ('fixed','sunset')),
		fixed_hour         INTEGER NOT NULL DEFAULT 18,
		fixed_minute       INTEGER NOT NULL DEFAULT 0,
		latitude           REAL NOT NULL DEFAULT 0,
		longitude          REAL NOT NULL DEFAULT 0
	)`,

	// Seed default settings
	`INSERT OR IGNORE INTO settings (id) VALUES ('default')`,

	`CREATE TABLE IF NOT EXISTS completions (
		path         TEXT NOT NULL
		             CHECK(path IN ('rambam3','rambam1','mitzvot')),
		day          TEXT NOT NULL,
		item_index   INTEGER NOT NULL CHECK(item_index >= 0),
		completed_at TEXT NOT NULL,
		PRIMARY KEY (path, day, item_index)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_completions_day ON completions(day)`,

	`CREATE TABLE IF NOT EXISTS schedule_days (
		path       TEXT NOT NULL,
		day        TEXT NOT NULL,
		display_he TEXT NOT NULL DEFAULT '',
		display_en TEXT NOT NULL DEFAULT '',
		item_count INTEGER NOT NULL DEFAULT 0,
		hebrew_he  TEXT NOT NULL DEFAULT '',
		hebrew_en  TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (path, day)
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_refs (
		path      TEXT NOT NULL,
		day       TEXT NOT NULL,
		ref_index INTEGER NOT NULL,
		ref       TEXT NOT NULL,
		title_he  TEXT NOT NULL DEFAULT '',
		title_en  TEXT NOT NULL DEFAULT '',
		url       TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (path, day, ref_index),
		FOREIGN KEY (path, day) REFERENCES schedule_days(path, day) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS bookmarks (
		id         TEXT PRIMARY KEY,
		path       TEXT NOT NULL,
		day        TEXT NOT NULL,
		item_index INTEGER NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookmarks_item ON bookmarks(path, day, item_index)`,

	`CREATE TABLE IF NOT EXISTS day_summaries (
		path       TEXT NOT NULL,
		day        TEXT NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (path, day)
	)`,
}

// migrateLegacyCompletions converts the pre-multi-path ledger into the
// current schema. Old installs stored one completions_v0 row per item with
// a bare "day:index" key and no path column; every such row belonged to
// the three-chapter track. The backfill runs before any policy code sees
// the ledger and drops the legacy table when done, so it executes at most
// once per database.
func migrateLegacyCompletions(db *sql.DB) error {
	ctx := context.Background()

	var name string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'completions_v0'`).Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking for legacy table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `SELECT key, completed_at FROM completions_v0`)
	if err != nil {
		return fmt.Errorf("reading legacy rows: %w", err)
	}
	type legacyRow struct {
		day         string
		index       int
		completedAt string
	}
	var converted []legacyRow
	for rows.Next() {
		var key, completedAt string
		if err := rows.Scan(&key, &completedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning legacy row: %w", err)
		}
		day, index, ok := splitLegacyKey(key)
		if !ok {
			// Uninterpretable keys carry no recoverable progress; skip.
			continue
		}
		converted = append(converted, legacyRow{day: day, index: index, completedAt: completedAt})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating legacy rows: %w", err)
	}
	rows.Close()

	for _, r := range converted {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO completions (path, day, item_index, completed_at)
			 VALUES ('rambam3', ?, ?, ?)
			 ON CONFLICT(path, day, item_index) DO NOTHING`,
			r.day, r.index, r.completedAt); err != nil {
			return fmt.Errorf("inserting converted row %s:%d: %w", r.day, r.index, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE completions_v0`); err != nil {
		return fmt.Errorf("dropping legacy table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing legacy migration: %w", err)
	}
	committed = true

	return nil
}

// splitLegacyKey parses the old "YYYY-MM-DD:index" completion key.
func splitLegacyKey(key string) (day string, index int, ok bool) {
	i := strings.LastIndex(key, ":")
	if i <= 0 || i == len(key)-1 {
		return "", 0, false
	}
	day = key[:i]
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return "", 0, false
	}
	n := 0
	for _, c := range key[i+1:] {
		if c < '0' || c > '9' {
			return "", 0, false
		}
		n = n*10 + int(c-'0')
	}
	return day, n, true
}

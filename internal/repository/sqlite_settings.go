package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// SQLiteSettingsRepo implements SettingsRepo using a SQLite database.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

// NewSQLiteSettingsRepo creates a new SQLiteSettingsRepo.
func NewSQLiteSettingsRepo(conn db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: conn}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	query := `SELECT id, active_paths, language, auto_mark_previous, auto_mark_asked,
		hide_completed, start_dates, boundary, fixed_hour, fixed_minute, latitude, longitude
		FROM settings WHERE id = 'default'`
	row := r.db.QueryRowContext(ctx, query)

	var (
		s           domain.Settings
		activePaths string
		startDates  string
		languageStr string
		boundaryStr string
		autoMark    int
		asked       int
		hid         int
	)
	err := row.Scan(
		&s.ID,
		&activePaths,
		&languageStr,
		&autoMark,
		&asked,
		&hid,
		&startDates,
		&boundaryStr,
		&s.FixedHour,
		&s.FixedMinute,
		&s.Latitude,
		&s.Longitude,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning settings: %w", err)
	}

	s.Language = domain.Language(languageStr)
	s.Boundary = domain.BoundaryKind(boundaryStr)
	s.ActivePaths = decodePaths(activePaths)
	if len(s.ActivePaths) == 0 {
		// A row with no recognizable active path would lock the whole UI;
		// fall back to the shipped default.
		s.ActivePaths = domain.DefaultSettings().ActivePaths
	}
	s.AutoMarkPrevious = intToBool(autoMark)
	s.AutoMarkAsked = intToBool(asked)
	s.HideCompleted = intToBool(hid)
	s.StartDates = decodeStartDates(startDates)
	return &s, nil
}

func (r *SQLiteSettingsRepo) Upsert(ctx context.Context, s *domain.Settings) error {
	query := `INSERT OR REPLACE INTO settings (id, active_paths, language, auto_mark_previous,
		auto_mark_asked, hide_completed, start_dates, boundary, fixed_hour, fixed_minute,
		latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		encodePaths(s.ActivePaths),
		string(s.Language),
		boolToInt(s.AutoMarkPrevious),
		boolToInt(s.AutoMarkAsked),
		boolToInt(s.HideCompleted),
		encodeStartDates(s.StartDates),
		string(s.Boundary),
		s.FixedHour,
		s.FixedMinute,
		s.Latitude,
		s.Longitude,
	)
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}

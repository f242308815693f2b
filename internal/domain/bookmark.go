package domain

import "time"

// Bookmark pins one study item for later review. Bookmarks live in their
// own table and never collide with completion entries.
type Bookmark struct {
	ID        string
	Path      StudyPath
	Day       DayKey
	Index     int
	Note      string
	CreatedAt time.Time
}

// DaySummary is a free-form note attached to one (path, day).
type DaySummary struct {
	Path      StudyPath
	Day       DayKey
	Note      string
	UpdatedAt time.Time
}

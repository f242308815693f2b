package domain

// Settings is the single-row user configuration. ID is always "default".
type Settings struct {
	ID          string
	ActivePaths []StudyPath
	Language    Language

	// Auto-mark-previous: when marking today's items, offer to also mark
	// the untouched days since the last completed one. Asked records that
	// the one-time prompt was answered, so it is not shown again.
	AutoMarkPrevious bool
	AutoMarkAsked    bool

	HideCompleted bool

	// StartDates holds per-path progress-tracking start overrides. A path
	// absent from the map uses its cycle default.
	StartDates map[StudyPath]DayKey

	// Day boundary. Fixed uses FixedHour:FixedMinute local time; sunset
	// resolves per-day via geolocation, falling back to fixed on failure.
	Boundary    BoundaryKind
	FixedHour   int
	FixedMinute int
	Latitude    float64
	Longitude   float64
}

// DefaultSettingsID is the primary key of the singleton settings row.
const DefaultSettingsID = "default"

// DefaultSettings returns the out-of-the-box configuration: the three-
// chapter track active, bilingual display, auto-mark off and unasked,
// and a fixed 18:00 day boundary.
func DefaultSettings() Settings {
	return Settings{
		ID:          DefaultSettingsID,
		ActivePaths: []StudyPath{PathRambam3},
		Language:    LangBoth,
		Boundary:    BoundaryFixed,
		FixedHour:   18,
		FixedMinute: 0,
		StartDates:  map[StudyPath]DayKey{},
	}
}

// IsActive reports whether path is currently enabled.
func (s Settings) IsActive(path StudyPath) bool {
	for _, p := range s.ActivePaths {
		if p == path {
			return true
		}
	}
	return false
}

// StartDate returns the progress-tracking start for path, falling back to
// the path's cycle default when no override is set.
func (s Settings) StartDate(path StudyPath) DayKey {
	if d, ok := s.StartDates[path]; ok && d.Valid() {
		return d
	}
	return path.DefaultStartDate()
}

// WithPathActive returns a copy with path enabled or disabled. Disabling
// the last active path is a no-op: at least one path stays active.
func (s Settings) WithPathActive(path StudyPath, active bool) Settings {
	out := s
	if active {
		if s.IsActive(path) {
			return out
		}
		out.ActivePaths = append(append([]StudyPath{}, s.ActivePaths...), path)
		return out
	}
	kept := make([]StudyPath, 0, len(s.ActivePaths))
	for _, p := range s.ActivePaths {
		if p != path {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return out
	}
	out.ActivePaths = kept
	return out
}

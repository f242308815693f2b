package repository

import (
	"strings"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// timestampLayout is the storage format for completion and fetch timestamps.
const timestampLayout = time.RFC3339

// formatTime renders a timestamp for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTime parses a stored timestamp. Unparseable values come back as the
// zero time rather than failing a whole load.
func parseTime(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// encodePaths renders an ordered path set as the stored comma list.
func encodePaths(paths []domain.StudyPath) string {
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ",")
}

// decodePaths parses the stored comma list, dropping unknown path names so
// a downgraded binary cannot poison the active set.
func decodePaths(s string) []domain.StudyPath {
	var out []domain.StudyPath
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if domain.ValidStudyPaths[part] {
			out = append(out, domain.StudyPath(part))
		}
	}
	return out
}

// encodeStartDates renders per-path start overrides as "path=day" pairs.
func encodeStartDates(m map[domain.StudyPath]domain.DayKey) string {
	if len(m) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m))
	for _, p := range domain.AllStudyPaths() {
		if d, ok := m[p]; ok {
			parts = append(parts, string(p)+"="+string(d))
		}
	}
	return strings.Join(parts, ",")
}

// decodeStartDates parses stored "path=day" pairs, dropping malformed ones.
func decodeStartDates(s string) map[domain.StudyPath]domain.DayKey {
	out := map[domain.StudyPath]domain.DayKey{}
	if s == "" {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || !domain.ValidStudyPaths[kv[0]] {
			continue
		}
		d, err := domain.ParseDayKey(kv[1])
		if err != nil {
			continue
		}
		out[domain.StudyPath(kv[0])] = d
	}
	return out
}

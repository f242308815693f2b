package domain

// StudyPath identifies one independently tracked study track. Each path has
// its own schedule, its own completion key namespace, and its own start date.
type StudyPath string

const (
	// PathRambam3 is the three-chapters-a-day Mishneh Torah cycle.
	PathRambam3 StudyPath = "rambam3"
	// PathRambam1 is the one-chapter-a-day Mishneh Torah cycle.
	PathRambam1 StudyPath = "rambam1"
	// PathMitzvot is the daily Sefer HaMitzvot cycle.
	PathMitzvot StudyPath = "mitzvot"
)

// ValidStudyPaths is the canonical set of accepted study path strings.
var ValidStudyPaths = map[string]bool{
	"rambam3": true, "rambam1": true, "mitzvot": true,
}

// AllStudyPaths returns every known path in display order.
func AllStudyPaths() []StudyPath {
	return []StudyPath{PathRambam3, PathRambam1, PathMitzvot}
}

// Current cycle start dates. The three-chapter track and the mitzvot track
// share a calendar; the one-chapter track runs its own longer cycle.
const (
	cycleStartRambam3 DayKey = "2025-10-05"
	cycleStartRambam1 DayKey = "2024-06-13"
)

// DefaultStartDate returns the path's documented default start date,
// the first day of the cycle currently in progress. resetting a path
// restores its start date to this value.
func (p StudyPath) DefaultStartDate() DayKey {
	if p == PathRambam1 {
		return cycleStartRambam1
	}
	return cycleStartRambam3
}

// DisplayName returns the bilingual track name.
func (p StudyPath) DisplayName() BiText {
	switch p {
	case PathRambam3:
		return BiText{He: "רמב\"ם ג' פרקים", En: "Rambam — 3 Chapters"}
	case PathRambam1:
		return BiText{He: "רמב\"ם פרק אחד", En: "Rambam — 1 Chapter"}
	case PathMitzvot:
		return BiText{He: "ספר המצוות", En: "Sefer HaMitzvot"}
	default:
		return BiText{En: string(p)}
	}
}

// Language is the user's display-language preference.
type Language string

const (
	LangHebrew  Language = "he"
	LangEnglish Language = "en"
	LangBoth    Language = "both"
)

// ValidLanguages is the canonical set of accepted language strings.
var ValidLanguages = map[string]bool{"he": true, "en": true, "both": true}

// BoundaryKind selects how the study day rolls over.
type BoundaryKind string

const (
	// BoundaryFixed rolls the day at a fixed local wall-clock time.
	BoundaryFixed BoundaryKind = "fixed"
	// BoundarySunset rolls the day at local sunset, falling back to a
	// fixed default time when no sunset data is available.
	BoundarySunset BoundaryKind = "sunset"
)

// ValidBoundaryKinds is the canonical set of accepted boundary strings.
var ValidBoundaryKinds = map[string]bool{"fixed": true, "sunset": true}

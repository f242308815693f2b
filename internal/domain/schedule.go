package domain

import "time"

// BiText is a bilingual string pair. Either side may be empty when the
// upstream source lacks that language.
type BiText struct {
	He string
	En string
}

// Display picks the side matching lang, falling back to whichever side is
// present so callers always get something renderable.
func (b BiText) Display(lang Language) string {
	switch lang {
	case LangHebrew:
		if b.He != "" {
			return b.He
		}
		return b.En
	case LangEnglish:
		if b.En != "" {
			return b.En
		}
		return b.He
	default:
		if b.He != "" && b.En != "" {
			return b.En + " · " + b.He
		}
		if b.En != "" {
			return b.En
		}
		return b.He
	}
}

// Empty reports whether both sides are blank.
func (b BiText) Empty() bool { return b.He == "" && b.En == "" }

// SourceRef is one citable reading reference inside a day's portion, e.g.
// a single chapter. Ref is the canonical citation used to fetch text and
// build reader links; Title is the human label.
type SourceRef struct {
	Ref   string
	Title BiText
	URL   string
}

// ScheduleDay is the cached portion metadata for one (path, day) slot.
// ItemCount is the declared number of markable items and is authoritative
// for all progress math, independent of how many text segments were
// actually fetched for display.
type ScheduleDay struct {
	Path       StudyPath
	Day        DayKey
	Display    BiText
	Refs       []SourceRef
	ItemCount  int
	HebrewDate BiText
	FetchedAt  time.Time
}

// StudyItem is one renderable unit of a day's study text. RefIndex points
// back into ScheduleDay.Refs so the UI can group items under their source.
type StudyItem struct {
	Text           BiText
	Chapter        int
	FirstInChapter bool
	RefIndex       int
}

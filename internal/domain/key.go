package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CompletionKey identifies a single markable study item: one item of one
// path's portion on one day. In memory it is always this struct; the
// "path:day:index" string form exists only at the persistence boundary.
type CompletionKey struct {
	Path  StudyPath
	Day   DayKey
	Index int
}

// NewCompletionKey builds a key after validating each part.
func NewCompletionKey(path StudyPath, day DayKey, index int) (CompletionKey, error) {
	k := CompletionKey{Path: path, Day: day, Index: index}
	if err := k.Validate(); err != nil {
		return CompletionKey{}, err
	}
	return k, nil
}

// Validate checks the key parts: the path must be a known study path, the
// day well formed, and the index non-negative.
func (k CompletionKey) Validate() error {
	if !ValidStudyPaths[string(k.Path)] {
		return fmt.Errorf("invalid study path %q", k.Path)
	}
	if !k.Day.Valid() {
		return fmt.Errorf("invalid day %q", k.Day)
	}
	if k.Index < 0 {
		return fmt.Errorf("invalid item index %d", k.Index)
	}
	return nil
}

// String renders the persisted form "path:day:index".
func (k CompletionKey) String() string {
	return string(k.Path) + ":" + string(k.Day) + ":" + strconv.Itoa(k.Index)
}

// ParseCompletionKey parses the persisted "path:day:index" form. Neither
// path names nor day keys contain colons, so a plain split is unambiguous.
func ParseCompletionKey(s string) (CompletionKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return CompletionKey{}, fmt.Errorf("invalid completion key %q: want path:day:index", s)
	}
	idx, err := strconv.Atoi(parts[2])
	if err != nil {
		return CompletionKey{}, fmt.Errorf("invalid completion key %q: %w", s, err)
	}
	return NewCompletionKey(StudyPath(parts[0]), DayKey(parts[1]), idx)
}

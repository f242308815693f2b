// Package progress implements the completion ledger and the policy
// decisions built on top of it. Every operation is a pure function: it
// takes a ledger snapshot and returns a new one, never mutating its input
// and never performing I/O. Persistence mirrors these snapshots elsewhere.
package progress

import (
	"sort"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// Ledger maps completion keys to completion timestamps. Presence of a key
// means the item is done; absence means it is not. No other fact about
// progress is stored, and no tombstones exist: unmarking deletes the key.
type Ledger map[domain.CompletionKey]time.Time

// NewLedger returns an empty ledger.
func NewLedger() Ledger { return Ledger{} }

// Clone returns an independent copy.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Len returns the number of completed items across all paths and days.
func (l Ledger) Len() int { return len(l) }

// IsDone reports whether the item at (path, day, index) is completed.
func (l Ledger) IsDone(path domain.StudyPath, day domain.DayKey, index int) bool {
	_, ok := l[domain.CompletionKey{Path: path, Day: day, Index: index}]
	return ok
}

// CompletedAt returns the completion timestamp for (path, day, index).
func (l Ledger) CompletedAt(path domain.StudyPath, day domain.DayKey, index int) (time.Time, bool) {
	ts, ok := l[domain.CompletionKey{Path: path, Day: day, Index: index}]
	return ts, ok
}

// CountDone returns how many items are completed for (path, day).
func (l Ledger) CountDone(path domain.StudyPath, day domain.DayKey) int {
	n := 0
	for k := range l {
		if k.Path == path && k.Day == day {
			n++
		}
	}
	return n
}

// IsDayComplete reports whether (path, day) has at least itemCount
// completions. The comparison is >= so that a schedule correction that
// shrinks the declared count can neither strand the day incomplete nor
// fail on the excess entries.
func (l Ledger) IsDayComplete(path domain.StudyPath, day domain.DayKey, itemCount int) bool {
	return l.CountDone(path, day) >= itemCount
}

// MarkOne returns a ledger with (path, day, index) completed at ts.
// Marking an already-done item refreshes its timestamp: the value means
// "last marked done".
func (l Ledger) MarkOne(path domain.StudyPath, day domain.DayKey, index int, ts time.Time) Ledger {
	out := l.Clone()
	out[domain.CompletionKey{Path: path, Day: day, Index: index}] = ts
	return out
}

// UnmarkOne returns a ledger with (path, day, index) deleted. Absent keys
// are a silent no-op.
func (l Ledger) UnmarkOne(path domain.StudyPath, day domain.DayKey, index int) Ledger {
	out := l.Clone()
	delete(out, domain.CompletionKey{Path: path, Day: day, Index: index})
	return out
}

// MarkAllComplete returns a ledger with items 0..itemCount-1 of (path, day)
// completed, all sharing the one timestamp ts.
func (l Ledger) MarkAllComplete(path domain.StudyPath, day domain.DayKey, itemCount int, ts time.Time) Ledger {
	out := l.Clone()
	for i := 0; i < itemCount; i++ {
		out[domain.CompletionKey{Path: path, Day: day, Index: i}] = ts
	}
	return out
}

// MarkThrough returns a ledger with items 0..index of (path, day)
// completed, all sharing the one timestamp ts. This is the range entry
// point used by the history-aware gesture.
func (l Ledger) MarkThrough(path domain.StudyPath, day domain.DayKey, index int, ts time.Time) Ledger {
	return l.MarkAllComplete(path, day, index+1, ts)
}

// ResetDay returns a ledger with every (path, day) entry deleted.
func (l Ledger) ResetDay(path domain.StudyPath, day domain.DayKey) Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		if k.Path == path && k.Day == day {
			continue
		}
		out[k] = v
	}
	return out
}

// ResetPath returns a ledger with every entry of path deleted, across all
// days. Callers owning the schedule cache and start-date settings reset
// those alongside.
func (l Ledger) ResetPath(path domain.StudyPath) Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		if k.Path == path {
			continue
		}
		out[k] = v
	}
	return out
}

// DoneIndices returns the sorted completed indices for (path, day).
func (l Ledger) DoneIndices(path domain.StudyPath, day domain.DayKey) []int {
	var out []int
	for k := range l {
		if k.Path == path && k.Day == day {
			out = append(out, k.Index)
		}
	}
	sort.Ints(out)
	return out
}

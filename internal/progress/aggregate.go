package progress

import "github.com/rabbishuki/rambam-sub001/internal/domain"

// DayProgress is one path's completion count against its declared item
// count for a single day. Total comes from the schedule's declared count
// and stays authoritative even when fetched texts disagree.
type DayProgress struct {
	Path  domain.StudyPath
	Done  int
	Total int
}

// IsComplete reports Done >= Total, the same tolerance IsDayComplete uses.
func (p DayProgress) IsComplete() bool { return p.Done >= p.Total }

// Percent returns completion in [0, 1]. Days with no declared items
// report 0 rather than dividing by zero.
func (p DayProgress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	if p.Done >= p.Total {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// AggregateState is the single visual state of a day across all active
// paths.
type AggregateState string

const (
	AggregateUntouched AggregateState = "untouched"
	AggregatePartial   AggregateState = "partial"
	AggregateComplete  AggregateState = "complete"
)

// AggregateDay folds per-path progress for one day into one state:
// complete only when every active path is complete, partial when any path
// has nonzero progress, untouched otherwise. Days where no path has any
// declared work and no marks (schedule never fetched) stay untouched
// rather than counting as vacuously complete. Callers never special-case
// the number of paths.
func AggregateDay(perPath []DayProgress) AggregateState {
	if len(perPath) == 0 {
		return AggregateUntouched
	}
	allComplete := true
	anyProgress := false
	anyWork := false
	for _, p := range perPath {
		if !p.IsComplete() {
			allComplete = false
		}
		if p.Done > 0 {
			anyProgress = true
		}
		if p.Total > 0 {
			anyWork = true
		}
	}
	if allComplete && (anyWork || anyProgress) {
		return AggregateComplete
	}
	if anyProgress {
		return AggregatePartial
	}
	return AggregateUntouched
}

// CountBacklogDays counts the days in [start, today) that are not complete
// for path. counts supplies the declared item count per day; days it
// reports as 0 (no schedule known) are skipped, not presumed incomplete.
func CountBacklogDays(l Ledger, path domain.StudyPath, start, today domain.DayKey, counts func(domain.DayKey) int) int {
	if !start.Valid() || !today.Valid() || !start.Before(today) {
		return 0
	}
	n := 0
	for d := start; d.Before(today); d = d.Next() {
		c := counts(d)
		if c <= 0 {
			continue
		}
		if !l.IsDayComplete(path, d, c) {
			n++
		}
	}
	return n
}

// maxStreakScan bounds the streak walk so a pathological complete
// predicate cannot loop forever.
const maxStreakScan = 3650

// Streak counts consecutive complete days ending at today, or at
// yesterday when today is not yet complete (an unfinished today does not
// break a running streak).
func Streak(complete func(domain.DayKey) bool, today domain.DayKey) int {
	if !today.Valid() {
		return 0
	}
	d := today
	if !complete(d) {
		d = d.Prev()
	}
	n := 0
	for n < maxStreakScan && complete(d) {
		n++
		d = d.Prev()
	}
	return n
}

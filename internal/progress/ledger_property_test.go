package progress

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// TestLedger_Invariants_RandomOpSequences property-tests the ledger under
// random mark/unmark/range/reset sequences: size always equals the number
// of distinct done keys (no tombstones), counts match brute force, and
// operations never bleed across (path, day) prefixes.
func TestLedger_Invariants_RandomOpSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	paths := domain.AllStudyPaths()
	days := []domain.DayKey{"2026-02-01", "2026-02-02", "2026-02-03"}

	for trial := 0; trial < 100; trial++ {
		l := NewLedger()
		model := map[domain.CompletionKey]bool{}

		for step := 0; step < 40; step++ {
			p := paths[rng.Intn(len(paths))]
			d := days[rng.Intn(len(days))]
			i := rng.Intn(6)
			ts := time.Date(2026, 2, 1, rng.Intn(24), rng.Intn(60), 0, 0, time.UTC)

			switch rng.Intn(6) {
			case 0, 1:
				l = l.MarkOne(p, d, i, ts)
				model[domain.CompletionKey{Path: p, Day: d, Index: i}] = true
			case 2:
				l = l.UnmarkOne(p, d, i)
				delete(model, domain.CompletionKey{Path: p, Day: d, Index: i})
			case 3:
				l = l.MarkThrough(p, d, i, ts)
				for j := 0; j <= i; j++ {
					model[domain.CompletionKey{Path: p, Day: d, Index: j}] = true
				}
			case 4:
				l = l.ResetDay(p, d)
				for k := range model {
					if k.Path == p && k.Day == d {
						delete(model, k)
					}
				}
			case 5:
				l = l.ResetPath(p)
				for k := range model {
					if k.Path == p {
						delete(model, k)
					}
				}
			}

			assert.Equal(t, len(model), l.Len(),
				"trial %d step %d: ledger size must equal distinct done keys", trial, step)
			for k := range model {
				assert.True(t, l.IsDone(k.Path, k.Day, k.Index),
					"trial %d step %d: model key %v must be done", trial, step, k)
			}
		}

		for _, p := range paths {
			for _, d := range days {
				want := 0
				for k := range model {
					if k.Path == p && k.Day == d {
						want++
					}
				}
				assert.Equal(t, want, l.CountDone(p, d),
					"trial %d: countDone(%s,%s) must match brute force", trial, p, d)
			}
		}
	}
}

// TestLedger_MarkUnmarkRoundTrip_Random verifies the round-trip property on
// random non-empty ledgers: marking then unmarking a fresh key restores the
// exact prior ledger.
func TestLedger_MarkUnmarkRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	paths := domain.AllStudyPaths()

	for trial := 0; trial < 100; trial++ {
		l := NewLedger()
		for n := rng.Intn(10); n > 0; n-- {
			l = l.MarkOne(paths[rng.Intn(len(paths))], "2026-02-01", rng.Intn(5), t1)
		}

		p := paths[rng.Intn(len(paths))]
		idx := 10 + rng.Intn(5) // outside the populated range, guaranteed fresh
		before := l.Clone()

		after := l.MarkOne(p, "2026-02-01", idx, t2).UnmarkOne(p, "2026-02-01", idx)
		assert.Equal(t, before, after, "trial %d", trial)
	}
}

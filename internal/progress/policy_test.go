package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

func settingsWith(autoMark, asked bool) domain.Settings {
	s := domain.DefaultSettings()
	s.AutoMarkPrevious = autoMark
	s.AutoMarkAsked = asked
	return s
}

func TestIncompleteBelow(t *testing.T) {
	l := NewLedger().MarkOne(domain.PathRambam3, day, 1, t1)
	assert.Equal(t, 0, IncompleteBelow(l, domain.PathRambam3, day, 0))
	assert.Equal(t, 1, IncompleteBelow(l, domain.PathRambam3, day, 1), "index 0 incomplete")
	assert.Equal(t, 1, IncompleteBelow(l, domain.PathRambam3, day, 2), "index 1 is done")
	assert.Equal(t, 2, IncompleteBelow(l, domain.PathRambam3, day, 3))
}

func TestDecideAutoMark(t *testing.T) {
	cases := []struct {
		name            string
		autoMark, asked bool
		incompleteBelow int
		want            Decision
	}{
		{"nothing below", false, false, 0, DecisionMarkOnlyThis},
		{"setting on", true, false, 2, DecisionAutoMarkRange},
		{"setting on already asked", true, true, 2, DecisionAutoMarkRange},
		{"off never asked", false, false, 2, DecisionPrompt},
		{"off already asked", false, true, 2, DecisionMarkOnlyThis},
		{"setting on nothing below", true, false, 0, DecisionMarkOnlyThis},
	}
	for _, tc := range cases {
		got := DecideAutoMark(settingsWith(tc.autoMark, tc.asked), tc.incompleteBelow)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestApplyChoice_Always(t *testing.T) {
	l := NewLedger()
	s := settingsWith(false, false)

	l2, s2 := ApplyChoice(l, s, domain.PathRambam3, day, 2, t1, ChoiceAlways)
	assert.Equal(t, []int{0, 1, 2}, l2.DoneIndices(domain.PathRambam3, day))
	assert.True(t, s2.AutoMarkPrevious, "always flips the setting on")
	assert.True(t, s2.AutoMarkAsked)
}

func TestApplyChoice_JustOnce(t *testing.T) {
	l2, s2 := ApplyChoice(NewLedger(), settingsWith(false, false), domain.PathRambam3, day, 2, t1, ChoiceJustOnce)
	assert.Equal(t, []int{0, 1, 2}, l2.DoneIndices(domain.PathRambam3, day))
	assert.False(t, s2.AutoMarkPrevious, "setting unchanged")
	assert.True(t, s2.AutoMarkAsked)
}

func TestApplyChoice_OnlyThis(t *testing.T) {
	l2, s2 := ApplyChoice(NewLedger(), settingsWith(false, false), domain.PathRambam3, day, 2, t1, ChoiceOnlyThis)
	assert.Equal(t, []int{2}, l2.DoneIndices(domain.PathRambam3, day))
	assert.False(t, s2.AutoMarkPrevious)
	assert.True(t, s2.AutoMarkAsked)
}

func TestApplyChoice_CancelLeavesEverythingUnchanged(t *testing.T) {
	l := NewLedger().MarkOne(domain.PathRambam3, day, 5, t1)
	s := settingsWith(false, false)

	l2, s2 := ApplyChoice(l, s, domain.PathRambam3, day, 2, t1, ChoiceCancel)
	assert.Equal(t, l, l2)
	assert.False(t, s2.AutoMarkAsked, "cancel records no decision, prompt may appear again")
	assert.False(t, s2.AutoMarkPrevious)
}

func TestApplyChoice_SharedTimestampAcrossRange(t *testing.T) {
	l2, _ := ApplyChoice(NewLedger(), settingsWith(false, false), domain.PathRambam3, day, 2, t1, ChoiceAlways)
	for i := 0; i <= 2; i++ {
		ts, ok := l2.CompletedAt(domain.PathRambam3, day, i)
		require.True(t, ok)
		assert.Equal(t, t1, ts)
	}
}

// TestAutoMarkProtocol_EndToEnd walks the documented scenario: three items,
// none done, setting off, never asked. Marking index 2 history-aware must
// prompt with two incomplete below; answering "always" marks everything and
// makes later history-aware marks silent.
func TestAutoMarkProtocol_EndToEnd(t *testing.T) {
	l := NewLedger()
	s := settingsWith(false, false)

	below := IncompleteBelow(l, domain.PathRambam3, day, 2)
	require.Equal(t, 2, below, "items 0 and 1 incomplete")
	require.Equal(t, DecisionPrompt, DecideAutoMark(s, below))

	l, s = ApplyChoice(l, s, domain.PathRambam3, day, 2, t1, ChoiceAlways)
	assert.Equal(t, []int{0, 1, 2}, l.DoneIndices(domain.PathRambam3, day))

	// Next day, same gesture: no prompt, silent range mark.
	below = IncompleteBelow(l, domain.PathRambam3, day2, 1)
	require.Equal(t, 1, below)
	assert.Equal(t, DecisionAutoMarkRange, DecideAutoMark(s, below))

	l = l.MarkThrough(domain.PathRambam3, day2, 1, time.Date(2026, 2, 4, 19, 0, 0, 0, time.UTC))
	assert.Equal(t, []int{0, 1}, l.DoneIndices(domain.PathRambam3, day2))
}

// TestAutoMarkProtocol_CancelThenAskedAgain verifies cancel does not
// suppress the prompt, while a real answer does.
func TestAutoMarkProtocol_CancelThenAskedAgain(t *testing.T) {
	l := NewLedger()
	s := settingsWith(false, false)

	l, s = ApplyChoice(l, s, domain.PathRambam3, day, 2, t1, ChoiceCancel)
	assert.Equal(t, DecisionPrompt, DecideAutoMark(s, 2), "cancel leaves the prompt armed")

	l, s = ApplyChoice(l, s, domain.PathRambam3, day, 2, t1, ChoiceOnlyThis)
	assert.Equal(t, []int{2}, l.DoneIndices(domain.PathRambam3, day))
	assert.Equal(t, DecisionMarkOnlyThis, DecideAutoMark(s, 2), "a recorded answer silences future prompts")
}

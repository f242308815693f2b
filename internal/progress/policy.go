package progress

import (
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// Decision is the outcome of the auto-mark-previous protocol for one
// history-aware mark gesture.
type Decision string

const (
	// DecisionAutoMarkRange marks 0..i silently (setting is on).
	DecisionAutoMarkRange Decision = "auto_mark_range"
	// DecisionPrompt asks the user what to do with the incomplete items.
	DecisionPrompt Decision = "prompt"
	// DecisionMarkOnlyThis marks just item i.
	DecisionMarkOnlyThis Decision = "mark_only_this"
)

// Choice is the user's answer to the auto-mark prompt.
type Choice string

const (
	// ChoiceAlways marks 0..i and turns the auto-mark setting on for good.
	ChoiceAlways Choice = "always"
	// ChoiceJustOnce marks 0..i without changing the setting.
	ChoiceJustOnce Choice = "just_once"
	// ChoiceOnlyThis marks item i alone.
	ChoiceOnlyThis Choice = "only_this"
	// ChoiceCancel aborts: no marks, and the prompt may appear again.
	ChoiceCancel Choice = "cancel"
)

// ValidChoices is the closed set of prompt answers.
var ValidChoices = map[string]bool{
	string(ChoiceAlways):   true,
	string(ChoiceJustOnce): true,
	string(ChoiceOnlyThis): true,
	string(ChoiceCancel):   true,
}

// IncompleteBelow counts the unmarked indices strictly below index for
// (path, day).
func IncompleteBelow(l Ledger, path domain.StudyPath, day domain.DayKey, index int) int {
	n := 0
	for i := 0; i < index; i++ {
		if !l.IsDone(path, day, i) {
			n++
		}
	}
	return n
}

// DecideAutoMark resolves what a history-aware mark of item i should do,
// given the user's settings and how many earlier items of the day are
// still incomplete. With nothing to backfill it is a plain single mark.
// Otherwise: setting on marks the range; setting off prompts once ever;
// after the prompt has been answered it quietly marks only the one item.
func DecideAutoMark(s domain.Settings, incompleteBelow int) Decision {
	if incompleteBelow <= 0 {
		return DecisionMarkOnlyThis
	}
	if s.AutoMarkPrevious {
		return DecisionAutoMarkRange
	}
	if !s.AutoMarkAsked {
		return DecisionPrompt
	}
	return DecisionMarkOnlyThis
}

// ApplyChoice applies the user's prompt answer for a history-aware mark of
// (path, day, index) and returns the updated ledger and settings. Every
// answer except cancel records that the prompt was asked; cancel records
// nothing, so the prompt can appear again.
func ApplyChoice(l Ledger, s domain.Settings, path domain.StudyPath, day domain.DayKey, index int, ts time.Time, choice Choice) (Ledger, domain.Settings) {
	switch choice {
	case ChoiceAlways:
		s.AutoMarkPrevious = true
		s.AutoMarkAsked = true
		return l.MarkThrough(path, day, index, ts), s
	case ChoiceJustOnce:
		s.AutoMarkAsked = true
		return l.MarkThrough(path, day, index, ts), s
	case ChoiceOnlyThis:
		s.AutoMarkAsked = true
		return l.MarkOne(path, day, index, ts), s
	default:
		return l, s
	}
}

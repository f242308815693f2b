package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/rabbishuki/rambam-sub001/internal/progress"
)

// askAutoMark runs the interactive four-way earlier-items question.
func askAutoMark(count int) (progress.Choice, error) {
	choice := progress.ChoiceCancel
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[progress.Choice]().
			Title(fmt.Sprintf("%d earlier item(s) are not marked. Mark them too?", count)).
			Options(
				huh.NewOption("Always (turn auto-mark on)", progress.ChoiceAlways),
				huh.NewOption("Just this once", progress.ChoiceJustOnce),
				huh.NewOption("Only this item", progress.ChoiceOnlyThis),
				huh.NewOption("Cancel", progress.ChoiceCancel),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return progress.ChoiceCancel, err
	}
	return choice, nil
}

// confirm runs a yes/no form for destructive operations.
func confirm(title string) (bool, error) {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Reset").
			Negative("Keep").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

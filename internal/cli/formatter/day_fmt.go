package formatter

import (
	"fmt"
	"strings"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/service"
)

// FormatDayCard renders one path's day header: portion name, Hebrew date,
// progress bar, and the source refs.
func FormatDayCard(card *service.DayCard, lang domain.Language) string {
	var b strings.Builder
	meta := card.Schedule

	b.WriteString(Header(meta.Path.DisplayName().Display(lang)))
	b.WriteString("\n")

	dateLine := string(meta.Day)
	if !meta.HebrewDate.Empty() {
		dateLine += "  " + Dim(meta.HebrewDate.Display(lang))
	}
	b.WriteString(dateLine + "\n")

	if !meta.Display.Empty() {
		b.WriteString(Bold(meta.Display.Display(lang)) + "\n")
	}

	pct := 0.0
	if meta.ItemCount > 0 {
		pct = card.Progress.Percent()
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", RenderProgress(pct, 20), RenderCount(card.Progress.Done, meta.ItemCount)))
	if card.Complete {
		b.WriteString(StyleGreen.Render("✔ day complete") + "\n")
	}

	for _, ref := range meta.Refs {
		line := "  " + ref.Ref
		if !ref.Title.Empty() {
			line += "  " + Dim(ref.Title.Display(lang))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatDayItems renders the item checklist grouped by source ref. A
// divider precedes each group after the first so disjoint refs read as
// separate blocks.
func FormatDayItems(card *service.DayCard, items []domain.StudyItem, lang domain.Language, hideCompleted bool) string {
	var b strings.Builder
	lastRef := -1
	for i, item := range items {
		done := i < len(card.Done) && card.Done[i]
		if hideCompleted && done {
			continue
		}
		if item.RefIndex != lastRef {
			if lastRef >= 0 {
				b.WriteString(Dim("  ────") + "\n")
			}
			lastRef = item.RefIndex
		}
		label := item.Text.Display(lang)
		if item.FirstInChapter && item.Chapter > 0 {
			label = fmt.Sprintf("%s %s", StylePurple.Render(fmt.Sprintf("Ch. %d", item.Chapter)), label)
		}
		b.WriteString(fmt.Sprintf("  %s %2d. %s\n", Checkbox(done), i+1, label))
	}
	if b.Len() == 0 {
		b.WriteString(Dim("  nothing to show") + "\n")
	}
	return b.String()
}

// FormatMarkOutcome renders the result line after a mark operation.
func FormatMarkOutcome(out *service.MarkOutcome) string {
	if !out.Applied {
		return Dim("nothing marked") + "\n"
	}
	if out.DayComplete {
		return StyleGreen.Render("✔ marked — day complete") + "\n"
	}
	return StyleGreen.Render("✔ marked") + "\n"
}

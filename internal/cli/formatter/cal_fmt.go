package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/service"
)

// FormatMonth renders a month grid with one aggregate glyph per day.
// Weeks run Sunday through Saturday, matching the Hebrew study week.
func FormatMonth(view *service.MonthView, today domain.DayKey) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s %d", view.Month, view.Year)))
	b.WriteString("\n")
	b.WriteString(Dim(" Su  Mo  Tu  We  Th  Fr  Sa") + "\n")

	cells := make(map[domain.DayKey]service.DayCell, len(view.Cells))
	for _, c := range view.Cells {
		cells[c.Day] = c
	}

	first := time.Date(view.Year, view.Month, 1, 0, 0, 0, 0, time.UTC)
	// Leading blanks up to the first weekday.
	b.WriteString(strings.Repeat("    ", int(first.Weekday())))

	last := first.AddDate(0, 1, -1).Day()
	for dom := 1; dom <= last; dom++ {
		d := domain.DayKeyOf(time.Date(view.Year, view.Month, dom, 12, 0, 0, 0, time.UTC))
		cell := cells[d]
		num := fmt.Sprintf("%2d", dom)
		if d == today {
			num = StyleHeader.Render(num)
		}
		b.WriteString(fmt.Sprintf("%s%s ", num, StateGlyph(cell.State)))

		wd := time.Date(view.Year, view.Month, dom, 12, 0, 0, 0, time.UTC).Weekday()
		if wd == time.Saturday && dom != last {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s complete  %s partial  %s untouched\n",
		StyleGreen.Render("●"), StyleYellow.Render("◐"), Dim("·")))
	return b.String()
}

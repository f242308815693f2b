package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/progress"
	"github.com/rabbishuki/rambam-sub001/internal/service"
)

func TestFormatMonth(t *testing.T) {
	view := &service.MonthView{Year: 2026, Month: time.February}
	for d := domain.DayKey("2026-02-01"); !d.After("2026-02-28"); d = d.Next() {
		view.Cells = append(view.Cells, service.DayCell{Day: d})
	}
	view.Cells[2].State = progress.AggregateComplete
	view.Cells[3].State = progress.AggregatePartial

	out := stripANSI(FormatMonth(view, "2026-02-04"))
	assert.Contains(t, out, "FEBRUARY 2026")
	assert.Contains(t, out, "Su  Mo  Tu  We  Th  Fr  Sa")
	assert.Contains(t, out, "3●")
	assert.Contains(t, out, "4◐")
	assert.Contains(t, out, "complete")

	// Feb 2026 starts on a Sunday and spans exactly four weeks.
	gridLines := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.ContainsAny(line, "●◐·") && !strings.Contains(line, "complete") {
			gridLines++
		}
	}
	require.Equal(t, 4, gridLines)
}

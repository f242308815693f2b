package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/progress"
	"github.com/rabbishuki/rambam-sub001/internal/service"
)

func TestFormatOverview(t *testing.T) {
	out := stripANSI(FormatOverview(&service.Overview{
		Today:      "2026-02-05",
		TodayState: progress.AggregatePartial,
		Paths: []service.PathOverview{
			{
				Path:        domain.PathRambam3,
				Display:     domain.PathRambam3.DisplayName(),
				Today:       progress.DayProgress{Done: 1, Total: 3},
				BacklogDays: 2,
				Streak:      4,
				TotalDone:   37,
			},
			{
				Path:    domain.PathMitzvot,
				Display: domain.PathMitzvot.DisplayName(),
				Today:   progress.DayProgress{Done: 0, Total: 0},
			},
		},
	}, domain.LangEnglish))

	assert.Contains(t, out, "STUDY OVERVIEW")
	assert.Contains(t, out, "2026-02-05")
	assert.Contains(t, out, "Rambam — 3 Chapters")
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "4 day(s)")
	assert.Contains(t, out, "2 day(s) behind")
	assert.Contains(t, out, "37 items")
	assert.Contains(t, out, "Sefer HaMitzvot")
	assert.Contains(t, out, "caught up")
}

func TestFormatSettings(t *testing.T) {
	cfg := domain.DefaultSettings()
	cfg.StartDates = map[domain.StudyPath]domain.DayKey{domain.PathRambam3: "2026-01-10"}
	out := stripANSI(FormatSettings(&cfg))

	assert.Contains(t, out, "SETTINGS")
	assert.Contains(t, out, "rambam3")
	assert.Contains(t, out, "fixed 18:00")
	assert.Contains(t, out, "start rambam3")
	assert.Contains(t, out, "2026-01-10")
}

func TestFormatSettings_Sunset(t *testing.T) {
	cfg := domain.DefaultSettings()
	cfg.Boundary = domain.BoundarySunset
	cfg.Latitude, cfg.Longitude = 31.778, 35.235
	out := stripANSI(FormatSettings(&cfg))
	assert.Contains(t, out, "sunset (31.778, 35.235)")
}

func TestFormatBookmarks(t *testing.T) {
	assert.Contains(t, stripANSI(FormatBookmarks(nil, domain.LangEnglish)), "no bookmarks")

	out := stripANSI(FormatBookmarks([]*domain.Bookmark{{
		ID:        "3f2504e0-4f89-11d3-9a0c-0305e82c3301",
		Path:      domain.PathRambam3,
		Day:       "2026-02-03",
		Index:     2,
		Note:      "look up the Kesef Mishneh",
		CreatedAt: time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC),
	}}, domain.LangEnglish))
	assert.Contains(t, out, "3f2504e0")
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "look up the Kesef Mishneh")
}

func TestRenderProgress(t *testing.T) {
	out := stripANSI(RenderProgress(0.5, 10))
	assert.Contains(t, out, "█████░░░░░")
	assert.Contains(t, out, "50%")

	assert.Contains(t, stripANSI(RenderProgress(-1, 10)), "0%")
	assert.Contains(t, stripANSI(RenderProgress(2, 10)), "100%")
}

func TestRenderCount(t *testing.T) {
	assert.Equal(t, "3/3", stripANSI(RenderCount(3, 3)))
	assert.Equal(t, "0/5", stripANSI(RenderCount(0, 5)))
}

package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/service"
)

// FormatOverview renders the stats dashboard: one block per active path.
func FormatOverview(out *service.Overview, lang domain.Language) string {
	var b strings.Builder
	b.WriteString(Header("study overview"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("today: %s  %s\n\n", Bold(string(out.Today)), StateGlyph(out.TodayState)))

	for _, p := range out.Paths {
		b.WriteString(Bold(p.Display.Display(lang)) + "\n")

		pct := 0.0
		if p.Today.Total > 0 {
			pct = p.Today.Percent()
		}
		b.WriteString(fmt.Sprintf("  today    %s  %s\n", RenderProgress(pct, 16), RenderCount(p.Today.Done, p.Today.Total)))

		streak := Dim("none")
		if p.Streak > 0 {
			streak = StyleGreen.Render(fmt.Sprintf("%d day(s)", p.Streak))
		}
		b.WriteString(fmt.Sprintf("  streak   %s\n", streak))

		backlog := StyleGreen.Render("caught up")
		if p.BacklogDays > 0 {
			backlog = StyleYellow.Render(fmt.Sprintf("%d day(s) behind", p.BacklogDays))
		}
		b.WriteString(fmt.Sprintf("  backlog  %s\n", backlog))
		b.WriteString(fmt.Sprintf("  total    %s\n\n", Bold(fmt.Sprintf("%d items", p.TotalDone))))
	}
	return b.String()
}

// FormatSettings renders the settings sheet.
func FormatSettings(cfg *domain.Settings) string {
	var b strings.Builder
	b.WriteString(Header("settings"))
	b.WriteString("\n")

	var paths []string
	for _, p := range cfg.ActivePaths {
		paths = append(paths, string(p))
	}
	b.WriteString(row("paths", strings.Join(paths, ", ")))
	b.WriteString(row("language", string(cfg.Language)))
	b.WriteString(row("auto-mark previous", onOff(cfg.AutoMarkPrevious)))
	b.WriteString(row("hide completed", onOff(cfg.HideCompleted)))

	boundary := fmt.Sprintf("fixed %02d:%02d", cfg.FixedHour, cfg.FixedMinute)
	if cfg.Boundary == domain.BoundarySunset {
		boundary = fmt.Sprintf("sunset (%.3f, %.3f)", cfg.Latitude, cfg.Longitude)
	}
	b.WriteString(row("day boundary", boundary))

	if len(cfg.StartDates) > 0 {
		var keys []string
		for p := range cfg.StartDates {
			keys = append(keys, string(p))
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(row("start "+k, string(cfg.StartDates[domain.StudyPath(k)])))
		}
	}
	return b.String()
}

// FormatBookmarks renders the bookmark list.
func FormatBookmarks(list []*domain.Bookmark, lang domain.Language) string {
	if len(list) == 0 {
		return Dim("no bookmarks") + "\n"
	}
	var b strings.Builder
	for _, bm := range list {
		b.WriteString(fmt.Sprintf("%s  %s %s #%d\n",
			Dim(shortID(bm.ID)),
			bm.Path.DisplayName().Display(lang),
			bm.Day, bm.Index+1))
		if bm.Note != "" {
			b.WriteString("          " + bm.Note + "\n")
		}
		b.WriteString("          " + Dim(bm.CreatedAt.Format(time.RFC3339)) + "\n")
	}
	return b.String()
}

// row pads before styling so ANSI codes don't skew the column.
func row(label, value string) string {
	return fmt.Sprintf("  %s %s\n", Dim(fmt.Sprintf("%-20s", label)), value)
}

func onOff(v bool) string {
	if v {
		return StyleGreen.Render("on")
	}
	return Dim("off")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

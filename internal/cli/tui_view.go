package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/rabbishuki/rambam-sub001/internal/cli/formatter"
	"github.com/rabbishuki/rambam-sub001/internal/dayclock"
)

type tuiKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	MarkTo   key.Binding
	NextPath key.Binding
	PrevPath key.Binding
	CopyRef  key.Binding
	Retry    key.Binding
	Today    key.Binding
	Calendar key.Binding
	Stats    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newTuiKeyMap() tuiKeyMap {
	return tuiKeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle item")),
		MarkTo:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "mark through")),
		NextPath: key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab/l", "next track")),
		PrevPath: key.NewBinding(key.WithKeys("shift+tab", "h"), key.WithHelp("h", "prev track")),
		CopyRef:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy ref")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry fetch")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Calendar: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "calendar")),
		Stats:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k tuiKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.MarkTo, k.NextPath, k.Calendar, k.Stats, k.Help, k.Quit}
}

func (k tuiKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.MarkTo},
		{k.NextPath, k.PrevPath, k.CopyRef, k.Retry},
		{k.Today, k.Calendar, k.Stats, k.Quit},
	}
}

func (m tuiModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.promptCount > 0 {
		b.WriteString(m.renderPrompt())
	} else if m.loading {
		b.WriteString(fmt.Sprintf("\n  %s fetching…\n", m.spin.View()))
	} else if m.loadErr != nil {
		b.WriteString(m.renderError())
	} else {
		switch m.view {
		case viewToday:
			b.WriteString(m.renderToday())
		case viewCalendar:
			if m.month != nil {
				b.WriteString(formatter.FormatMonth(m.month, m.today))
				b.WriteString(formatter.Dim("  h/l: previous/next month") + "\n")
			}
		case viewStats:
			if m.overview != nil {
				b.WriteString(formatter.FormatOverview(m.overview, m.lang))
			}
		}
	}

	if m.status != "" {
		b.WriteString("\n" + formatter.StyleBlue.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m tuiModel) renderHeader() string {
	title := formatter.StylePurple.Render("rambam")
	day := formatter.Bold(string(m.today))
	boundary := formatter.Dim(fmt.Sprintf("rolls %s", m.boundaryClock()))
	line := fmt.Sprintf("%s  %s  %s", title, day, boundary)
	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return line + "\n" + sep
}

// boundaryClock formats the wall-clock instant the study day rolls over.
// Under a sunset rule without data it shows the fixed fallback.
func (m tuiModel) boundaryClock() string {
	cfg, err := m.app.Settings.Get(context.Background())
	if err != nil {
		return "18:00"
	}
	at := dayclock.BoundaryFor(time.Now(), dayclock.FromSettings(*cfg), nil)
	return at.Format("15:04")
}

func (m tuiModel) renderToday() string {
	if m.card == nil {
		return formatter.Dim("  no schedule loaded") + "\n"
	}
	var b strings.Builder

	if len(m.paths) > 1 {
		var tabs []string
		for i, p := range m.paths {
			label := string(p)
			if i == m.pathIdx {
				label = formatter.StyleHeader.Render("[" + label + "]")
			} else {
				label = formatter.Dim(label)
			}
			tabs = append(tabs, label)
		}
		b.WriteString(strings.Join(tabs, " ") + "\n\n")
	}

	b.WriteString(formatter.FormatDayCard(m.card, m.lang))
	b.WriteString("\n")

	lastRef := -1
	for i, item := range m.items {
		done := i < len(m.card.Done) && m.card.Done[i]
		if m.hide && done && i != m.cursor {
			continue
		}
		if item.RefIndex != lastRef {
			if lastRef >= 0 {
				b.WriteString(formatter.Dim("  ────") + "\n")
			}
			lastRef = item.RefIndex
		}
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleHeader.Render("> ")
		}
		label := item.Text.Display(m.lang)
		if item.FirstInChapter && item.Chapter > 0 {
			label = fmt.Sprintf("%s %s", formatter.StylePurple.Render(fmt.Sprintf("Ch. %d", item.Chapter)), label)
		}
		b.WriteString(fmt.Sprintf("%s%s %2d. %s\n", cursor, formatter.Checkbox(done), i+1, label))
	}
	return b.String()
}

func (m tuiModel) renderError() string {
	msg := describeFetchError(m.loadErr, m.path(), m.today)
	var b strings.Builder
	b.WriteString("\n  " + formatter.StyleRed.Render("✗ "+msg.Error()) + "\n")
	b.WriteString("  " + formatter.Dim("press r to retry") + "\n")
	return b.String()
}

func (m tuiModel) renderPrompt() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Bold(fmt.Sprintf("%d earlier item(s) are not marked. Mark them too?", m.promptCount)) + "\n\n")
	for i, c := range promptChoices {
		cursor := "   "
		label := c.label
		if i == m.promptCursor {
			cursor = formatter.StyleHeader.Render(" > ")
			label = formatter.Bold(label)
		}
		b.WriteString(cursor + label + "\n")
	}
	b.WriteString("\n  " + formatter.Dim("enter: choose  esc: cancel") + "\n")
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package cli

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rabbishuki/rambam-sub001/internal/cli/formatter"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/progress"
	"github.com/rabbishuki/rambam-sub001/internal/service"
)

// writeClipboard is swapped out in tests; clipboard access needs a display.
var writeClipboard = clipboard.WriteAll

// runTUI starts the interactive program on the alternate screen.
func runTUI(app *App) error {
	p := tea.NewProgram(newTuiModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type tuiView int

const (
	viewToday tuiView = iota
	viewCalendar
	viewStats
)

// ── messages ────────────────────────────────────────────────────────────────

type dayLoadedMsg struct {
	path  domain.StudyPath
	day   domain.DayKey
	card  *service.DayCard
	items []domain.StudyItem
	err   error
}

type calLoadedMsg struct {
	view *service.MonthView
	err  error
}

type statsLoadedMsg struct {
	overview *service.Overview
	err      error
}

type markDoneMsg struct {
	outcome *service.MarkOutcome
	err     error
}

type clockTickMsg time.Time

type statusMsg string

// ── model ───────────────────────────────────────────────────────────────────

type tuiModel struct {
	app *App

	view  tuiView
	today domain.DayKey
	lang  domain.Language
	hide  bool

	paths   []domain.StudyPath
	pathIdx int

	card    *service.DayCard
	items   []domain.StudyItem
	cursor  int
	loadErr error
	loading bool

	// promptCount > 0 while the four-way earlier-items question is up.
	promptCount  int
	promptCursor int

	month    *service.MonthView
	calMonth time.Time
	overview *service.Overview

	status   string
	spin     spinner.Model
	help     help.Model
	keys     tuiKeyMap
	width    int
	height   int
	quitting bool
}

func newTuiModel(app *App) tuiModel {
	ctx := context.Background()

	cfg, err := app.Settings.Get(ctx)
	if err != nil {
		def := domain.DefaultSettings()
		cfg = &def
	}
	today := app.Study.Today(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StyleBlue

	return tuiModel{
		app:      app,
		today:    today,
		lang:     cfg.Language,
		hide:     cfg.HideCompleted,
		paths:    cfg.ActivePaths,
		calMonth: today.Time(),
		loading:  true,
		spin:     sp,
		help:     help.New(),
		keys:     newTuiKeyMap(),
	}
}

func (m tuiModel) path() domain.StudyPath {
	if len(m.paths) == 0 {
		return domain.PathRambam3
	}
	return m.paths[m.pathIdx]
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadDay(), minuteTick())
}

// ── commands ────────────────────────────────────────────────────────────────

func (m tuiModel) loadDay() tea.Cmd {
	app, path, day := m.app, m.path(), m.today
	return func() tea.Msg {
		ctx := context.Background()
		card, err := app.Study.DayCard(ctx, path, day)
		if err != nil {
			return dayLoadedMsg{path: path, day: day, err: err}
		}
		items, err := app.Study.DayItems(ctx, path, day)
		if err != nil {
			return dayLoadedMsg{path: path, day: day, err: err}
		}
		return dayLoadedMsg{path: path, day: day, card: card, items: items}
	}
}

func (m tuiModel) loadCalendar() tea.Cmd {
	app, month := m.app, m.calMonth
	return func() tea.Msg {
		view, err := app.Stats.CalendarMonth(context.Background(), month.Year(), month.Month())
		return calLoadedMsg{view: view, err: err}
	}
}

func (m tuiModel) loadStats() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		overview, err := app.Stats.Overview(context.Background())
		return statsLoadedMsg{overview: overview, err: err}
	}
}

func (m tuiModel) markThrough(choice *progress.Choice) tea.Cmd {
	app, path, day, index := m.app, m.path(), m.today, m.cursor
	return func() tea.Msg {
		out, err := app.Study.MarkThrough(context.Background(), path, day, index, choice)
		return markDoneMsg{outcome: out, err: err}
	}
}

func (m tuiModel) toggleItem() tea.Cmd {
	app, path, day, index := m.app, m.path(), m.today, m.cursor
	return func() tea.Msg {
		if _, err := app.Study.ToggleItem(context.Background(), path, day, index); err != nil {
			return markDoneMsg{err: err}
		}
		return markDoneMsg{outcome: &service.MarkOutcome{Applied: true}}
	}
}

func (m tuiModel) copyRef() tea.Cmd {
	if m.card == nil || len(m.card.Schedule.Refs) == 0 {
		return nil
	}
	ref := m.refUnderCursor()
	return func() tea.Msg {
		if err := writeClipboard(ref); err != nil {
			return statusMsg("clipboard unavailable")
		}
		return statusMsg("copied " + ref)
	}
}

// refUnderCursor resolves the source ref of the selected item.
func (m tuiModel) refUnderCursor() string {
	refs := m.card.Schedule.Refs
	if m.cursor < len(m.items) {
		ri := m.items[m.cursor].RefIndex
		if ri >= 0 && ri < len(refs) {
			return refs[ri].Ref
		}
	}
	return refs[0].Ref
}

func minuteTick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

// ── update ──────────────────────────────────────────────────────────────────

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case clockTickMsg:
		// The study day may have rolled over while the program sat open.
		next := m.app.Study.Today(context.Background())
		cmds := []tea.Cmd{minuteTick()}
		if next != m.today {
			m.today = next
			m.cursor = 0
			m.loading = true
			cmds = append(cmds, m.loadDay(), m.spin.Tick)
		}
		return m, tea.Batch(cmds...)

	case dayLoadedMsg:
		// Ignore results for a day or path no longer displayed.
		if msg.path != m.path() || msg.day != m.today {
			return m, nil
		}
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.card = msg.card
			m.items = msg.items
			if m.cursor >= len(m.items) {
				m.cursor = 0
			}
		}
		return m, nil

	case calLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.month = msg.view
		}
		return m, nil

	case statsLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.overview = msg.overview
		}
		return m, nil

	case markDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if msg.outcome != nil && msg.outcome.PromptRequired {
			m.promptCount = msg.outcome.IncompleteBelow
			m.promptCursor = 0
			return m, nil
		}
		if msg.outcome != nil && msg.outcome.DayComplete {
			m.status = "day complete"
		}
		return m, m.loadDay()

	case statusMsg:
		m.status = string(msg)
		return m, nil
	}

	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.promptCount > 0 {
		return m.handlePromptKey(msg)
	}

	m.status = ""
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case "t":
		m.view = viewToday
		m.loading = true
		return m, tea.Batch(m.loadDay(), m.spin.Tick)

	case "c":
		m.view = viewCalendar
		m.loading = true
		return m, tea.Batch(m.loadCalendar(), m.spin.Tick)

	case "s":
		m.view = viewStats
		m.loading = true
		return m, tea.Batch(m.loadStats(), m.spin.Tick)
	}

	switch m.view {
	case viewToday:
		return m.handleTodayKey(msg)
	case viewCalendar:
		return m.handleCalendarKey(msg)
	}
	return m, nil
}

func (m tuiModel) handleTodayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "tab", "l", "right":
		if len(m.paths) > 1 {
			m.pathIdx = (m.pathIdx + 1) % len(m.paths)
			m.cursor = 0
			m.loading = true
			return m, tea.Batch(m.loadDay(), m.spin.Tick)
		}
	case "shift+tab", "h", "left":
		if len(m.paths) > 1 {
			m.pathIdx = (m.pathIdx + len(m.paths) - 1) % len(m.paths)
			m.cursor = 0
			m.loading = true
			return m, tea.Batch(m.loadDay(), m.spin.Tick)
		}

	case " ":
		if m.card != nil && len(m.items) > 0 {
			return m, m.toggleItem()
		}
	case "enter":
		if m.card != nil && len(m.items) > 0 {
			return m, m.markThrough(nil)
		}
	case "y":
		return m, m.copyRef()

	case "r":
		if m.loadErr != nil {
			m.loading = true
			m.loadErr = nil
			return m, tea.Batch(m.loadDay(), m.spin.Tick)
		}
	}
	return m, nil
}

func (m tuiModel) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.calMonth = m.calMonth.AddDate(0, -1, 0)
	case "l", "right":
		m.calMonth = m.calMonth.AddDate(0, 1, 0)
	default:
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.loadCalendar(), m.spin.Tick)
}

// promptChoices is the display order of the four-way question.
var promptChoices = []struct {
	label  string
	choice progress.Choice
}{
	{"Always (turn auto-mark on)", progress.ChoiceAlways},
	{"Just this once", progress.ChoiceJustOnce},
	{"Only this item", progress.ChoiceOnlyThis},
	{"Cancel", progress.ChoiceCancel},
}

func (m tuiModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.promptCursor < len(promptChoices)-1 {
			m.promptCursor++
		}
	case "k", "up":
		if m.promptCursor > 0 {
			m.promptCursor--
		}
	case "enter":
		choice := promptChoices[m.promptCursor].choice
		m.promptCount = 0
		return m, m.markThrough(&choice)
	case "esc", "q":
		m.promptCount = 0
		choice := progress.ChoiceCancel
		return m, m.markThrough(&choice)
	}
	return m, nil
}

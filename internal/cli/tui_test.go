package cli

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/teatest"
)

func newTuiDriver(t *testing.T, app *App) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newTuiModel(app), teatest.WithSize(80, 24))
	d.DrainInit()
	return d
}

func view(d *teatest.Driver) string { return stripANSI(d.View()) }

func TestTui_ShowsTodayCardOnStartup(t *testing.T) {
	app, _ := newTestApp(t)
	d := newTuiDriver(t, app)

	out := view(d)
	assert.Contains(t, out, "rambam")
	assert.Contains(t, out, "RAMBAM — 3 CHAPTERS")
	assert.Contains(t, out, "0/3")
	assert.Contains(t, out, "[ ]  1.")
}

func TestTui_SpaceTogglesItemUnderCursor(t *testing.T) {
	app, _ := newTestApp(t)
	d := newTuiDriver(t, app)

	d.PressKey(' ')
	out := view(d)
	assert.Contains(t, out, "[x]  1.")
	assert.Contains(t, out, "1/3")

	d.PressKey(' ')
	assert.Contains(t, view(d), "0/3")
}

func TestTui_CursorMovesWithinItems(t *testing.T) {
	app, _ := newTestApp(t)
	d := newTuiDriver(t, app)

	d.PressKey('j')
	d.PressKey('j')
	d.PressKey('j') // clamped at the last item
	d.PressKey(' ')
	out := view(d)
	assert.Contains(t, out, "[x]  3.")
	assert.Contains(t, out, "1/3")
}

func TestTui_MarkThroughPromptFlow(t *testing.T) {
	app, _ := newTestApp(t)
	d := newTuiDriver(t, app)

	d.PressKey('j')
	d.PressKey('j')
	d.PressEnter()
	out := view(d)
	assert.Contains(t, out, "2 earlier item(s) are not marked")
	assert.Contains(t, out, "Always (turn auto-mark on)")

	// Choose "Always": everything through item 3 gets marked and the
	// setting flips on.
	d.PressEnter()
	out = view(d)
	assert.Contains(t, out, "3/3")
	assert.Contains(t, out, "✔ day complete")

	cfg, err := app.Settings.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.AutoMarkPrevious)
}

func TestTui_PromptEscCancelsWithoutMarking(t *testing.T) {
	app, _ := newTestApp(t)
	d := newTuiDriver(t, app)

	d.PressKey('j')
	d.PressKey('j')
	d.PressEnter()
	require.Contains(t, view(d), "earlier item(s)")

	d.PressEsc()
	out := view(d)
	assert.NotContains(t, out, "earlier item(s)")
	assert.Contains(t, out, "0/3")

	// Cancelling must not suppress the next prompt.
	d.PressEnter()
	assert.Contains(t, view(d), "earlier item(s)")
}

func TestTui_PromptOnlyThisMarksSingleItem(t *testing.T) {
	app, _ := newTestApp(t)
	d := newTuiDriver(t, app)

	d.PressKey('j')
	d.PressKey('j')
	d.PressEnter()
	d.PressKey('j')
	d.PressKey('j') // cursor on "Only this item"
	d.PressEnter()

	out := view(d)
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "[x]  3.")
	assert.Contains(t, out, "[ ]  1.")
}

func TestTui_TabCyclesActivePaths(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := app.Settings.SetPathActive(context.Background(), domain.PathMitzvot, true)
	require.NoError(t, err)

	d := newTuiDriver(t, app)
	require.Contains(t, view(d), "[rambam3]")

	d.SendKey(tea.KeyMsg{Type: tea.KeyTab})
	out := view(d)
	assert.Contains(t, out, "[mitzvot]")
	assert.Contains(t, out, "SEFER HAMITZVOT")
}

func TestTui_CalendarAndStatsViews(t *testing.T) {
	app, _ := newTestApp(t)
	d := newTuiDriver(t, app)

	d.PressKey('c')
	out := view(d)
	assert.Contains(t, out, "Su  Mo  Tu  We  Th  Fr  Sa")
	assert.Contains(t, out, "h/l: previous/next month")

	d.PressKey('s')
	out = view(d)
	assert.Contains(t, out, "STUDY OVERVIEW")
	assert.Contains(t, out, "streak")

	d.PressKey('t')
	assert.Contains(t, view(d), "[ ]  1.")
}

func TestTui_CopyRefSetsStatus(t *testing.T) {
	app, _ := newTestApp(t)

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	defer func() { writeClipboard = orig }()

	d := newTuiDriver(t, app)
	d.PressKey('y')

	assert.Contains(t, view(d), "copied Ref rambam3")
	assert.Contains(t, copied, "Ref rambam3")
}

func TestTui_CopyRefClipboardFailure(t *testing.T) {
	app, _ := newTestApp(t)

	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no display") }
	defer func() { writeClipboard = orig }()

	d := newTuiDriver(t, app)
	d.PressKey('y')

	assert.Contains(t, view(d), "clipboard unavailable")
}

func TestTui_FetchErrorOffersRetry(t *testing.T) {
	app, source := newTestApp(t)
	source.dayErr = errors.New("connection refused")

	d := newTuiDriver(t, app)
	out := view(d)
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "press r to retry")

	source.dayErr = nil
	d.PressKey('r')
	assert.Contains(t, view(d), "0/3")
}

func TestTui_QuitKeys(t *testing.T) {
	app, _ := newTestApp(t)

	d := newTuiDriver(t, app)
	d.PressKey('q')
	assert.True(t, d.Quitting)

	d = newTuiDriver(t, app)
	d.PressCtrlC()
	assert.True(t, d.Quitting)
}

func TestTui_HelpToggle(t *testing.T) {
	app, _ := newTestApp(t)
	d := newTuiDriver(t, app)

	d.PressKey('?')
	out := view(d)
	assert.Contains(t, out, "copy ref")
	assert.Contains(t, out, "retry fetch")
}

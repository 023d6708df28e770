package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/autoselect/internal/autoselect"
	"github.com/kingrea/autoselect/internal/catalog"
	"github.com/kingrea/autoselect/internal/config"
	"github.com/kingrea/autoselect/internal/logbook"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]autoselect.Item{
		{ID: "1", Title: "Ada Lovelace"},
		{ID: "2", Title: "Grace Hopper"},
		{ID: "3", Title: "Barbara Liskov"},
	})
}

func newTestApp(t *testing.T, names ...string) *App {
	t.Helper()
	src := testCatalog()
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{
			Name:  name,
			Label: strings.ToUpper(name[:1]) + name[1:],
			Editor: autoselect.New(
				autoselect.WithSource(src),
				autoselect.WithCursorMode(cursor.CursorStatic),
			),
		})
	}
	app := NewForm(fields)
	runCommands(t, app, app.Init())
	t.Cleanup(app.Close)
	return app
}

// runCommands executes cmd and everything it schedules, feeding messages
// back into the app. Spinner ticks are dropped since they reschedule forever.
func runCommands(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			model, follow := app.Update(msg)
			if model != app {
				t.Fatalf("unexpected model %T", model)
			}
			queue = append(queue, follow)
		}
	}
}

func press(t *testing.T, app *App, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	model, cmd := app.Update(msg)
	if model != app {
		t.Fatalf("unexpected model %T", model)
	}
	return cmd
}

func typeInto(t *testing.T, app *App, text string) {
	t.Helper()
	for _, r := range text {
		runCommands(t, app, press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}))
	}
}

func activeName(t *testing.T, app *App) string {
	t.Helper()
	field, ok := app.Active()
	if !ok {
		t.Fatalf("no active field")
	}
	return field.Name
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestInitFocusesFirstField(t *testing.T) {
	app := newTestApp(t, "owner", "project")
	if got := activeName(t, app); got != "owner" {
		t.Fatalf("active = %s, want owner", got)
	}
	if !app.Fields()[0].Editor.HasFocus() {
		t.Fatalf("first editor should hold focus")
	}
}

func TestTabMovesFocusAndWraps(t *testing.T) {
	app := newTestApp(t, "owner", "project", "reviewer")
	fields := app.Fields()

	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if got := activeName(t, app); got != "project" {
		t.Fatalf("tab should focus project, got %s", got)
	}
	if fields[0].Editor.HasFocus() {
		t.Fatalf("tab should blur the previous field")
	}
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if got := activeName(t, app); got != "owner" {
		t.Fatalf("tab on the last field should wrap, got %s", got)
	}
	press(t, app, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := activeName(t, app); got != "reviewer" {
		t.Fatalf("shift+tab on the first field should wrap, got %s", got)
	}
}

func TestActiveFieldFollowsFocusEvent(t *testing.T) {
	app := newTestApp(t, "owner", "project")
	app.Fields()[1].Editor.Focus()
	if got := activeName(t, app); got != "project" {
		t.Fatalf("focus event should move the active field, got %s", got)
	}
}

func TestPickSuggestionAndSubmit(t *testing.T) {
	app := newTestApp(t, "owner", "project")
	owner := app.Fields()[0].Editor

	typeInto(t, app, "gr")
	if !owner.MenuOpen() {
		t.Fatalf("matches should open the menu")
	}
	if cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter}); isQuit(cmd) {
		t.Fatalf("enter with an open menu must not quit")
	}
	if app.Submitted() {
		t.Fatalf("enter with an open menu picks a suggestion, it does not submit")
	}
	if id, state := owner.Value(); state != autoselect.ValueSelected || id != "2" {
		t.Fatalf("expected Grace Hopper selected, got %q %s", id, state)
	}

	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if !app.Submitted() {
		t.Fatalf("enter with a closed menu should submit: %s", app.statusMsg)
	}
	if diff := cmp.Diff(map[string]autoselect.ID{"owner": "2"}, app.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if app.state != stateSummary {
		t.Fatalf("submit should show the summary")
	}
	if len(app.summary.Items()) != 2 {
		t.Fatalf("summary should list every field, got %d", len(app.summary.Items()))
	}
}

func TestSubmitRejectsUnmatchedText(t *testing.T) {
	app := newTestApp(t, "owner", "project")
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	typeInto(t, app, "zzz")
	press(t, app, tea.KeyMsg{Type: tea.KeyShiftTab})

	press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	if app.Submitted() {
		t.Fatalf("unmatched text must block submission")
	}
	if !strings.Contains(app.statusMsg, "Project") {
		t.Fatalf("status should name the invalid field: %q", app.statusMsg)
	}
	if got := activeName(t, app); got != "project" {
		t.Fatalf("focus should move to the invalid field, got %s", got)
	}
	errs := app.Errors()
	if len(errs) != 1 || errs["project"] == nil {
		t.Fatalf("expected one error for project, got %v", errs)
	}
}

func TestEscClosesMenuBeforeQuitting(t *testing.T) {
	app := newTestApp(t, "owner")
	typeInto(t, app, "ada")
	if !app.Fields()[0].Editor.MenuOpen() {
		t.Fatalf("menu should be open")
	}
	if cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEsc}); isQuit(cmd) {
		t.Fatalf("esc with an open menu should only close it")
	}
	if app.Fields()[0].Editor.MenuOpen() {
		t.Fatalf("esc should close the menu")
	}
	if cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEsc}); !isQuit(cmd) {
		t.Fatalf("esc with a closed menu should quit")
	}
	if !app.Quitting() || app.Submitted() {
		t.Fatalf("quitting=%v submitted=%v", app.Quitting(), app.Submitted())
	}
}

func TestCtrlCQuits(t *testing.T) {
	app := newTestApp(t, "owner")
	if cmd := press(t, app, tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Fatalf("ctrl+c should quit")
	}
	if !app.Fields()[0].Editor.Closed() {
		t.Fatalf("quitting should close the editors")
	}
}

func TestSummaryEditReturnsToForm(t *testing.T) {
	app := newTestApp(t, "owner")
	press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !app.Submitted() {
		t.Fatalf("an empty form is valid")
	}
	if len(app.Values()) != 0 {
		t.Fatalf("empty fields should be omitted, got %v", app.Values())
	}
	press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if app.state != stateForm || app.Submitted() {
		t.Fatalf("e should reopen the form")
	}
	if !app.Fields()[0].Editor.HasFocus() {
		t.Fatalf("editing should refocus the field")
	}
}

func TestNonKeyMessagesReachEveryEditor(t *testing.T) {
	app := newTestApp(t, "owner", "project")
	project := app.Fields()[1].Editor
	cmd := project.Menu().Query("ba")
	if !project.Loading() {
		t.Fatalf("query should start a search")
	}
	runCommands(t, app, cmd)
	if project.Loading() || !project.MenuOpen() {
		t.Fatalf("resolution should be routed to the unfocused editor")
	}
}

func TestNewAppBuildsFieldsFromConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := config.InitDir(projectDir); err != nil {
		t.Fatalf("init dir: %v", err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	lb, err := logbook.Open(cfg.LogsDir())
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	app, err := NewApp(cfg, testCatalog(),
		WithLogbook(lb),
		WithEditorOptions(autoselect.WithCursorMode(cursor.CursorStatic)),
	)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(app.Close)
	runCommands(t, app, app.Init())

	var labels []string
	for _, f := range app.Fields() {
		labels = append(labels, f.Name+":"+f.Label)
	}
	if diff := cmp.Diff([]string{"owner:Owner", "project:Project"}, labels); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	lines, _ := lb.Tail(10)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Form opened", "Focus · Owner"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("logbook missing %q:\n%s", want, joined)
		}
	}
	if !strings.Contains(app.View(), "LOG · activity.log") {
		t.Fatalf("view should include the log panel")
	}
}

func TestNewAppRequiresConfigAndSource(t *testing.T) {
	if _, err := NewApp(nil, testCatalog()); err == nil {
		t.Fatalf("expected error without config")
	}
	if _, err := NewApp(&config.Config{}, nil); err == nil {
		t.Fatalf("expected error without source")
	}
}

func TestViewShowsLabelsAndHelp(t *testing.T) {
	app := newTestApp(t, "owner", "project")
	view := app.View()
	for _, want := range []string{"AUTOSELECT", "› Owner", "Project", "next field"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

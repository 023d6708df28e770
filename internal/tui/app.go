// internal/tui/app.go
//
// This is the host form for autoselect fields.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the form state (fields, active field, submitted values)
// 2. Update: keys go to the active editor, everything else is broadcast
// 3. View: labels, editors, the activity log and a help line
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/autoselect/internal/autoselect"
	"github.com/kingrea/autoselect/internal/config"
	"github.com/kingrea/autoselect/internal/logbook"
)

// appState represents which "screen" we're on
type appState int

const (
	stateForm    appState = iota // Editing fields
	stateSummary                 // Reviewing submitted values
)

const logTailLines = 6

// Field is one labelled autoselect editor on the form.
type Field struct {
	Name   string
	Label  string
	Editor *autoselect.Editor
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogbook records focus changes, searches and submissions.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		if lb != nil {
			a.logbook = lb
		}
	}
}

// WithEditorOptions appends options to every editor NewApp builds.
func WithEditorOptions(opts ...autoselect.Option) AppOption {
	return func(a *App) {
		a.editorOpts = append(a.editorOpts, opts...)
	}
}

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
	Quit   key.Binding
	Edit   key.Binding
	Done   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit: key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter/ctrl+s", "submit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit again")),
		Done:   key.NewBinding(key.WithKeys("enter", "q", "esc"), key.WithHelp("enter/q", "done")),
	}
}

// ShortHelp implements help.KeyMap for the form screen.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

// FullHelp implements help.KeyMap for the form screen.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Submit, k.Cancel, k.Quit}}
}

func (k keyMap) summaryHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Done}
}

// summaryItem implements list.Item for one submitted field.
type summaryItem struct {
	label string
	title string
	id    autoselect.ID
	state autoselect.ValueState
}

func (i summaryItem) Title() string { return i.label }

func (i summaryItem) Description() string {
	if i.state != autoselect.ValueSelected {
		return "(empty)"
	}
	return fmt.Sprintf("%s · id %s", i.title, i.id)
}

func (i summaryItem) FilterValue() string { return i.label }

// App is the form model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	fields  []Field
	active  int
	logbook *logbook.Logbook

	editorOpts  []autoselect.Option
	unsubscribe []func()

	keys    keyMap
	help    help.Model
	summary list.Model

	values    map[string]autoselect.ID
	submitted bool
	quitting  bool
	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp builds one editor per configured field, each searching src.
func NewApp(cfg *config.Config, src autoselect.Source, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, errors.New("tui: config is required")
	}
	if src == nil {
		return nil, errors.New("tui: source is required")
	}
	app := newApp(opts)
	fields := make([]Field, 0, len(cfg.Fields()))
	for _, fc := range cfg.Fields() {
		editorOpts := []autoselect.Option{
			autoselect.WithSource(src),
			autoselect.WithPlaceholder(fc.Placeholder),
		}
		if app.logbook != nil {
			editorOpts = append(editorOpts, autoselect.WithLogger(app.logbook))
		}
		editorOpts = append(editorOpts, app.editorOpts...)
		fields = append(fields, Field{
			Name:   fc.Name,
			Label:  fc.Label,
			Editor: autoselect.New(editorOpts...),
		})
	}
	app.attach(fields)
	app.logInfo("Form opened · %d field(s) · source: %s", len(fields), cfg.Project.Source.Kind)
	return app, nil
}

// NewForm hosts editors the caller already built.
func NewForm(fields []Field, opts ...AppOption) *App {
	app := newApp(opts)
	app.attach(fields)
	return app
}

func newApp(opts []AppOption) *App {
	summary := list.New(nil, list.NewDefaultDelegate(), 60, 12)
	summary.Title = "Submitted values"
	summary.SetShowStatusBar(false)
	summary.SetFilteringEnabled(false)
	summary.SetShowHelp(false)

	app := &App{
		state:   stateForm,
		active:  -1,
		keys:    defaultKeyMap(),
		help:    help.New(),
		summary: summary,
		values:  map[string]autoselect.ID{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app
}

// attach subscribes to every editor's focus event so the active field
// follows focus however it was obtained.
func (a *App) attach(fields []Field) {
	a.fields = append([]Field(nil), fields...)
	for i := range a.fields {
		idx := i
		if a.fields[idx].Label == "" {
			a.fields[idx].Label = a.fields[idx].Name
		}
		off := a.fields[idx].Editor.On(autoselect.EventFocus, func(*autoselect.Editor) {
			a.setActive(idx)
		})
		a.unsubscribe = append(a.unsubscribe, off)
	}
}

func (a *App) setActive(idx int) {
	if idx == a.active {
		return
	}
	a.active = idx
	a.logInfo("Focus · %s", a.fields[idx].Label)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

// Fields returns the hosted fields in display order.
func (a *App) Fields() []Field {
	return append([]Field(nil), a.fields...)
}

// Active returns the field that last received focus.
func (a *App) Active() (Field, bool) {
	if a.active < 0 || a.active >= len(a.fields) {
		return Field{}, false
	}
	return a.fields[a.active], true
}

// Submitted reports whether the form passed validation and was submitted.
func (a *App) Submitted() bool { return a.submitted }

// Quitting reports whether the user left the form.
func (a *App) Quitting() bool { return a.quitting }

// Values returns the selected id of every field that holds a selection,
// keyed by field name. Fields left empty are omitted.
func (a *App) Values() map[string]autoselect.ID {
	out := make(map[string]autoselect.ID, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// Errors returns the validation error of every invalid field, keyed by name.
func (a *App) Errors() map[string]error {
	out := map[string]error{}
	for _, f := range a.fields {
		if err := f.Editor.Err(); err != nil {
			out[f.Name] = err
		}
	}
	return out
}

// Close detaches from and closes every editor.
func (a *App) Close() {
	for _, off := range a.unsubscribe {
		off()
	}
	a.unsubscribe = nil
	for _, f := range a.fields {
		f.Editor.Close()
	}
}

// Init focuses the first field.
func (a *App) Init() tea.Cmd {
	return a.focusField(0)
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.summary.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		return a, nil

	case tea.KeyMsg:
		if a.state == stateSummary {
			return a.updateSummary(msg)
		}
		return a.updateForm(msg)
	}

	return a, a.broadcast(msg)
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current := a.currentEditor()
	menuOpen := current != nil && current.MenuOpen()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Cancel) && !menuOpen:
		return a.quit()
	case key.Matches(msg, a.keys.Next):
		return a, a.moveFocus(1)
	case key.Matches(msg, a.keys.Prev):
		return a, a.moveFocus(-1)
	case key.Matches(msg, a.keys.Submit) && !(menuOpen && msg.Type == tea.KeyEnter):
		return a.submit()
	}

	if current == nil {
		return a, nil
	}
	return a, current.Update(msg)
}

func (a *App) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit), key.Matches(msg, a.keys.Done):
		return a.quit()
	case key.Matches(msg, a.keys.Edit):
		a.state = stateForm
		a.submitted = false
		a.statusMsg = "Editing"
		a.logInfo("Editing submitted form")
		return a, a.focusField(max(0, a.active))
	}
	var cmd tea.Cmd
	a.summary, cmd = a.summary.Update(msg)
	return a, cmd
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.fields))
	for _, f := range a.fields {
		cmds = append(cmds, f.Editor.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (a *App) currentEditor() *autoselect.Editor {
	if field, ok := a.Active(); ok {
		return field.Editor
	}
	return nil
}

// focusField blurs the active field and focuses fields[idx]. The focus event
// updates the active index.
func (a *App) focusField(idx int) tea.Cmd {
	if idx < 0 || idx >= len(a.fields) {
		return nil
	}
	if a.active >= 0 && a.active != idx {
		a.fields[a.active].Editor.Blur()
	}
	return a.fields[idx].Editor.Focus()
}

func (a *App) moveFocus(delta int) tea.Cmd {
	n := len(a.fields)
	if n == 0 {
		return nil
	}
	next := 0
	if a.active >= 0 {
		next = (a.active + delta + n) % n
	}
	return a.focusField(next)
}

func (a *App) submit() (tea.Model, tea.Cmd) {
	var invalid []string
	first := -1
	for i, f := range a.fields {
		f.Editor.HandleValidation()
		if !f.Editor.Valid() {
			invalid = append(invalid, f.Label)
			if first < 0 {
				first = i
			}
		}
	}
	if len(invalid) > 0 {
		a.statusMsg = fmt.Sprintf("⚠ Pick a suggestion for %s", strings.Join(invalid, ", "))
		a.logWarn("Submit rejected · unmatched text in %s", strings.Join(invalid, ", "))
		return a, a.focusField(first)
	}

	values := map[string]autoselect.ID{}
	items := make([]list.Item, 0, len(a.fields))
	for _, f := range a.fields {
		id, state := f.Editor.Value()
		if state == autoselect.ValueSelected {
			values[f.Name] = id
		}
		items = append(items, summaryItem{label: f.Label, title: f.Editor.Text(), id: id, state: state})
	}
	if a.active >= 0 {
		a.fields[a.active].Editor.Blur()
	}
	a.values = values
	a.submitted = true
	a.state = stateSummary
	a.summary.SetItems(items)
	a.statusMsg = fmt.Sprintf("Submitted %d value(s)", len(values))
	a.logInfo("Submitted · %s", formatValues(values))
	return a, nil
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	if !a.submitted {
		a.logInfo("Form closed without submitting")
	}
	a.quitting = true
	a.Close()
	return a, tea.Quit
}

// View renders the current screen.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ AUTOSELECT")

	var content, helpLine string
	if a.state == stateSummary {
		content = a.summary.View()
		helpLine = a.help.ShortHelpView(a.keys.summaryHelp())
	} else {
		content = a.renderFields()
		helpLine = a.help.View(a.keys)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(content)

	sections := []string{header, box}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	if a.statusMsg != "" {
		footer := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			Render(a.statusMsg)
		sections = append(sections, footer)
	}
	sections = append(sections, helpLine)
	return strings.Join(sections, "\n")
}

func (a *App) renderFields() string {
	if len(a.fields) == 0 {
		return "No fields configured."
	}
	activeLabel := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	idleLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	blocks := make([]string, 0, len(a.fields))
	for i, f := range a.fields {
		label := idleLabel.Render(f.Label)
		if i == a.active {
			label = activeLabel.Render("› " + f.Label)
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, label, f.Editor.View()))
	}
	return strings.Join(blocks, "\n\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logTailLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func formatValues(values map[string]autoselect.ID) string {
	if len(values) == 0 {
		return "no selections"
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, values[name]))
	}
	return strings.Join(parts, " ")
}

package suggest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultMinLength = 1
	defaultMaxRows   = 6
)

// KeyMap holds the bindings the menu reacts to while it is open.
type KeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Accept  key.Binding
	Dismiss key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next suggestion")),
		Prev:    key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev suggestion")),
		Accept:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick suggestion")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close suggestions")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Accept, k.Dismiss}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Styles controls how the dropdown renders.
type Styles struct {
	Frame   lipgloss.Style
	Item    lipgloss.Style
	Current lipgloss.Style
	More    lipgloss.Style
}

// DefaultStyles returns the default dropdown theme.
func DefaultStyles() Styles {
	return Styles{
		Frame:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		Item:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Current: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true),
		More:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}

// Option customizes a Menu.
type Option func(*Menu)

// WithMinLength sets how many characters a term needs before a search runs.
func WithMinLength(n int) Option {
	return func(m *Menu) {
		if n >= 0 {
			m.minLength = n
		}
	}
}

// WithMaxRows limits how many candidates render at once.
func WithMaxRows(n int) Option {
	return func(m *Menu) {
		if n > 0 {
			m.maxRows = n
		}
	}
}

// WithKeyMap overrides the default bindings.
func WithKeyMap(km KeyMap) Option {
	return func(m *Menu) {
		m.keys = km
	}
}

// WithStyles overrides the default theme.
func WithStyles(s Styles) Option {
	return func(m *Menu) {
		m.styles = s
	}
}

// Menu is the dropdown attached to an input field.
type Menu struct {
	handlers  Handlers
	keys      KeyMap
	styles    Styles
	minLength int
	maxRows   int

	term    string
	items   []Item
	cursor  int
	visible bool
}

// NewMenu creates a closed menu that reports to h.
func NewMenu(h Handlers, opts ...Option) *Menu {
	m := &Menu{
		handlers:  h,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		minLength: defaultMinLength,
		maxRows:   defaultMaxRows,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Handlers returns the callbacks the menu drives.
func (m *Menu) Handlers() Handlers { return m.handlers }

// KeyMap returns the active bindings.
func (m *Menu) KeyMap() KeyMap { return m.keys }

// Term returns the most recent query term.
func (m *Menu) Term() string { return m.term }

// Query starts a search for term. Terms shorter than the minimum length close
// the menu instead.
func (m *Menu) Query(term string) tea.Cmd {
	m.term = term
	if m.handlers == nil || utf8.RuneCountInString(strings.TrimSpace(term)) < m.minLength {
		m.Close()
		return nil
	}
	if !m.handlers.Search(term) {
		return nil
	}
	return m.handlers.Source(Request{Term: term}, m.Open)
}

// Open shows items. An empty list closes the menu.
func (m *Menu) Open(items []Item) {
	m.items = append([]Item(nil), items...)
	m.cursor = 0
	m.visible = len(m.items) > 0
	if m.visible && m.handlers != nil {
		m.handlers.Highlight(m.items[0])
	}
}

// Close hides the menu and forgets its candidates.
func (m *Menu) Close() {
	m.items = nil
	m.cursor = 0
	m.visible = false
}

// Visible reports whether the menu is open.
func (m *Menu) Visible() bool { return m.visible }

// Items returns the candidates currently offered.
func (m *Menu) Items() []Item { return m.items }

// Current returns the highlighted candidate.
func (m *Menu) Current() (Item, bool) {
	if !m.visible || m.cursor < 0 || m.cursor >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.cursor], true
}

// Next highlights the following candidate, wrapping at the end.
func (m *Menu) Next() {
	m.move(1)
}

// Prev highlights the previous candidate, wrapping at the start.
func (m *Menu) Prev() {
	m.move(-1)
}

func (m *Menu) move(delta int) {
	if !m.visible || len(m.items) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.items)) % len(m.items)
	if m.handlers != nil {
		m.handlers.Highlight(m.items[m.cursor])
	}
}

// HandleKey reacts to navigation keys while the menu is open. It reports
// whether the key was consumed.
func (m *Menu) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !m.visible {
		return false, nil
	}
	switch {
	case key.Matches(msg, m.keys.Next):
		m.Next()
		return true, nil
	case key.Matches(msg, m.keys.Prev):
		m.Prev()
		return true, nil
	case key.Matches(msg, m.keys.Dismiss):
		m.Close()
		return true, nil
	case key.Matches(msg, m.keys.Accept):
		item, ok := m.Current()
		if !ok {
			return false, nil
		}
		m.Close()
		if m.handlers == nil {
			return true, nil
		}
		return true, m.handlers.Select(item)
	}
	return false, nil
}

// View renders the open menu, or nothing when closed.
func (m *Menu) View() string {
	if !m.visible {
		return ""
	}
	start, end := m.window()
	rows := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		label := m.items[i].Label
		if i == m.cursor {
			rows = append(rows, m.styles.Current.Render("> "+label))
			continue
		}
		rows = append(rows, m.styles.Item.Render("  "+label))
	}
	if hidden := len(m.items) - (end - start); hidden > 0 {
		rows = append(rows, m.styles.More.Render(pluralMore(hidden)))
	}
	return m.styles.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// window keeps the cursor inside the rendered slice.
func (m *Menu) window() (int, int) {
	if len(m.items) <= m.maxRows {
		return 0, len(m.items)
	}
	start := m.cursor - m.maxRows + 1
	if start < 0 {
		start = 0
	}
	return start, start + m.maxRows
}

func pluralMore(n int) string {
	return fmt.Sprintf("  %d more", n)
}

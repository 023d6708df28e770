package autoselect

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/autoselect/internal/suggest"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// Editor is a single-line field that binds the id of an item picked from a
// searchable source while displaying the item's title.
//
// All methods must be called from the Bubble Tea event loop. The only
// suspension point is the search command returned by HandleSearch.
type Editor struct {
	id        int
	input     textinput.Model
	spinner   spinner.Model
	menu      *suggest.Menu
	menuOpts  []suggest.Option
	source    Source
	ctx       context.Context
	logger    Logger
	styles    Styles
	inputType InputType

	state ValueState
	value ID
	// selectedItemID is the back-reference hosts read to confirm a selection
	// without parsing the display text. nil means absent.
	selectedItemID *ID

	loading bool
	seq     uint64
	markers markerSet

	highlight string

	listeners    map[Event][]listenerEntry
	nextListener int
	closed       bool
}

// New creates an editor in its default state: value unset, empty text,
// input type text.
func New(opts ...Option) *Editor {
	e := &Editor{
		id:        nextID(),
		input:     textinput.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		source:    emptySource{},
		ctx:       context.Background(),
		logger:    nopLogger{},
		styles:    DefaultStyles(),
		inputType: TypeText,
		markers:   markerSet{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.input.EchoMode = e.inputType.echoMode()
	e.menu = suggest.NewMenu(e, e.menuOpts...)
	return e
}

// ID returns the unique id of this editor instance.
func (e *Editor) ID() int { return e.id }

// Type returns the input surface type.
func (e *Editor) Type() InputType { return e.inputType }

// Handlers exposes the suggestion callbacks the menu drives.
func (e *Editor) Handlers() suggest.Handlers { return e.menu.Handlers() }

// Menu returns the attached suggestion menu.
func (e *Editor) Menu() *suggest.Menu { return e.menu }

// MenuOpen reports whether suggestions are showing.
func (e *Editor) MenuOpen() bool { return e.menu.Visible() }

// Loading reports whether a search is outstanding.
func (e *Editor) Loading() bool { return e.loading }

// Closed reports whether Close has been called.
func (e *Editor) Closed() bool { return e.closed }

// Init implements the Bubble Tea component contract.
func (e *Editor) Init() tea.Cmd {
	return nil
}

// Update handles key presses, search resolutions and spinner ticks.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if e.closed {
		return nil
	}
	switch msg := msg.(type) {
	case searchResolvedMsg:
		if msg.editorID != e.id {
			return nil
		}
		e.resolveSearch(msg)
		return nil

	case spinner.TickMsg:
		if !e.loading {
			return nil
		}
		var cmd tea.Cmd
		e.spinner, cmd = e.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if !e.input.Focused() {
			return nil
		}
		if handled, cmd := e.menu.HandleKey(msg); handled {
			return cmd
		}
		before := e.input.Value()
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		if after := e.input.Value(); after != before {
			e.DeselectValue()
			return tea.Batch(cmd, e.menu.Query(after))
		}
		return cmd
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

// View renders the input, its marker decorations and any open suggestions.
func (e *Editor) View() string {
	line := e.input.View()
	switch {
	case e.loading:
		line += " " + e.styles.Loading.Render(e.spinner.View())
	case e.markers.has(MarkerSelected):
		line += " " + e.styles.Selected.Render("✓")
	}
	if e.markers.has(MarkerError) {
		line = e.styles.Error.Render(line) + "  " + e.styles.Error.Render("pick a suggestion")
	}
	line = e.styles.Input.Render(line)
	if e.menu.Visible() {
		return lipgloss.JoinVertical(lipgloss.Left, line, e.menu.View())
	}
	return line
}

// Close detaches listeners and releases the input. The editor ignores
// messages afterwards.
func (e *Editor) Close() {
	e.listeners = nil
	e.input.Blur()
	e.menu.Close()
	e.closed = true
}

type emptySource struct{}

func (emptySource) Search(context.Context, string) (Response, error) {
	return Response{Items: []Item{}}, nil
}

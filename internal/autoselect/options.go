package autoselect

import (
	"context"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/autoselect/internal/suggest"
)

// InputType mirrors the kind of input surface the editor renders.
type InputType string

const (
	TypeText     InputType = "text"
	TypePassword InputType = "password"
)

func (t InputType) echoMode() textinput.EchoMode {
	if t == TypePassword {
		return textinput.EchoPassword
	}
	return textinput.EchoNormal
}

// Logger receives search and selection activity. *logbook.Logbook satisfies it.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Styles decorates the input according to its markers.
type Styles struct {
	Input    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Loading  lipgloss.Style
	Hint     lipgloss.Style
}

// DefaultStyles returns the default theme.
func DefaultStyles() Styles {
	return Styles{
		Input:    lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Loading:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Hint:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Option customizes an Editor.
type Option func(*Editor)

// WithSource sets where searches are resolved.
func WithSource(src Source) Option {
	return func(e *Editor) {
		if src != nil {
			e.source = src
		}
	}
}

// WithContext bounds every search issued by the editor.
func WithContext(ctx context.Context) Option {
	return func(e *Editor) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// WithLogger records searches and selections.
func WithLogger(l Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithType switches the input surface type.
func WithType(t InputType) Option {
	return func(e *Editor) {
		if t != "" {
			e.inputType = t
		}
	}
}

// WithPlaceholder sets the text shown while the input is empty.
func WithPlaceholder(text string) Option {
	return func(e *Editor) {
		e.input.Placeholder = text
	}
}

// WithPrompt sets the prompt drawn before the input.
func WithPrompt(prompt string) Option {
	return func(e *Editor) {
		e.input.Prompt = prompt
	}
}

// WithWidth sets the visible width of the input.
func WithWidth(width int) Option {
	return func(e *Editor) {
		if width > 0 {
			e.input.Width = width
		}
	}
}

// WithCursorMode sets how the input cursor renders. Tests use
// cursor.CursorStatic so no blink timers are scheduled.
func WithCursorMode(mode cursor.Mode) Option {
	return func(e *Editor) {
		_ = e.input.Cursor.SetMode(mode)
	}
}

// WithStyles overrides the marker theme.
func WithStyles(s Styles) Option {
	return func(e *Editor) {
		e.styles = s
	}
}

// WithMenuOptions forwards options to the suggestion menu.
func WithMenuOptions(opts ...suggest.Option) Option {
	return func(e *Editor) {
		e.menuOpts = append(e.menuOpts, opts...)
	}
}

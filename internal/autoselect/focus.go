package autoselect

import tea "github.com/charmbracelet/bubbletea"

// Focus moves input focus onto the editor and emits EventFocus with the
// editor as payload. The returned command starts the cursor blink.
func (e *Editor) Focus() tea.Cmd {
	if e.closed {
		return nil
	}
	cmd := e.input.Focus()
	e.emit(EventFocus)
	return cmd
}

// Blur releases input focus, closes the suggestions and revalidates.
func (e *Editor) Blur() {
	if e.closed {
		return
	}
	e.input.Blur()
	e.menu.Close()
	e.highlight = ""
	e.HandleValidation()
}

// HasFocus reports whether the input holds focus.
func (e *Editor) HasFocus() bool {
	return e.input.Focused()
}

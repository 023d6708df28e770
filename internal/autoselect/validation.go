package autoselect

import (
	"errors"
	"fmt"
)

// ErrUnmatchedText reports text that no committed selection backs.
var ErrUnmatchedText = errors.New("autoselect: text does not match a selection")

// HandleValidation recomputes the error marker:
//
//	empty text               -> valid
//	text without a selection -> invalid
//	text with a selection    -> valid
//
// Required-ness is left to the host form.
func (e *Editor) HandleValidation() {
	e.markers.set(MarkerError, !e.valid())
}

func (e *Editor) valid() bool {
	if e.input.Value() == "" {
		return true
	}
	return e.state == ValueSelected
}

// Valid reports whether the error marker is clear.
func (e *Editor) Valid() bool {
	return !e.markers.has(MarkerError)
}

// Err returns ErrUnmatchedText when the field is marked invalid.
func (e *Editor) Err() error {
	if e.Valid() {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnmatchedText, e.input.Value())
}

// Package suggest provides the suggestion dropdown that drives an input field.
//
// The dropdown owns no data. Whoever embeds it implements Handlers, and the
// dropdown calls back into those four operations as the user types,
// highlights and picks candidates.
package suggest

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Item is a single candidate shown in the dropdown.
type Item struct {
	ID    string
	Label string
	// Value carries the embedder's original record so Select can commit it
	// without a lookup.
	Value any
}

// Request describes one search.
type Request struct {
	Term string
}

// RenderFunc receives the candidates for a request.
type RenderFunc func(items []Item)

// Handlers is implemented by the field that embeds a Menu.
type Handlers interface {
	// Search runs before every query; returning false cancels it.
	Search(term string) bool
	// Source produces candidates for req and eventually hands them to render.
	// The returned command performs any asynchronous work.
	Source(req Request, render RenderFunc) tea.Cmd
	// Highlight reports that item is now the focused candidate.
	Highlight(item Item)
	// Select commits item as the field's choice.
	Select(item Item) tea.Cmd
}

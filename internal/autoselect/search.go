package autoselect

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kingrea/autoselect/internal/suggest"
)

// searchResolvedMsg carries one source resolution back to the event loop.
type searchResolvedMsg struct {
	editorID  int
	seq       uint64
	requestID string
	term      string
	resp      Response
	err       error
	render    func([]Item)
}

// HandleSearch marks the editor as loading and returns the command that asks
// the source for req.Term. When the command's message reaches Update, the
// loading marker is cleared and render is called exactly once with the
// resolved items.
//
// Overlapping searches are independent. Only the resolution of the most
// recently issued search clears the loading marker. A source error is logged
// and never reaches render, so the editor stays loading.
func (e *Editor) HandleSearch(req suggest.Request, render func([]Item)) tea.Cmd {
	e.seq++
	msg := searchResolvedMsg{
		editorID:  e.id,
		seq:       e.seq,
		requestID: uuid.NewString(),
		term:      req.Term,
		render:    render,
	}
	e.setLoading(true)
	e.logger.Info("search %s term=%q", msg.requestID, req.Term)

	src, ctx := e.source, e.ctx
	return func() tea.Msg {
		msg.resp, msg.err = src.Search(ctx, msg.term)
		return msg
	}
}

func (e *Editor) resolveSearch(msg searchResolvedMsg) {
	if msg.err != nil {
		e.logger.Warn("search %s term=%q failed: %v", msg.requestID, msg.term, msg.err)
		return
	}
	if msg.seq == e.seq {
		e.setLoading(false)
	}
	items := msg.resp.Items
	if items == nil {
		items = []Item{}
	}
	e.logger.Info("search %s resolved with %d items", msg.requestID, len(items))
	if msg.render != nil {
		msg.render(items)
	}
}

func (e *Editor) setLoading(on bool) {
	e.loading = on
	e.markers.set(MarkerLoading, on)
}

// Search implements suggest.Handlers. Blank terms never reach the source.
func (e *Editor) Search(term string) bool {
	return !e.closed && strings.TrimSpace(term) != ""
}

// Source implements suggest.Handlers. Results from a search that has since
// been superseded are not shown.
func (e *Editor) Source(req suggest.Request, render suggest.RenderFunc) tea.Cmd {
	want := e.seq + 1
	search := e.HandleSearch(req, func(items []Item) {
		if want != e.seq {
			return
		}
		render(toSuggestions(items))
	})
	return tea.Batch(search, e.spinner.Tick)
}

// Highlight implements suggest.Handlers. The highlighted title is shown as
// a hint; the typed text is left alone.
func (e *Editor) Highlight(item suggest.Item) {
	e.highlight = item.Label
}

// Select implements suggest.Handlers.
func (e *Editor) Select(item suggest.Item) tea.Cmd {
	picked, ok := item.Value.(Item)
	if !ok {
		picked = Item{ID: ID(item.ID), Title: item.Label}
	}
	e.SetValue(picked)
	e.highlight = ""
	return nil
}

// Highlighted returns the title of the highlighted suggestion, if any.
func (e *Editor) Highlighted() string {
	if !e.menu.Visible() {
		return ""
	}
	return e.highlight
}

func toSuggestions(items []Item) []suggest.Item {
	out := make([]suggest.Item, 0, len(items))
	for _, item := range items {
		out = append(out, suggest.Item{
			ID:    item.ID.String(),
			Label: DisplayTitle(item.Title),
			Value: item,
		})
	}
	return out
}

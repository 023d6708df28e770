package autoselect

// Event names a notification the editor emits.
type Event string

// EventFocus fires after the editor takes focus. Hosts use it to track the
// active field.
const EventFocus Event = "focus"

// Listener receives the editor that emitted an event.
type Listener func(*Editor)

type listenerEntry struct {
	id int
	fn Listener
}

// On registers fn for event and returns a function that removes it.
func (e *Editor) On(event Event, fn Listener) func() {
	if fn == nil || e.closed {
		return func() {}
	}
	if e.listeners == nil {
		e.listeners = map[Event][]listenerEntry{}
	}
	e.nextListener++
	id := e.nextListener
	e.listeners[event] = append(e.listeners[event], listenerEntry{id: id, fn: fn})
	return func() { e.removeListener(event, id) }
}

// Off removes every listener registered for event.
func (e *Editor) Off(event Event) {
	delete(e.listeners, event)
}

func (e *Editor) removeListener(event Event, id int) {
	entries := e.listeners[event]
	for i, entry := range entries {
		if entry.id == id {
			e.listeners[event] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

func (e *Editor) emit(event Event) {
	// Copy so listeners may unsubscribe while being notified.
	entries := append([]listenerEntry(nil), e.listeners[event]...)
	for _, entry := range entries {
		entry.fn(e)
	}
}

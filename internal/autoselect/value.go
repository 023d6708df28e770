package autoselect

// ValueState distinguishes a never-touched field from an explicitly empty one.
type ValueState int

const (
	// ValueUnset means neither a selection nor typed text has touched the field.
	ValueUnset ValueState = iota
	// ValueNone means there is no committed selection.
	ValueNone
	// ValueSelected means an item id is committed.
	ValueSelected
)

func (s ValueState) String() string {
	switch s {
	case ValueNone:
		return "none"
	case ValueSelected:
		return "selected"
	default:
		return "unset"
	}
}

// Value returns the committed identifier and the state of the field. The id
// is only meaningful when the state is ValueSelected.
func (e *Editor) Value() (ID, ValueState) {
	if e.state != ValueSelected {
		return "", e.state
	}
	return e.value, ValueSelected
}

// SetValue commits item: the trimmed, truncated title becomes the display
// text and the item id becomes the value. Validation runs afterwards.
func (e *Editor) SetValue(item Item) {
	text := DisplayTitle(item.Title)
	e.input.SetValue(text)
	e.input.CursorEnd()
	e.state = ValueSelected
	e.value = item.ID
	id := item.ID
	e.selectedItemID = &id
	e.markers.set(MarkerSelected, true)
	e.logger.Info("selected id=%s title=%q", item.ID, text)
	e.HandleValidation()
}

// DeselectValue severs the link to the committed item. The display text is
// left as it is.
func (e *Editor) DeselectValue() {
	e.state = ValueNone
	e.value = ""
	e.selectedItemID = nil
	e.markers.set(MarkerSelected, false)
}

// SelectedItemID returns the id recorded by the last SetValue, if it has not
// been deselected since.
func (e *Editor) SelectedItemID() (ID, bool) {
	if e.selectedItemID == nil {
		return "", false
	}
	return *e.selectedItemID, true
}

// Text returns the display text.
func (e *Editor) Text() string {
	return e.input.Value()
}

// SetText writes text as if the user typed it. A change of text drops any
// committed selection. No search is issued.
func (e *Editor) SetText(text string) {
	if text == e.input.Value() {
		return
	}
	e.input.SetValue(text)
	e.input.CursorEnd()
	if text != "" || e.state == ValueSelected {
		e.DeselectValue()
	}
}

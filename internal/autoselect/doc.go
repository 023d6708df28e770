// Package autoselect implements a form field that lets the user search a
// remote list, pick one item, and binds the item's id as the field value
// while showing its title.
//
// The editor moves between three states: unset or typing (no committed
// selection), searching (a source request is outstanding), and selected.
// Typed text that no selection backs fails validation; empty text passes.
package autoselect

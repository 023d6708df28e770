package autoselect

import "sort"

// Marker is a state flag the field exposes to its host and renders with.
type Marker string

const (
	// MarkerLoading is present while a search is in flight.
	MarkerLoading Marker = "autocomplete-loading"
	// MarkerSelected is present while a selection is committed.
	MarkerSelected Marker = "autocomplete-selected"
	// MarkerError is present when the text fails validation.
	MarkerError Marker = "autocomplete-error"
)

type markerSet map[Marker]struct{}

func (s markerSet) set(m Marker, on bool) {
	if on {
		s[m] = struct{}{}
		return
	}
	delete(s, m)
}

func (s markerSet) has(m Marker) bool {
	_, ok := s[m]
	return ok
}

func (s markerSet) list() []Marker {
	out := make([]Marker, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasMarker reports whether m is currently applied.
func (e *Editor) HasMarker(m Marker) bool {
	return e.markers.has(m)
}

// Markers returns the applied markers in sorted order.
func (e *Editor) Markers() []Marker {
	return e.markers.list()
}

package autoselect

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidationRemovesErrorOnEmpty(t *testing.T) {
	e := New()
	e.markers.set(MarkerError, true)

	e.HandleValidation()

	if e.HasMarker(MarkerError) {
		t.Fatalf("empty text is valid")
	}
}

func TestValidationFlagsUnselectedText(t *testing.T) {
	e := New()
	e.SetText("foo")

	e.HandleValidation()

	if !e.HasMarker(MarkerError) {
		t.Fatalf("expected error marker for text without a selection")
	}
	if !errors.Is(e.Err(), ErrUnmatchedText) {
		t.Fatalf("Err() = %v, want ErrUnmatchedText", e.Err())
	}
}

func TestValidationClearsErrorWhenSelected(t *testing.T) {
	e := New()
	e.SetText("foo")
	e.HandleValidation()
	e.SetValue(Item{ID: "1", Title: "foo"})

	e.HandleValidation()

	if e.HasMarker(MarkerError) || !e.Valid() || e.Err() != nil {
		t.Fatalf("selected text is valid")
	}
}

func TestValidationIsIdempotent(t *testing.T) {
	cases := map[string]func(*Editor){
		"empty":    func(*Editor) {},
		"typed":    func(e *Editor) { e.SetText("foo") },
		"selected": func(e *Editor) { e.SetValue(Item{ID: "1", Title: "foo"}) },
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			e := New()
			setup(e)
			e.HandleValidation()
			first := e.Markers()
			e.HandleValidation()
			if diff := cmp.Diff(first, e.Markers()); diff != "" {
				t.Fatalf("markers changed between calls (-first +second):\n%s", diff)
			}
		})
	}
}

func TestDeselectThenValidateFlagsError(t *testing.T) {
	e := New()
	e.SetValue(Item{ID: "1", Title: "foo"})
	e.DeselectValue()
	e.HandleValidation()
	if !e.HasMarker(MarkerError) {
		t.Fatalf("deselected text should fail validation")
	}
}

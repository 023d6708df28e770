package autoselect

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/autoselect/internal/suggest"
)

func TestSearchSetsLoadingMarker(t *testing.T) {
	e := New()
	e.HandleSearch(suggest.Request{Term: "foo"}, func([]Item) {})
	if !e.HasMarker(MarkerLoading) || !e.Loading() {
		t.Fatalf("expected loading marker while the search is outstanding")
	}
}

func TestSearchRemovesLoadingMarkerWhenComplete(t *testing.T) {
	e := New(WithSource(staticSource()))
	cmd := e.HandleSearch(suggest.Request{Term: "foo"}, func([]Item) {})
	resolve(t, e, cmd)
	if e.HasMarker(MarkerLoading) || e.Loading() {
		t.Fatalf("loading marker should be removed after resolution")
	}
}

func TestSearchCallsRenderOnceWithItems(t *testing.T) {
	var terms []string
	e := New(WithSource(SourceFunc(func(_ context.Context, term string) (Response, error) {
		terms = append(terms, term)
		return Response{Items: []Item{}}, nil
	})))
	var calls [][]Item
	cmd := e.HandleSearch(suggest.Request{Term: "foo"}, func(items []Item) {
		calls = append(calls, items)
	})
	if len(calls) != 0 {
		t.Fatalf("render must wait for the source to resolve")
	}
	resolve(t, e, cmd)
	if diff := cmp.Diff([][]Item{{}}, calls); diff != "" {
		t.Fatalf("render calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"foo"}, terms); diff != "" {
		t.Fatalf("source terms mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchNilItemsRenderEmptyList(t *testing.T) {
	e := New(WithSource(SourceFunc(func(context.Context, string) (Response, error) {
		return Response{}, nil
	})))
	var got []Item
	resolve(t, e, e.HandleSearch(suggest.Request{Term: "x"}, func(items []Item) { got = items }))
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestOverlappingSearchesOnlyLatestClearsLoading(t *testing.T) {
	e := New(WithSource(staticSource(Item{ID: "1", Title: "one"})))
	renders := map[string]int{}
	first := e.HandleSearch(suggest.Request{Term: "a"}, func([]Item) { renders["a"]++ })
	second := e.HandleSearch(suggest.Request{Term: "ab"}, func([]Item) { renders["ab"]++ })

	resolve(t, e, second)
	if e.HasMarker(MarkerLoading) {
		t.Fatalf("latest resolution should clear loading")
	}
	e.setLoading(true)
	resolve(t, e, first)
	if !e.HasMarker(MarkerLoading) {
		t.Fatalf("stale resolution must not clear loading")
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "ab": 1}, renders); diff != "" {
		t.Fatalf("each request renders exactly once (-want +got):\n%s", diff)
	}
}

func TestStaleResultsDoNotReplaceMenu(t *testing.T) {
	e := New(WithSource(SourceFunc(func(_ context.Context, term string) (Response, error) {
		return Response{Items: []Item{{ID: ID(term), Title: term}}}, nil
	})))
	first := e.Source(suggest.Request{Term: "old"}, e.Menu().Open)
	second := e.Source(suggest.Request{Term: "new"}, e.Menu().Open)
	resolve(t, e, second)
	resolve(t, e, first)
	items := e.Menu().Items()
	if len(items) != 1 || items[0].ID != "new" {
		t.Fatalf("menu should keep the newest results, got %+v", items)
	}
}

func TestSearchHandlerRejectsBlankTerms(t *testing.T) {
	e := New()
	if e.Search("   ") {
		t.Fatalf("blank terms should not search")
	}
	if !e.Search("foo") {
		t.Fatalf("non-blank terms should search")
	}
}

func TestSelectHandlerCommitsItem(t *testing.T) {
	e := New()
	e.Select(suggest.Item{ID: "9", Label: "nine", Value: Item{ID: "9", Title: "  nine  "}})
	id, state := e.Value()
	if state != ValueSelected || id != "9" || e.Text() != "nine" {
		t.Fatalf("select committed %q %s %q", id, state, e.Text())
	}
}

func TestSelectHandlerFallsBackToSuggestionFields(t *testing.T) {
	e := New()
	e.Select(suggest.Item{ID: "3", Label: "three"})
	id, _ := e.Value()
	if id != "3" || e.Text() != "three" {
		t.Fatalf("fallback select committed %q %q", id, e.Text())
	}
}

func TestSuggestionsUseDisplayTitles(t *testing.T) {
	got := toSuggestions([]Item{{ID: "1", Title: "  padded  "}})
	want := []suggest.Item{{ID: "1", Label: "padded", Value: Item{ID: "1", Title: "  padded  "}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

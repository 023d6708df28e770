package autoselect

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestDisplayTitle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"short", "foo", "foo"},
		{"trailing spaces", "foo   ", "foo"},
		{"leading and trailing", "\t foo bar \n", "foo bar"},
		{"exact limit", strings.Repeat("b", 35), strings.Repeat("b", 35)},
		{"over limit", strings.Repeat("A", 39), strings.Repeat("A", 35)},
		{"trim before cut", "  " + strings.Repeat("c", 36), strings.Repeat("c", 35)},
		{"multibyte", strings.Repeat("é", 40), strings.Repeat("é", 35)},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayTitle(tc.title); got != tc.want {
				t.Fatalf("DisplayTitle(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestDisplayTitleKeepsGraphemeClusters(t *testing.T) {
	flag := "🇳🇿"
	got := DisplayTitle(strings.Repeat(flag, 36))
	if got != strings.Repeat(flag, 35) {
		t.Fatalf("flags should count as one character each, got %d bytes", len(got))
	}
}

func TestResponseDecodesNumericAndStringIDs(t *testing.T) {
	var resp Response
	body := `{"items":[{"id":1,"title":"one"},{"id":"abc","title":"letters"},{"id":null,"title":"none"}]}`
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []Item{{ID: "1", Title: "one"}, {ID: "abc", Title: "letters"}, {ID: "", Title: "none"}}
	if diff := cmp.Diff(want, resp.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestIDRejectsObjects(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`{"x":1}`), &id); err == nil {
		t.Fatalf("expected error decoding object id")
	}
}

func TestIDMarshalKeepsNumbersNumeric(t *testing.T) {
	data, err := json.Marshal([]ID{"1", "007", "abc", "-4"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `[1,"007","abc",-4]` {
		t.Fatalf("marshal = %s", data)
	}
}

func TestItemDecodesFromYAML(t *testing.T) {
	var resp Response
	src := "items:\n  - id: 3\n    title: three\n  - id: x-9\n    title: nine\n"
	if err := yaml.Unmarshal([]byte(src), &resp); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	want := []Item{{ID: "3", Title: "three"}, {ID: "x-9", Title: "nine"}}
	if diff := cmp.Diff(want, resp.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

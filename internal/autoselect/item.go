package autoselect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
	"gopkg.in/yaml.v3"
)

// MaxTitleLength caps the display text derived from an item title.
const MaxTitleLength = 35

// ID identifies an item. Sources may send numbers or strings; both decode
// into the same textual form.
type ID string

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts JSON strings and numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("autoselect: id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes integer-looking identifiers as numbers so they round
// trip with sources that use numeric keys.
func (id ID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// UnmarshalYAML accepts any scalar.
func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("autoselect: id must be a scalar (line %d)", node.Line)
	}
	*id = ID(node.Value)
	return nil
}

// Item is a candidate returned by a search source.
type Item struct {
	ID    ID     `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Response is the envelope a source resolves with.
type Response struct {
	Items []Item `json:"items" yaml:"items"`
}

// Source resolves a search term into candidate items. Each call resolves
// exactly once; callers do not retry.
type Source interface {
	Search(ctx context.Context, term string) (Response, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, term string) (Response, error)

// Search implements Source.
func (f SourceFunc) Search(ctx context.Context, term string) (Response, error) {
	return f(ctx, term)
}

// DisplayTitle trims title and cuts it to MaxTitleLength characters.
// Characters are grapheme clusters, so combined emoji and accents never split.
func DisplayTitle(title string) string {
	return truncate(strings.TrimSpace(title), MaxTitleLength)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	g := uniseg.NewGraphemes(s)
	count := 0
	end := 0
	for g.Next() {
		if count == limit {
			return s[:end]
		}
		_, end = g.Positions()
		count++
	}
	return s
}

// Package catalog serves autoselect items from a YAML file.
//
// The file has a single key:
//
//	items:
//	  - id: 1
//	    title: Ada Lovelace
//
// Searches rank titles with fuzzy matching. Watch keeps the catalog in sync
// with the file while a server or form is running.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/autoselect/internal/autoselect"
)

// DefaultLimit caps how many items a search returns.
const DefaultLimit = 20

var errNoPath = errors.New("catalog: no backing file")

// Logger receives reload activity.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithLimit caps result size. Values <= 0 keep the default.
func WithLimit(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithLogger records reloads and watch errors.
func WithLogger(l Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// Catalog is an in-memory item list safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	items  []autoselect.Item
	path   string
	limit  int
	logger Logger
}

// New creates a catalog holding items.
func New(items []autoselect.Item, opts ...Option) *Catalog {
	c := &Catalog{limit: DefaultLimit, logger: nopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.Replace(items)
	return c
}

// Open loads the catalog stored at path.
func Open(path string, opts ...Option) (*Catalog, error) {
	c := New(nil, opts...)
	c.path = path
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the backing file, if any.
func (c *Catalog) Path() string { return c.path }

// Reload re-reads the backing file. On error the previous items stay.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return errNoPath
	}
	items, err := Load(c.path)
	if err != nil {
		return err
	}
	c.Replace(items)
	return nil
}

// Load reads items from a YAML file.
func Load(path string) ([]autoselect.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var doc autoselect.Response
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	for i, item := range doc.Items {
		if strings.TrimSpace(item.ID.String()) == "" {
			return nil, fmt.Errorf("catalog: items[%d]: id is required", i)
		}
	}
	return doc.Items, nil
}

// Replace swaps the catalog contents.
func (c *Catalog) Replace(items []autoselect.Item) {
	copied := append([]autoselect.Item(nil), items...)
	c.mu.Lock()
	c.items = copied
	c.mu.Unlock()
}

// Items returns a copy of every item.
func (c *Catalog) Items() []autoselect.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]autoselect.Item(nil), c.items...)
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Search implements autoselect.Source. A blank term returns the first items
// in file order; otherwise titles are fuzzy-ranked against the term.
func (c *Catalog) Search(ctx context.Context, term string) (autoselect.Response, error) {
	if err := ctx.Err(); err != nil {
		return autoselect.Response{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []autoselect.Item{}
	term = strings.TrimSpace(term)
	if term == "" {
		for i := 0; i < len(c.items) && i < c.limit; i++ {
			out = append(out, c.items[i])
		}
		return autoselect.Response{Items: out}, nil
	}
	for _, match := range fuzzy.FindFrom(term, titles(c.items)) {
		if len(out) == c.limit {
			break
		}
		out = append(out, c.items[match.Index])
	}
	return autoselect.Response{Items: out}, nil
}

// titles adapts an item slice to fuzzy.Source.
type titles []autoselect.Item

func (t titles) String(i int) string { return t[i].Title }
func (t titles) Len() int            { return len(t) }

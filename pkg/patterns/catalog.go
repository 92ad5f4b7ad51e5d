package patterns

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tailscale/hujson"
)

// Size is the canonical pattern length.
const Size = 256

// ErrUnknownPattern is returned by Select for names missing from the catalog.
var ErrUnknownPattern = errors.New("pattern not found")

// Pattern is a named fill sequence.
type Pattern struct {
	Name        string
	Description string
	Bytes       []byte
}

// Catalog is an ordered set of patterns with unique names.
type Catalog struct {
	patterns []Pattern
	byName   map[string]int
}

// NewCatalog builds a catalog. Names must be unique and patterns non-empty.
func NewCatalog(patterns []Pattern) (*Catalog, error) {
	if len(patterns) == 0 {
		return nil, errors.New("catalog has no patterns")
	}

	c := &Catalog{byName: make(map[string]int, len(patterns))}
	for _, p := range patterns {
		if p.Name == "" {
			return nil, errors.New("pattern without a name")
		}
		if len(p.Bytes) == 0 {
			return nil, fmt.Errorf("pattern %q has no bytes", p.Name)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate pattern name %q", p.Name)
		}
		c.byName[p.Name] = len(c.patterns)
		c.patterns = append(c.patterns, p)
	}
	return c, nil
}

// All returns the patterns in catalog order.
func (c *Catalog) All() []Pattern {
	return c.patterns
}

// Names returns the pattern names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.patterns))
	for i, p := range c.patterns {
		names[i] = p.Name
	}
	return names
}

// Get looks up a pattern by name.
func (c *Catalog) Get(name string) (Pattern, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Pattern{}, false
	}
	return c.patterns[i], true
}

// Select resolves a selection into a pool of byte sequences.
// The selection is "all", a single name, or a comma-separated list of names.
func (c *Catalog) Select(selection string) ([][]byte, []string, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" || selection == "all" {
		pool := make([][]byte, len(c.patterns))
		for i, p := range c.patterns {
			pool[i] = p.Bytes
		}
		return pool, c.Names(), nil
	}

	var (
		pool  [][]byte
		names []string
	)
	for _, name := range strings.Split(selection, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p, ok := c.Get(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPattern, name, strings.Join(c.Names(), ", "))
		}
		pool = append(pool, p.Bytes)
		names = append(names, name)
	}
	if len(pool) == 0 {
		return nil, nil, fmt.Errorf("no pattern names in %q", selection)
	}
	return pool, names, nil
}

// fileEntry is one element of a pattern file. Bytes are hex strings.
type fileEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Pattern     []string `json:"pattern"`
}

// Load reads a pattern file: a JSON (comments and trailing commas allowed)
// list of {name, description, pattern} objects where pattern is a list of
// hex byte strings such as "FF". A missing file yields the builtin catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Builtin(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("pattern file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes the contents of a pattern file.
func Parse(data []byte) (*Catalog, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var entries []fileEntry
	if err := json.Unmarshal(standardized, &entries); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	patterns := make([]Pattern, 0, len(entries))
	for _, e := range entries {
		b, err := decodeHexBytes(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", e.Name, err)
		}
		patterns = append(patterns, Pattern{Name: e.Name, Description: e.Description, Bytes: b})
	}

	return NewCatalog(patterns)
}

func decodeHexBytes(items []string) ([]byte, error) {
	out := make([]byte, len(items))
	for i, item := range items {
		item = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(item), "0x"), "0X")
		if len(item) == 1 {
			item = "0" + item
		}
		b, err := hex.DecodeString(item)
		if err != nil || len(b) != 1 {
			return nil, fmt.Errorf("invalid hex byte %q at index %d", items[i], i)
		}
		out[i] = b[0]
	}
	return out, nil
}

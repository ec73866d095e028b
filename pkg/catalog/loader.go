// Package catalog provides access to the immutable testing tool catalog,
// either embedded in the binary or loaded from a file at startup.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/HerbHall/testerhub/pkg/models"
)

//go:embed catalog.yaml
var catalogRawData []byte

// ErrNotFound is returned by Lookup for unknown tool ids.
var ErrNotFound = errors.New("tool not found")

// catalogFile is the top-level structure of a catalog document.
type catalogFile struct {
	Tools []models.Tool `yaml:"tools" json:"tools"`
}

// Catalog provides lazy-loaded, read-only access to tool records.
type Catalog struct {
	once    sync.Once
	raw     []byte
	decode  func([]byte, any) error
	entries []models.Tool
	byID    map[string]int
	err     error
}

// NewCatalog creates a Catalog that will parse the embedded YAML on first access.
func NewCatalog() *Catalog {
	return &Catalog{raw: catalogRawData, decode: yaml.Unmarshal}
}

// Open reads a catalog document from path. The format is chosen by extension
// (.yaml, .yml or .json). Parsing happens immediately so that a bad file
// fails startup rather than the first request.
func Open(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}

	var decode func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = yaml.Unmarshal
	case ".json":
		decode = decodeJSON
	default:
		return nil, fmt.Errorf("catalog: unsupported file extension %q", filepath.Ext(path))
	}

	c := &Catalog{raw: raw, decode: decode}
	if _, err := c.Entries(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromTools builds a Catalog from records already in memory. The input is
// copied and validated.
func FromTools(tools []models.Tool) (*Catalog, error) {
	c := &Catalog{}
	c.once.Do(func() {
		c.setEntries(cloneTools(tools))
	})
	if c.err != nil {
		return nil, c.err
	}
	return c, nil
}

// Entries returns a copy of all catalog entries in catalog order.
func (c *Catalog) Entries() ([]models.Tool, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	return cloneTools(c.entries), nil
}

// Lookup returns the tool with the given id.
func (c *Catalog) Lookup(id string) (models.Tool, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return models.Tool{}, c.err
	}
	i, ok := c.byID[id]
	if !ok {
		return models.Tool{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneTool(c.entries[i]), nil
}

// Len returns the number of tools, or 0 if the catalog failed to load.
func (c *Catalog) Len() int {
	c.once.Do(c.load)
	return len(c.entries)
}

// load parses the raw catalog data.
func (c *Catalog) load() {
	var f catalogFile
	if err := c.decode(c.raw, &f); err != nil {
		c.err = fmt.Errorf("catalog: parse: %w", err)
		return
	}
	c.setEntries(f.Tools)
}

func (c *Catalog) setEntries(tools []models.Tool) {
	byID := make(map[string]int, len(tools))
	for i := range tools {
		normalize(&tools[i])
		if err := validate(&tools[i]); err != nil {
			c.err = fmt.Errorf("catalog: entry %d: %w", i, err)
			return
		}
		if prev, dup := byID[tools[i].ID]; dup {
			c.err = fmt.Errorf("catalog: duplicate id %q (entries %d and %d)", tools[i].ID, prev, i)
			return
		}
		byID[tools[i].ID] = i
	}
	c.entries = tools
	c.byID = byID
}

// normalize turns empty optional fields into absent ones. Semantic
// versions lose their "v" prefix; any other version text is kept as is.
func normalize(t *models.Tool) {
	if t.Version != nil {
		v := strings.TrimSpace(*t.Version)
		switch {
		case v == "":
			t.Version = nil
		case semver.IsValid(v):
			v = strings.TrimPrefix(v, "v")
			t.Version = &v
		default:
			t.Version = &v
		}
	}
	if t.Logo != nil && strings.TrimSpace(*t.Logo) == "" {
		t.Logo = nil
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Frameworks == nil {
		t.Frameworks = []string{}
	}
}

func validate(t *models.Tool) error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tool %q: name is required", t.ID)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("tool %q: %w: %q", t.ID, models.ErrUnknownCategory, t.Category)
	}
	return nil
}

func decodeJSON(raw []byte, v any) error {
	// A bare JSON array of tools is accepted as well as {"tools": [...]}.
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		f, ok := v.(*catalogFile)
		if !ok {
			return errors.New("unexpected decode target")
		}
		return json.Unmarshal(raw, &f.Tools)
	}
	return json.Unmarshal(raw, v)
}

func cloneTools(in []models.Tool) []models.Tool {
	out := make([]models.Tool, len(in))
	for i := range in {
		out[i] = cloneTool(in[i])
	}
	return out
}

func cloneTool(t models.Tool) models.Tool {
	return t.Clone()
}

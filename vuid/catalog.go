// Package vuid holds the valid-usage identifier catalog and the per-variant
// override tables used to pick diagnostic IDs.
package vuid

import (
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/objtrack/errors"
)

// Undefined is reported when no specific identifier is registered for a check.
const Undefined = "VUID_Undefined"

// Catalog is the set of identifiers known to be valid.
type Catalog struct {
	ids map[string]struct{}
	mu  sync.RWMutex
}

// NewCatalog creates a catalog holding ids.
func NewCatalog(ids ...string) *Catalog {
	c := &Catalog{ids: make(map[string]struct{}, len(ids))}
	c.Add(ids...)
	return c
}

// Add registers identifiers.
func (c *Catalog) Add(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.ids[id] = struct{}{}
	}
}

// Has reports whether id is registered.
func (c *Catalog) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[id]
	return ok
}

// Lookup returns id when registered and Undefined otherwise.
func (c *Catalog) Lookup(id string) string {
	if c.Has(id) {
		return id
	}
	return Undefined
}

// Len returns the number of registered identifiers.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

// IDs returns the registered identifiers sorted.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	c.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Load reads identifiers from YAML or JSON and adds them to the catalog.
// The document is either a list of identifiers or a validusage.json style
// tree, in which every "vuid" key contributes its value.
func (c *Catalog) Load(r io.Reader) (int, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, errors.ParseFailed(errors.PhaseCatalog, "catalog", err)
	}

	var ids []string
	collect(doc, &ids)
	if len(ids) == 0 && doc != nil {
		if _, isList := doc.([]any); !isList {
			return 0, errors.InvalidData(errors.PhaseCatalog, nil, "no identifiers found")
		}
	}
	c.Add(ids...)
	return len(ids), nil
}

func collect(node any, out *[]string) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				*out = append(*out, s)
				continue
			}
			collect(item, out)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := v[k].(string); ok {
				if k == "vuid" {
					*out = append(*out, s)
				}
				continue
			}
			collect(v[k], out)
		}
	}
}

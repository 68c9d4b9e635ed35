package insurer

import (
	"fmt"
	"sort"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
)

// Catalog is the set of known template descriptors.
type Catalog struct {
	byID  map[string]*Descriptor
	order []string
}

// NewCatalog validates and indexes descriptors.
func NewCatalog(descriptors ...*Descriptor) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate descriptor id %q", d.ID)
		}
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	sort.Strings(c.order)
	return c, nil
}

// Default returns the catalog of all built-in families.
func Default() *Catalog {
	c, err := NewCatalog(DAKFamily(), TKFamily(), BKKFamily(), HanseMerkurSupplemental())
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the descriptor with the given id.
func (c *Catalog) Get(id string) (*Descriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns every descriptor sorted by id.
func (c *Catalog) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ForMode returns the descriptors whose product the mode covers.
func (c *Catalog) ForMode(mode applicant.ProductMode) []*Descriptor {
	var out []*Descriptor
	for _, d := range c.All() {
		if mode.Includes(d.Mode) {
			out = append(out, d)
		}
	}
	return out
}

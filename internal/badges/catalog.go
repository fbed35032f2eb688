package badges

import (
	"errors"
	"fmt"
)

// Catalog is the read-only registry of badge definitions, built once at startup.
type Catalog struct {
	defs  []*Definition
	index map[string]*Definition
}

// NewCatalog validates every definition and rejects the whole set if any
// is invalid, including unknown custom validators.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]*Definition, 0, len(defs)),
		index: make(map[string]*Definition, len(defs)),
	}

	var errs []error
	for i := range defs {
		def := defs[i]
		if err := def.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.index[def.ID]; dup {
			errs = append(errs, fmt.Errorf("badge %q: duplicate id", def.ID))
			continue
		}
		c.defs = append(c.defs, &def)
		c.index[def.ID] = &def
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid badge catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return NewCatalog(DefaultDefinitions())
}

// Get looks a definition up by id.
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.index[id]
	return d, ok
}

// All returns definitions in catalog order. Callers must not modify them.
func (c *Catalog) All() []*Definition {
	out := make([]*Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// TimeBased returns the definitions whose criteria depend on account age.
func (c *Catalog) TimeBased() []*Definition {
	var out []*Definition
	for _, d := range c.defs {
		if d.Criteria.Kind() == KindTimeBased {
			out = append(out, d)
		}
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

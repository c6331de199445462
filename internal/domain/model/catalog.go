package model

import "fmt"

// Competition is one entry of the competition catalog.
type Competition struct {
	ID   int
	Name string // canonical
	Type string
	Year int
}

// Catalog is the read-only, id-ordered list of competitions.
type Catalog struct {
	items  []Competition
	byName map[string]int
}

// NewCatalog builds a catalog. Competitions must be ordered by id, with
// ids equal to their positions. Names are canonicalized; a repeated name is
// an error.
func NewCatalog(items []Competition) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Competition, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for i, it := range items {
		if it.ID != i {
			return nil, fmt.Errorf("competition %q has id %d at position %d", it.Name, it.ID, i)
		}
		it.Name = CanonicalName(it.Name)
		if prev, dup := c.byName[it.Name]; dup {
			return nil, fmt.Errorf("competition name %q repeated at ids %d and %d", it.Name, prev, i)
		}
		c.byName[it.Name] = i
		c.items[i] = it
	}
	return c, nil
}

// Len returns the number of competitions.
func (c *Catalog) Len() int { return len(c.items) }

// ByID returns the competition with the given id.
func (c *Catalog) ByID(id int) (Competition, bool) {
	if id < 0 || id >= len(c.items) {
		return Competition{}, false
	}
	return c.items[id], true
}

// Lookup finds a competition by name after canonicalization.
func (c *Catalog) Lookup(name string) (Competition, bool) {
	id, ok := c.byName[CanonicalName(name)]
	if !ok {
		return Competition{}, false
	}
	return c.items[id], true
}

// All returns a copy of the competitions in id order.
func (c *Catalog) All() []Competition {
	out := make([]Competition, len(c.items))
	copy(out, c.items)
	return out
}

package catalog

import "fmt"

// Catalog holds the full set of playable challenges: the immutable seed
// set plus synthesized entries prepended most-recent-first. Existing
// entries are never mutated, removed or reordered.
type Catalog struct {
	entries []Challenge
	byID    map[string]int
}

func New(seed []Challenge) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Challenge, 0, len(seed)),
		byID:    make(map[string]int, len(seed)),
	}
	for _, ch := range seed {
		if err := ch.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byID[ch.ID]; ok {
			return nil, fmt.Errorf("duplicate challenge id %q", ch.ID)
		}
		c.byID[ch.ID] = len(c.entries)
		c.entries = append(c.entries, ch)
	}
	return c, nil
}

// Prepend adds a synthesized challenge at the front of the catalog.
func (c *Catalog) Prepend(ch Challenge) error {
	if err := ch.Validate(); err != nil {
		return err
	}
	if _, ok := c.byID[ch.ID]; ok {
		return fmt.Errorf("challenge id %q already in catalog", ch.ID)
	}
	c.entries = append([]Challenge{ch}, c.entries...)
	for id, idx := range c.byID {
		c.byID[id] = idx + 1
	}
	c.byID[ch.ID] = 0
	return nil
}

func (c *Catalog) Get(id string) (Challenge, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Challenge{}, false
	}
	return c.entries[idx], true
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Challenges returns a copy of the catalog in display order.
func (c *Catalog) Challenges() []Challenge {
	return append([]Challenge(nil), c.entries...)
}

// ByCategory returns the challenges of one category, preserving order.
func (c *Catalog) ByCategory(cat Category) []Challenge {
	out := make([]Challenge, 0, len(c.entries))
	for _, ch := range c.entries {
		if ch.Category == cat {
			out = append(out, ch)
		}
	}
	return out
}

func (c *Catalog) Size() int { return len(c.entries) }

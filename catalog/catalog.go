// Package catalog holds the item and structure prefabs consumed by the level generator
package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

var (
	ErrDuplicateID  = errors.New("catalog: duplicate identifier")
	ErrInvalidEntry = errors.New("catalog: invalid entry")
)

// StructureKind names the placer a structure prefab belongs to
type StructureKind string

const (
	KindRuin    StructureKind = "ruin"
	KindWreck   StructureKind = "wreck"
	KindOutpost StructureKind = "outpost"
	KindBeacon  StructureKind = "beacon"
)

// Item is a placeable resource prefab
type Item struct {
	ID         string   `toml:"id"`
	Tags       []string `toml:"tags"`
	Commonness float64  `toml:"commonness"`
	Width      float64  `toml:"width"`
	Height     float64  `toml:"height"`

	// Per level-type override of Commonness
	LevelCommonness map[string]float64 `toml:"level_commonness"`

	// Guaranteed placements, FixedLevelType empty means every level type
	FixedQuantity  int    `toml:"fixed_quantity"`
	FixedLevelType string `toml:"fixed_level_type"`
}

// CommonnessFor returns the selection weight for a level type
func (it *Item) CommonnessFor(levelType string) float64 {
	if w, ok := it.LevelCommonness[levelType]; ok {
		return w
	}
	return it.Commonness
}

// HasTag reports whether the item carries tag
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Structure is a prefab placed by one of the satellite placers
type Structure struct {
	ID            string        `toml:"id"`
	Kind          StructureKind `toml:"kind"`
	Width         float64       `toml:"width"`
	Height        float64       `toml:"height"`
	Commonness    float64       `toml:"commonness"`
	LocationTypes []string      `toml:"location_types"`
}

// FixedEntry is a guaranteed item placement
type FixedEntry struct {
	Item  *Item
	Count int
}

// Catalog is the ordered prefab set; iteration always follows file order
type Catalog struct {
	Items      []Item      `toml:"items"`
	Structures []Structure `toml:"structures"`

	itemIndex map[string]int
}

// Load decodes and validates a TOML catalog
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a TOML catalog from disk
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

func (c *Catalog) index() error {
	c.itemIndex = make(map[string]int, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		if it.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidEntry, i)
		}
		if _, dup := c.itemIndex[it.ID]; dup {
			return fmt.Errorf("%w: item %q", ErrDuplicateID, it.ID)
		}
		if it.Commonness < 0 || it.Width <= 0 || it.Height <= 0 || it.FixedQuantity < 0 {
			return fmt.Errorf("%w: item %q", ErrInvalidEntry, it.ID)
		}
		c.itemIndex[it.ID] = i
	}

	seen := make(map[string]bool, len(c.Structures))
	for i := range c.Structures {
		s := &c.Structures[i]
		if seen[s.ID] {
			return fmt.Errorf("%w: structure %q", ErrDuplicateID, s.ID)
		}
		seen[s.ID] = true
		switch s.Kind {
		case KindRuin, KindWreck, KindOutpost, KindBeacon:
		default:
			return fmt.Errorf("%w: structure %q has unknown kind %q", ErrInvalidEntry, s.ID, s.Kind)
		}
		if s.Width <= 0 || s.Height <= 0 || s.Commonness < 0 {
			return fmt.Errorf("%w: structure %q", ErrInvalidEntry, s.ID)
		}
	}
	return nil
}

// Item looks up an item by identifier
func (c *Catalog) Item(id string) (*Item, bool) {
	i, ok := c.itemIndex[id]
	if !ok {
		return nil, false
	}
	return &c.Items[i], true
}

// ItemsWithTag returns items carrying tag, in catalog order
func (c *Catalog) ItemsWithTag(tag string) []*Item {
	var out []*Item
	for i := range c.Items {
		if c.Items[i].HasTag(tag) {
			out = append(out, &c.Items[i])
		}
	}
	return out
}

// ResourceItems returns items eligible for random cluster placement
func (c *Catalog) ResourceItems() []*Item {
	var out []*Item
	for i := range c.Items {
		if c.Items[i].Commonness > 0 || len(c.Items[i].LevelCommonness) > 0 {
			out = append(out, &c.Items[i])
		}
	}
	return out
}

// FixedQuantity returns the guaranteed placements for a level type
func (c *Catalog) FixedQuantity(levelType string) []FixedEntry {
	var out []FixedEntry
	for i := range c.Items {
		it := &c.Items[i]
		if it.FixedQuantity == 0 {
			continue
		}
		if it.FixedLevelType != "" && it.FixedLevelType != levelType {
			continue
		}
		out = append(out, FixedEntry{Item: it, Count: it.FixedQuantity})
	}
	return out
}

// StructuresOfKind returns every prefab of kind
func (c *Catalog) StructuresOfKind(kind StructureKind) []*Structure {
	var out []*Structure
	for i := range c.Structures {
		if c.Structures[i].Kind == kind {
			out = append(out, &c.Structures[i])
		}
	}
	return out
}

// StructureForLocation returns prefabs of kind that accept locationType
// Prefabs without location types accept none; callers fall back to StructuresOfKind
func (c *Catalog) StructureForLocation(kind StructureKind, locationType string) []*Structure {
	var out []*Structure
	for i := range c.Structures {
		s := &c.Structures[i]
		if s.Kind != kind {
			continue
		}
		for _, lt := range s.LocationTypes {
			if lt == locationType {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

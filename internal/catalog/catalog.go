// Package catalog lists the building kinds and scenery variants a town can
// be furnished with.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Building is one building kind. Width runs along the street frontage,
// Depth away from it.
type Building struct {
	Key   string  `yaml:"key"`
	Name  string  `yaml:"name"`
	Width float64 `yaml:"width"`
	Depth float64 `yaml:"depth"`
}

// File is the on-disk layout of a catalog file. Sequences, not maps, keep
// the order stable: index draws must pick the same kind on every run.
type File struct {
	Buildings []Building `yaml:"buildings"`
	Trees     []string   `yaml:"trees"`
	Bushes    []string   `yaml:"bushes"`
}

// Catalog holds validated building kinds and scenery variants.
type Catalog struct {
	buildings []Building
	byKey     map[string]int
	trees     []string
	bushes    []string
}

// New validates f and builds a catalog from it.
func New(f File) (*Catalog, error) {
	if len(f.Buildings) == 0 {
		return nil, fmt.Errorf("catalog has no buildings")
	}
	c := &Catalog{
		buildings: make([]Building, 0, len(f.Buildings)),
		byKey:     make(map[string]int, len(f.Buildings)),
		trees:     append([]string(nil), f.Trees...),
		bushes:    append([]string(nil), f.Bushes...),
	}
	for i, b := range f.Buildings {
		if b.Key == "" {
			return nil, fmt.Errorf("building %d has no key", i)
		}
		if b.Width <= 0 || b.Depth <= 0 {
			return nil, fmt.Errorf("building %q has footprint %vx%v", b.Key, b.Width, b.Depth)
		}
		if _, dup := c.byKey[b.Key]; dup {
			return nil, fmt.Errorf("building %q listed twice", b.Key)
		}
		if b.Name == "" {
			b.Name = b.Key
		}
		c.byKey[b.Key] = len(c.buildings)
		c.buildings = append(c.buildings, b)
	}
	if len(c.trees) == 0 {
		c.trees = []string{"tree"}
	}
	if len(c.bushes) == 0 {
		c.bushes = []string{"bush"}
	}
	return c, nil
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c, err := New(f)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", filename, err)
	}
	return c, nil
}

// MustLoadCatalog loads the catalog and panics on error.
func MustLoadCatalog(filename string) *Catalog {
	c, err := LoadCatalog(filename)
	if err != nil {
		panic("Failed to load catalog: " + err.Error())
	}
	return c
}

// Default returns the built-in catalog used when no file is given.
func Default() *Catalog {
	c, err := New(File{
		Buildings: []Building{
			{Key: "cottage", Name: "Cottage", Width: 3, Depth: 3},
			{Key: "townhouse", Name: "Townhouse", Width: 3, Depth: 4},
			{Key: "shop", Name: "Shop", Width: 4, Depth: 3},
			{Key: "tavern", Name: "Tavern", Width: 5, Depth: 4},
			{Key: "smithy", Name: "Smithy", Width: 4, Depth: 4},
		},
		Trees:  []string{"oak", "pine", "birch"},
		Bushes: []string{"hedge", "bramble"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Buildings returns the building kinds in file order.
func (c *Catalog) Buildings() []Building { return c.buildings }

// Building looks a kind up by key.
func (c *Catalog) Building(key string) (Building, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Building{}, false
	}
	return c.buildings[i], true
}

// Trees returns the tree variant names.
func (c *Catalog) Trees() []string { return c.trees }

// Bushes returns the bush variant names.
func (c *Catalog) Bushes() []string { return c.bushes }

// MaxDepth is the deepest building footprint.
func (c *Catalog) MaxDepth() float64 {
	d := 0.0
	for _, b := range c.buildings {
		if b.Depth > d {
			d = b.Depth
		}
	}
	return d
}

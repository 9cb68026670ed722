package town

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"towngen/internal/bsp"
	"towngen/internal/catalog"
	"towngen/internal/config"
	"towngen/internal/grid"
	"towngen/internal/noise"
)

// New runs one complete generation for seed. It shares nothing with other
// calls and is safe to run concurrently.
func New(cfg *config.Config, cat *catalog.Catalog, seed int64) (*Town, error) {
	start := time.Now()

	if err := cfg.CheckBorderDepth(cat.MaxDepth()); err != nil {
		return nil, err
	}
	fields, err := noise.NewSet(cfg.GetNoiseAlgorithm(), seed)
	if err != nil {
		return nil, fmt.Errorf("noise fields: %w", err)
	}
	opts := cfg.GetPartitionOptions()
	rng := rand.New(rand.NewSource(seed))

	tree := bsp.Partition(rng, cfg.GetRoadAreaWidth(), cfg.GetRoadAreaHeight(), opts)
	g := grid.New(cfg.GetTownWidth(), cfg.GetTownHeight())

	b := NewBuilder(cfg, cat, rng, g, fields, tree)
	b.Build()

	// Terrain is final: link the cells and cache the roads.
	g.ComputeConnections()

	return &Town{
		ID:         townID(seed, cfg.GetTownWidth(), cfg.GetTownHeight()),
		Seed:       seed,
		Tree:       tree,
		Grid:       g,
		Placements: b.Placements(),
		Gates:      b.Gates(),
		Lampposts:  b.lampposts,
		Elapsed:    time.Since(start),
	}, nil
}

// Generator regenerates towns on request and publishes the latest one.
// Readers calling Current never see a town that is still being built.
type Generator struct {
	cfg *config.Config
	cat *catalog.Catalog

	mu      sync.Mutex // serialises Generate
	current atomic.Pointer[Town]
}

// NewGenerator returns a generator with nothing published yet.
func NewGenerator(cfg *config.Config, cat *catalog.Catalog) *Generator {
	return &Generator{cfg: cfg, cat: cat}
}

// Generate builds a new town and publishes it. A nil seed falls back to the
// configured seed, then to the clock.
func (g *Generator) Generate(seed *int64) (*Town, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.resolveSeed(seed)
	t, err := New(g.cfg, g.cat, s)
	if err != nil {
		return nil, fmt.Errorf("generate town (seed=%d): %w", s, err)
	}
	g.current.Store(t)

	log.Printf("Generated town (seed=%d) with %d plots and %d objects in %.2fms",
		t.Seed, len(t.Tree.Leaves), len(t.Placements), float64(t.Elapsed.Microseconds())/1000)
	return t, nil
}

// Current returns the last published town, or nil.
func (g *Generator) Current() *Town { return g.current.Load() }

func (g *Generator) resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	if g.cfg.Town.Seed != nil {
		return *g.cfg.Town.Seed
	}
	return time.Now().UnixNano()
}

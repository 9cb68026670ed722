// Package survey generates many towns concurrently and summarises them,
// for tuning configuration against a range of seeds.
package survey

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"towngen/internal/catalog"
	"towngen/internal/config"
	"towngen/internal/town"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

// Result describes one generated town.
type Result struct {
	Seed       int64
	ID         uuid.UUID
	Plots      int
	Placements int
	Buildings  int
	RoadCells  int
	Connected  bool // the gates reach each other
	Elapsed    time.Duration
	Err        error
}

// Stat is the spread of one measurement over a survey.
type Stat struct {
	Min, Max int
	Mean     float64
}

func (s Stat) String() string {
	return fmt.Sprintf("min %d, max %d, mean %.1f", s.Min, s.Max, s.Mean)
}

// Report aggregates a survey. Results are in seed order.
type Report struct {
	Results      []Result
	Generated    int
	Failed       int
	Distinct     int // unique town ids
	Disconnected []int64
	Plots        Stat
	Buildings    Stat
	RoadCells    Stat
	Slowest      time.Duration
	Total        time.Duration
}

// Seeds returns n consecutive seeds starting at first.
func Seeds(first int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = first + int64(i)
	}
	return out
}

// Run generates one town per seed on a pool of workers. Each generation has
// its own random source, grid and noise fields. When ctx is cancelled the
// seeds already generated are reported alongside ctx's error.
func Run(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, seeds []int64, workers int) (*Report, error) {
	start := time.Now()
	results := make([]Result, len(seeds))
	finished := make([]bool, len(seeds))
	var done atomic.Int64

	pool := newSeedPool(workers)
	pool.each(ctx, len(seeds), func(i int) {
		results[i] = measure(cfg, cat, seeds[i])
		finished[i] = true
		done.Add(1)
	})

	var completed []Result
	for i, r := range results {
		if finished[i] {
			completed = append(completed, r)
		}
	}
	report := summarise(completed)
	report.Total = time.Since(start)

	log.Printf("Surveyed %d/%d seeds on %d workers in %v", done.Load(), len(seeds), pool.workers, report.Total.Round(time.Millisecond))
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("survey interrupted: %w", err)
	}
	return report, nil
}

func measure(cfg *config.Config, cat *catalog.Catalog, seed int64) Result {
	t, err := town.New(cfg, cat, seed)
	if err != nil {
		return Result{Seed: seed, Err: err}
	}
	return Result{
		Seed:       seed,
		ID:         t.ID,
		Plots:      len(t.Tree.Leaves),
		Placements: len(t.Placements),
		Buildings:  len(t.PlacementsOfKind(town.KindBuilding)),
		RoadCells:  len(t.Grid.RoadCells()),
		Connected:  t.GatesConnected(),
		Elapsed:    t.Elapsed,
	}
}

func summarise(results []Result) *Report {
	r := &Report{Results: results}
	ids := mapset.New[uuid.UUID]()
	var plots, buildings, roads []int
	for _, res := range results {
		if res.Err != nil {
			r.Failed++
			continue
		}
		r.Generated++
		ids.Put(res.ID)
		if !res.Connected {
			r.Disconnected = append(r.Disconnected, res.Seed)
		}
		plots = append(plots, res.Plots)
		buildings = append(buildings, res.Buildings)
		roads = append(roads, res.RoadCells)
		r.Slowest = max(r.Slowest, res.Elapsed)
	}
	r.Distinct = ids.Size()
	r.Plots = spread(plots)
	r.Buildings = spread(buildings)
	r.RoadCells = spread(roads)
	return r
}

func spread(values []int) Stat {
	if len(values) == 0 {
		return Stat{}
	}
	s := Stat{Min: values[0], Max: values[0]}
	sum := 0
	for _, v := range values {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
		sum += v
	}
	s.Mean = float64(sum) / float64(len(values))
	return s
}

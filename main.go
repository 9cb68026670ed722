package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"

	"towngen/internal/catalog"
	"towngen/internal/config"
	"towngen/internal/grid"
	"towngen/internal/render"
	"towngen/internal/survey"
	"towngen/internal/town"
)

func main() {
	var configPath string
	var catalogPath string
	var seed int64
	var ascii bool
	var pngPath string
	var surveyRuns int
	var workers int

	flag.StringVar(&configPath, "config", "config.yaml", "configuration file")
	flag.StringVar(&catalogPath, "catalog", "", "building catalog (default: the config's buildings.catalog)")
	flag.Int64Var(&seed, "seed", 0, "generation seed (default: the config's seed, else the clock)")
	flag.BoolVar(&ascii, "ascii", false, "print the terrain grid")
	flag.StringVar(&pngPath, "png", "", "write the terrain as a PNG image")
	flag.IntVar(&surveyRuns, "survey", 0, "generate this many consecutive seeds and report on them")
	flag.IntVar(&workers, "workers", 0, "survey workers (0: one per CPU)")
	flag.Parse()

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	cfg := loadConfig(configPath)
	if catalogPath == "" {
		catalogPath = cfg.Buildings.Catalog
	}
	cat, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		log.Printf("Warning: Failed to load building catalog: %v", err)
		cat = catalog.Default()
	}

	if surveyRuns > 0 {
		first := seed
		if !seedSet && cfg.Town.Seed != nil {
			first = *cfg.Town.Seed
		}
		if err := runSurvey(cfg, cat, survey.Seeds(first, surveyRuns), workers); err != nil {
			log.Fatal(err)
		}
		return
	}

	gen := town.NewGenerator(cfg, cat)
	var seedArg *int64
	if seedSet {
		seedArg = &seed
	}
	t, err := gen.Generate(seedArg)
	if err != nil {
		log.Fatal(err)
	}

	printSummary(t)
	if ascii {
		fmt.Print(t.Grid.String())
	}
	if pngPath != "" {
		if err := writePNG(pngPath, t, cfg.GetCellSize()); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote %s", pngPath)
	}
}

// loadConfig reads path, falling back to the built-in defaults when the
// file does not exist.
func loadConfig(path string) *config.Config {
	cfg, err := config.LoadConfig(path)
	if err == nil {
		return cfg
	}
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: %s not found, using defaults", path)
		return config.Default()
	}
	log.Fatalf("Failed to load config: %v", err)
	return nil
}

func printSummary(t *town.Town) {
	fmt.Printf("town %s seed=%d size=%dx%d plots=%d placements=%d\n",
		t.ID, t.Seed, t.Grid.Width(), t.Grid.Height(), len(t.Tree.Leaves), len(t.Placements))

	counts := t.CountByKind()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-12s %d\n", k, counts[town.Kind(k)])
	}

	terrain := t.Grid.Counts()
	fmt.Printf("  terrain      path=%d pavement=%d grass=%d obstacle=%d\n",
		terrain[grid.Path], terrain[grid.Pavement], terrain[grid.Grass], terrain[grid.Obstacle])
	fmt.Printf("  road cells   %d\n", len(t.Grid.RoadCells()))
	fmt.Printf("  gates        (%d,%d) (%d,%d) connected=%v\n",
		t.Gates[0].X, t.Gates[0].Y, t.Gates[1].X, t.Gates[1].Y, t.GatesConnected())
}

func writePNG(path string, t *town.Town, cellSize int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render.WritePNG(f, t, cellSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runSurvey(cfg *config.Config, cat *catalog.Catalog, seeds []int64, workers int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := survey.Run(ctx, cfg, cat, seeds, workers)
	if report != nil {
		printReport(report)
	}
	return err
}

func printReport(r *survey.Report) {
	fmt.Printf("=== Town Survey ===\n")
	fmt.Printf("generated=%d failed=%d distinct=%d total=%v slowest=%v\n",
		r.Generated, r.Failed, r.Distinct, r.Total, r.Slowest)
	fmt.Printf("plots:      %v\n", r.Plots)
	fmt.Printf("buildings:  %v\n", r.Buildings)
	fmt.Printf("road cells: %v\n", r.RoadCells)
	if len(r.Disconnected) > 0 {
		fmt.Printf("gates disconnected for seeds %v\n", r.Disconnected)
	}
	for _, res := range r.Results {
		if res.Err != nil {
			fmt.Printf("seed %d failed: %v\n", res.Seed, res.Err)
		}
	}
}

package config

import (
	"fmt"
	"math"
	"os"

	"towngen/internal/bsp"
	"towngen/internal/noise"

	"gopkg.in/yaml.v3"
)

// Config holds all generator configuration values
type Config struct {
	Town      TownConfig      `yaml:"town"`
	Noise     NoiseConfig     `yaml:"noise"`
	Buildings BuildingsConfig `yaml:"buildings"`
	Display   DisplayConfig   `yaml:"display"`
}

type TownConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	BorderSize  int    `yaml:"border_size"`
	MinPlotSize int    `yaml:"min_plot_size"`
	MaxPlotSize int    `yaml:"max_plot_size"`
	Seed        *int64 `yaml:"seed"`            // nil means a time-based seed
	TieBreak    string `yaml:"split_tie_break"` // random, vertical or horizontal
}

type NoiseConfig struct {
	Algorithm string           `yaml:"algorithm"` // perlin or simplex
	Tree      NoiseLayerConfig `yaml:"tree"`
	Bush      NoiseLayerConfig `yaml:"bush"`
	Grass     GrassNoiseConfig `yaml:"grass"`
	Building  NoiseLayerConfig `yaml:"building"`
}

type NoiseLayerConfig struct {
	Scale     float64 `yaml:"scale"`
	Threshold float64 `yaml:"threshold"`
}

type GrassNoiseConfig struct {
	Scale          float64 `yaml:"scale"`
	ThresholdSmall float64 `yaml:"threshold_small"` // one tuft above this
	ThresholdBig   float64 `yaml:"threshold_big"`   // two tufts above this
}

type BuildingsConfig struct {
	GapMin       float64 `yaml:"gap_min"`
	GapMax       float64 `yaml:"gap_max"`
	BorderGapMin float64 `yaml:"border_gap_min"`
	BorderGapMax float64 `yaml:"border_gap_max"`
	PlotInset    float64 `yaml:"plot_inset"`
	Catalog      string  `yaml:"catalog"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	CellSize     int    `yaml:"cell_size"`
	SidebarWidth int    `yaml:"sidebar_width"`
}

// Default returns the built-in configuration, used when no file is given.
func Default() *Config {
	return &Config{
		Town: TownConfig{
			Width:       80,
			Height:      64,
			BorderSize:  8,
			MinPlotSize: 10,
			MaxPlotSize: 24,
			TieBreak:    "random",
		},
		Noise: NoiseConfig{
			Algorithm: "perlin",
			Tree:      NoiseLayerConfig{Scale: 0.12, Threshold: 0.6},
			Bush:      NoiseLayerConfig{Scale: 0.2, Threshold: 0.65},
			Grass:     GrassNoiseConfig{Scale: 0.25, ThresholdSmall: 0.45, ThresholdBig: 0.7},
			Building:  NoiseLayerConfig{Scale: 0.1, Threshold: 0.2},
		},
		Buildings: BuildingsConfig{
			GapMin:       0.5,
			GapMax:       2.5,
			BorderGapMin: 0.5,
			BorderGapMax: 2.5,
			PlotInset:    2.5,
			Catalog:      "assets/buildings.yaml",
		},
		Display: DisplayConfig{
			ScreenWidth:  1024,
			ScreenHeight: 768,
			WindowTitle:  "Town Viewer",
			Resizable:    true,
			CellSize:     10,
			SidebarWidth: 200,
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the
// file keep their Default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", filename, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}

	return config, nil
}

// MustLoadConfig loads configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// borderBuildingGap is how far outside the road area border buildings
// start; the wall ring takes one more cell.
const borderBuildingGap = 2

// CheckBorderDepth rejects a border too thin for buildings maxDepth deep to
// stand between the border road and the wall ring.
func (c *Config) CheckBorderDepth(maxDepth float64) error {
	need := borderBuildingGap + int(math.Ceil(maxDepth)) + 1
	if c.Town.BorderSize < need {
		return fmt.Errorf("border_size %d cannot fit buildings %v deep (need %d)", c.Town.BorderSize, maxDepth, need)
	}
	return nil
}

// Validate rejects values the generator cannot work with.
func (c *Config) Validate() error {
	t := c.Town
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("town size %dx%d must be positive", t.Width, t.Height)
	}
	// The border road sits one cell inside the border; at 1 it would
	// overwrite the wall ring.
	if t.BorderSize < 2 {
		return fmt.Errorf("border_size %d must be at least 2", t.BorderSize)
	}
	if t.Width <= 2*t.BorderSize || t.Height <= 2*t.BorderSize {
		return fmt.Errorf("border_size %d leaves no room inside %dx%d", t.BorderSize, t.Width, t.Height)
	}
	if t.MinPlotSize <= 0 || t.MaxPlotSize <= 0 {
		return fmt.Errorf("plot sizes %d..%d must be positive", t.MinPlotSize, t.MaxPlotSize)
	}
	// Below 2*min-1 a plot can exceed max yet be too small to cut.
	if t.MaxPlotSize < 2*t.MinPlotSize-1 {
		return fmt.Errorf("max_plot_size %d must be at least 2*min_plot_size-1 (%d)", t.MaxPlotSize, 2*t.MinPlotSize-1)
	}
	if _, err := c.GetTieBreak(); err != nil {
		return err
	}

	switch c.GetNoiseAlgorithm() {
	case "", noise.Perlin, noise.Simplex:
	default:
		return fmt.Errorf("unknown noise algorithm %q", c.Noise.Algorithm)
	}
	thresholds := []struct {
		name  string
		value float64
	}{
		{"noise.tree.threshold", c.Noise.Tree.Threshold},
		{"noise.bush.threshold", c.Noise.Bush.Threshold},
		{"noise.grass.threshold_small", c.Noise.Grass.ThresholdSmall},
		{"noise.grass.threshold_big", c.Noise.Grass.ThresholdBig},
		{"noise.building.threshold", c.Noise.Building.Threshold},
	}
	for _, th := range thresholds {
		if th.value < 0 || th.value > 1 {
			return fmt.Errorf("%s %v outside [0, 1]", th.name, th.value)
		}
	}

	b := c.Buildings
	if b.GapMin > b.GapMax {
		return fmt.Errorf("buildings.gap_min %v exceeds gap_max %v", b.GapMin, b.GapMax)
	}
	if b.BorderGapMin > b.BorderGapMax {
		return fmt.Errorf("buildings.border_gap_min %v exceeds border_gap_max %v", b.BorderGapMin, b.BorderGapMax)
	}
	if b.PlotInset < 0 {
		return fmt.Errorf("buildings.plot_inset %v is negative", b.PlotInset)
	}
	return nil
}

// Getter methods for easy access

func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetCellSize() int {
	if c.Display.CellSize <= 0 {
		return 1
	}
	return c.Display.CellSize
}

func (c *Config) GetTownWidth() int {
	return c.Town.Width
}

func (c *Config) GetTownHeight() int {
	return c.Town.Height
}

func (c *Config) GetBorderSize() int {
	return c.Town.BorderSize
}

// GetRoadAreaWidth is the width inside the border, the extent partitioned
// into plots.
func (c *Config) GetRoadAreaWidth() int {
	return c.Town.Width - 2*c.Town.BorderSize
}

func (c *Config) GetRoadAreaHeight() int {
	return c.Town.Height - 2*c.Town.BorderSize
}

func (c *Config) GetTieBreak() (bsp.TieBreak, error) {
	return bsp.ParseTieBreak(c.Town.TieBreak)
}

func (c *Config) GetPartitionOptions() bsp.Options {
	tb, _ := c.GetTieBreak()
	return bsp.Options{
		MinSize:  c.Town.MinPlotSize,
		MaxSize:  c.Town.MaxPlotSize,
		TieBreak: tb,
	}
}

func (c *Config) GetNoiseAlgorithm() noise.Algorithm {
	return noise.Algorithm(c.Noise.Algorithm)
}

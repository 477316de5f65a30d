package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/OCharnyshevich/terrain-grid/internal/grid"
	"github.com/OCharnyshevich/terrain-grid/internal/noise"
)

// Config holds the generator configuration.
type Config struct {
	Seed     int64  `json:"seed"`
	SeedText string `json:"seed_text"` // hashed into Seed when set
	Preset   string `json:"preset"`    // overrides the noise fields when set

	PresetsFile string `json:"presets_file"` // YAML catalog of extra presets

	SizeX       int     `json:"size_x"`
	SizeZ       int     `json:"size_z"`
	CellSpacing float64 `json:"cell_spacing"`
	HeightScale float64 `json:"height_scale"`

	Scale       float64 `json:"scale"`
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Lacunarity  float64 `json:"lacunarity"`

	Workers  int    `json:"workers"` // 0 = GOMAXPROCS
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SizeX:       20,
		SizeZ:       20,
		CellSpacing: 1.1,
		HeightScale: 3,
		Scale:       0.125,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
		LogLevel:    "info",
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["seed-text"] {
		cfg.SeedText = fromFile.SeedText
	}
	if !explicitFlags["preset"] {
		cfg.Preset = fromFile.Preset
	}
	if !explicitFlags["presets-file"] {
		cfg.PresetsFile = fromFile.PresetsFile
	}
	if !explicitFlags["size-x"] {
		cfg.SizeX = fromFile.SizeX
	}
	if !explicitFlags["size-z"] {
		cfg.SizeZ = fromFile.SizeZ
	}
	if !explicitFlags["spacing"] {
		cfg.CellSpacing = fromFile.CellSpacing
	}
	if !explicitFlags["height-scale"] {
		cfg.HeightScale = fromFile.HeightScale
	}
	if !explicitFlags["scale"] {
		cfg.Scale = fromFile.Scale
	}
	if !explicitFlags["octaves"] {
		cfg.Octaves = fromFile.Octaves
	}
	if !explicitFlags["persistence"] {
		cfg.Persistence = fromFile.Persistence
	}
	if !explicitFlags["lacunarity"] {
		cfg.Lacunarity = fromFile.Lacunarity
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
}

// Validate checks cfg for values that would make generation fail. Noise
// parameters are only checked when no preset is selected.
func (c *Config) Validate() error {
	if c.Preset == "" {
		if err := c.NoiseParams().Validate(); err != nil {
			return err
		}
	}
	if err := c.GridParams().Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", noise.ErrInvalidConfig, c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ResolveSeed returns the seed to generate with. A non-empty SeedText takes
// precedence and is hashed with xxhash.
func (c *Config) ResolveSeed() int64 {
	if c.SeedText != "" {
		return int64(xxhash.Sum64String(c.SeedText))
	}
	return c.Seed
}

// NoiseParams returns the noise fields of cfg.
func (c *Config) NoiseParams() noise.Params {
	return noise.Params{
		Scale:       c.Scale,
		Octaves:     c.Octaves,
		Persistence: c.Persistence,
		Lacunarity:  c.Lacunarity,
	}
}

// GridParams returns the grid fields of cfg.
func (c *Config) GridParams() grid.Params {
	return grid.Params{
		SizeX:       c.SizeX,
		SizeZ:       c.SizeZ,
		CellSpacing: c.CellSpacing,
		HeightScale: c.HeightScale,
	}
}

// Level parses LogLevel. An empty value means info.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", noise.ErrInvalidConfig, c.LogLevel)
}

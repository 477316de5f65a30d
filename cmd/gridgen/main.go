package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/OCharnyshevich/terrain-grid/internal/config"
	"github.com/OCharnyshevich/terrain-grid/internal/grid"
	"github.com/OCharnyshevich/terrain-grid/internal/scene"
)

func main() {
	cfg := config.DefaultConfig()

	var (
		configSrc   = flag.String("config", "", "config file path or go-getter URL (.json, .toml, .yaml)")
		render      = flag.Bool("render", false, "print an ASCII height map to stdout")
		listPresets = flag.Bool("list-presets", false, "list available presets and exit")
	)
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "terrain seed")
	flag.StringVar(&cfg.SeedText, "seed-text", cfg.SeedText, "text hashed into the terrain seed (overrides -seed)")
	flag.StringVar(&cfg.Preset, "preset", cfg.Preset, "named noise preset (overrides noise flags)")
	flag.StringVar(&cfg.PresetsFile, "presets-file", cfg.PresetsFile, "YAML catalog of extra presets")
	flag.IntVar(&cfg.SizeX, "size-x", cfg.SizeX, "grid cells along X")
	flag.IntVar(&cfg.SizeZ, "size-z", cfg.SizeZ, "grid cells along Z")
	flag.Float64Var(&cfg.CellSpacing, "spacing", cfg.CellSpacing, "distance between adjacent cells")
	flag.Float64Var(&cfg.HeightScale, "height-scale", cfg.HeightScale, "multiplier applied to normalised height")
	flag.Float64Var(&cfg.Scale, "scale", cfg.Scale, "noise frequency multiplier")
	flag.IntVar(&cfg.Octaves, "octaves", cfg.Octaves, "number of noise octaves")
	flag.Float64Var(&cfg.Persistence, "persistence", cfg.Persistence, "amplitude factor per octave")
	flag.Float64Var(&cfg.Lacunarity, "lacunarity", cfg.Lacunarity, "frequency factor per octave")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "height workers (0 = GOMAXPROCS)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var level slog.LevelVar
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *configSrc != "" {
		path, err := config.Fetch(ctx, *configSrc, filepath.Join(os.TempDir(), "terrain-grid"))
		if err != nil {
			log.Error("fetch config", "source", *configSrc, "error", err)
			os.Exit(1)
		}
		fromFile, err := config.Load(path)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		config.Merge(cfg, fromFile, explicit)
		log.Debug("loaded config from file", "path", path)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	lvl, _ := cfg.Level()
	level.Set(lvl)

	var extra []grid.Preset
	if cfg.PresetsFile != "" {
		var err error
		if extra, err = grid.LoadPresets(cfg.PresetsFile); err != nil {
			log.Error("load presets", "error", err)
			os.Exit(1)
		}
		log.Debug("loaded presets", "path", cfg.PresetsFile, "count", len(extra))
	}

	if *listPresets {
		printPresets(os.Stdout, append(extra, grid.Presets()...))
		return
	}

	world := scene.NewWorld(0)
	gen := grid.New(world, log, cfg.Workers)
	seed := cfg.ResolveSeed()
	gp := cfg.GridParams()

	var err error
	if cfg.Preset != "" {
		err = gen.ApplyPreset(cfg.Preset, seed, gp, extra...)
	} else {
		err = gen.Regenerate(seed, cfg.NoiseParams(), gp)
	}
	if err != nil {
		log.Error("generate grid", "error", err)
		os.Exit(1)
	}

	field := gen.Field()
	attrs := []any{
		"seed", seed,
		"sizeX", gp.SizeX,
		"sizeZ", gp.SizeZ,
		"units", world.Len(),
		"minHeight", field.Min() * gp.HeightScale,
		"maxHeight", field.Max() * gp.HeightScale,
		"digest", fmt.Sprintf("%016x", world.Digest()),
	}
	if peak, ok := world.Peak(); ok {
		attrs = append(attrs, "peak", fmt.Sprintf("(%.2f, %.2f, %.2f)", peak.Pos.X(), peak.Pos.Y(), peak.Pos.Z()))
	}
	log.Info("grid generated", attrs...)

	if *render {
		renderField(os.Stdout, field)
	}
}

func printPresets(w io.Writer, presets []grid.Preset) {
	title := cases.Title(language.English)
	seen := make(map[string]bool)
	for _, p := range presets {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		fmt.Fprintf(w, "%-20s scale=%g octaves=%d persistence=%g lacunarity=%g\n",
			title.String(p.Name), p.Noise.Scale, p.Noise.Octaves, p.Noise.Persistence, p.Noise.Lacunarity)
	}
}

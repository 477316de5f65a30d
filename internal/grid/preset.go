package grid

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/terrain-grid/internal/noise"
)

// ErrUnknownPreset is returned when a preset name is not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named set of noise parameters.
type Preset struct {
	Name  string
	Noise noise.Params
}

var builtinPresets = []Preset{
	{Name: "smooth mountains", Noise: noise.Params{Scale: 0.05, Octaves: 4, Persistence: 0.5, Lacunarity: 2.0}},
	{Name: "gentle hills", Noise: noise.Params{Scale: 0.02, Octaves: 2, Persistence: 0.3, Lacunarity: 1.8}},
	{Name: "chaotic terrain", Noise: noise.Params{Scale: 0.15, Octaves: 8, Persistence: 0.65, Lacunarity: 2.5}},
}

// Presets returns the built-in presets sorted by name.
func Presets() []Preset {
	out := append([]Preset(nil), builtinPresets...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupPreset finds name among the built-in presets and extra, ignoring
// case and surrounding whitespace. Entries in extra shadow built-ins.
func LookupPreset(name string, extra ...Preset) (Preset, error) {
	key := normalizePresetName(name)
	for _, p := range extra {
		if normalizePresetName(p.Name) == key {
			return p, nil
		}
	}
	for _, p := range builtinPresets {
		if p.Name == key {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// ApplyPreset sets the noise parameters of the named preset and regenerates
// the grid with them.
func (g *Generator) ApplyPreset(name string, seed int64, gp Params, extra ...Preset) error {
	p, err := LookupPreset(name, extra...)
	if err != nil {
		return err
	}
	g.log.Info("applying preset", "preset", p.Name, "seed", seed)
	return g.Regenerate(seed, p.Noise, gp)
}

type presetFile struct {
	Presets []struct {
		Name        string  `yaml:"name"`
		Scale       float64 `yaml:"scale"`
		Octaves     int     `yaml:"octaves"`
		Persistence float64 `yaml:"persistence"`
		Lacunarity  float64 `yaml:"lacunarity"`
	} `yaml:"presets"`
}

// LoadPresets reads a YAML preset catalog of the form
//
//	presets:
//	  - name: islands
//	    scale: 0.08
//	    octaves: 5
//	    persistence: 0.45
//	    lacunarity: 2.1
//
// Every entry must have a name and valid noise parameters.
func LoadPresets(path string) ([]Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	var pf presetFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make([]Preset, 0, len(pf.Presets))
	for i, e := range pf.Presets {
		name := normalizePresetName(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: preset %d: %w: missing name", path, i, noise.ErrInvalidConfig)
		}
		p := Preset{
			Name: name,
			Noise: noise.Params{
				Scale:       e.Scale,
				Octaves:     e.Octaves,
				Persistence: e.Persistence,
				Lacunarity:  e.Lacunarity,
			},
		}
		if err := p.Noise.Validate(); err != nil {
			return nil, fmt.Errorf("%s: preset %q: %w", path, name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func normalizePresetName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

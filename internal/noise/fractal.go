package noise

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned for parameter sets that cannot produce a
// well-defined height value.
var ErrInvalidConfig = errors.New("invalid configuration")

// Params controls fractal noise generation.
type Params struct {
	// Scale multiplies raw grid coordinates before sampling.
	Scale float64 `json:"scale"`
	// Octaves is the number of noise layers summed. Must be at least 1.
	Octaves int `json:"octaves"`
	// Persistence is the amplitude factor applied per octave.
	Persistence float64 `json:"persistence"`
	// Lacunarity is the frequency factor applied per octave.
	Lacunarity float64 `json:"lacunarity"`
}

// Validate reports whether p can be used for Accumulate.
func (p Params) Validate() error {
	if !finite(p.Scale) {
		return fmt.Errorf("%w: scale %v is not finite", ErrInvalidConfig, p.Scale)
	}
	if err := checkOctaves(p.Octaves, p.Persistence, p.Lacunarity); err != nil {
		return err
	}

	// Reject schedules whose frequency or amplitude sum overflows.
	amplitude, frequency, maxVal := 1.0, 1.0, 0.0
	for i := range p.Octaves {
		if !finite(frequency) {
			return fmt.Errorf("%w: frequency overflows at octave %d", ErrInvalidConfig, i)
		}
		maxVal += amplitude
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
	}
	if !finite(maxVal) {
		return fmt.Errorf("%w: total amplitude overflows", ErrInvalidConfig)
	}
	return nil
}

func checkOctaves(octaves int, persistence, lacunarity float64) error {
	if octaves < 1 {
		return fmt.Errorf("%w: octave count %d, need at least 1", ErrInvalidConfig, octaves)
	}
	if !finite(persistence) || persistence < 0 {
		return fmt.Errorf("%w: persistence %v must be finite and non-negative", ErrInvalidConfig, persistence)
	}
	if !finite(lacunarity) {
		return fmt.Errorf("%w: lacunarity %v is not finite", ErrInvalidConfig, lacunarity)
	}
	return nil
}

// Accumulate layers octaves of Sample at increasing frequency and decreasing
// amplitude. The sum is divided by the total amplitude, so the result stays
// in [0, 1] for any octave count. Schedules whose frequency or amplitude sum
// leave the float64 range are rejected with ErrInvalidConfig.
func (t *Table) Accumulate(x, y float64, octaves int, persistence, lacunarity float64) (float64, error) {
	if err := checkOctaves(octaves, persistence, lacunarity); err != nil {
		return 0, err
	}

	var total, maxVal float64
	amplitude := 1.0
	frequency := 1.0

	for i := range octaves {
		if !finite(frequency) {
			return 0, fmt.Errorf("%w: frequency overflows at octave %d", ErrInvalidConfig, i)
		}
		total += t.Sample(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}

	v := total / maxVal
	if !(maxVal > 0) || !finite(maxVal) || !finite(v) {
		return 0, fmt.Errorf("%w: amplitude sum %v cannot normalise", ErrInvalidConfig, maxVal)
	}
	return clamp01(v), nil
}

// Height returns the fractal value for grid cell (x, z) under p.
func (t *Table) Height(x, z int, p Params) (float64, error) {
	return t.Accumulate(float64(x)*p.Scale, float64(z)*p.Scale, p.Octaves, p.Persistence, p.Lacunarity)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

package grid

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/OCharnyshevich/terrain-grid/internal/noise"
)

// ErrSinkFailure wraps errors returned by a Sink.
var ErrSinkFailure = errors.New("sink failure")

// Sink receives placement and removal requests for grid units. The generator
// never inspects a unit beyond the handle returned by Place.
type Sink interface {
	Place(pos mgl32.Vec3) (uuid.UUID, error)
	Remove(id uuid.UUID) error
}

// Generator places one unit per grid cell at the height given by fractal
// noise, clearing its previous units first.
type Generator struct {
	sink    Sink
	log     *slog.Logger
	workers int

	mu     sync.Mutex
	placed []uuid.UUID
	field  *Field
}

// New creates a Generator that submits units to sink. workers bounds the
// goroutines used to compute heights; 0 or lower uses GOMAXPROCS. A nil log
// falls back to slog.Default().
func New(sink Sink, log *slog.Logger, workers int) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{sink: sink, log: log, workers: workers}
}

// Regenerate removes every unit placed by a previous call, then places one
// unit per cell of gp using a permutation table freshly built from seed.
//
// Invalid parameters and height errors are reported before the sink is
// touched. Sink errors abort the call immediately; units placed so far stay
// tracked and are removed by the next call.
func (g *Generator) Regenerate(seed int64, np noise.Params, gp Params) error {
	if err := np.Validate(); err != nil {
		return err
	}
	if err := gp.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Heights are computed before the sink is touched so a failing height
	// leaves the previous units in place.
	field, err := computeField(noise.Build(seed), np, gp, g.workers)
	if err != nil {
		return err
	}

	removed, err := g.clearLocked()
	if err != nil {
		return err
	}
	g.field = field

	g.placed = make([]uuid.UUID, 0, gp.Cells())
	for x := 0; x < gp.SizeX; x++ {
		for z := 0; z < gp.SizeZ; z++ {
			pos := gp.Position(x, z, g.field.At(x, z))
			id, err := g.sink.Place(pos)
			if err != nil {
				return fmt.Errorf("%w: place unit at cell (%d, %d): %w", ErrSinkFailure, x, z, err)
			}
			g.placed = append(g.placed, id)
		}
	}

	g.log.Debug("grid regenerated",
		"seed", seed,
		"sizeX", gp.SizeX,
		"sizeZ", gp.SizeZ,
		"octaves", np.Octaves,
		"removed", removed,
		"placed", len(g.placed),
	)
	return nil
}

// Clear removes every unit placed by the generator.
func (g *Generator) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, err := g.clearLocked()
	return err
}

func (g *Generator) clearLocked() (int, error) {
	removed := 0
	for i, id := range g.placed {
		if err := g.sink.Remove(id); err != nil {
			g.placed = g.placed[i:]
			return removed, fmt.Errorf("%w: remove unit %s: %w", ErrSinkFailure, id, err)
		}
		removed++
	}
	g.placed = nil
	g.field = nil
	return removed, nil
}

// Placed returns the number of units currently tracked by the generator.
func (g *Generator) Placed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.placed)
}

// Field returns the height field of the last successful computation, or nil
// if nothing has been generated since the last clear.
func (g *Generator) Field() *Field {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.field
}

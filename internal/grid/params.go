package grid

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/terrain-grid/internal/noise"
)

// MaxCells bounds SizeX*SizeZ so the height field can always be allocated.
const MaxCells = 1 << 30

// Params describes the grid that units are placed on.
type Params struct {
	SizeX int `json:"size_x"`
	SizeZ int `json:"size_z"`
	// CellSpacing is the distance between adjacent cell centres.
	CellSpacing float64 `json:"cell_spacing"`
	// HeightScale multiplies the normalised noise value to get a world height.
	HeightScale float64 `json:"height_scale"`
	// Origin is added to every emitted position, e.g. the position of the
	// node the units are attached to.
	Origin mgl32.Vec3 `json:"origin"`
}

// Validate checks that p describes a grid that can be generated.
func (p Params) Validate() error {
	if p.SizeX < 0 || p.SizeZ < 0 {
		return fmt.Errorf("%w: grid size %dx%d is negative", noise.ErrInvalidConfig, p.SizeX, p.SizeZ)
	}
	if p.SizeX > 0 && p.SizeZ > MaxCells/p.SizeX {
		return fmt.Errorf("%w: grid size %dx%d exceeds %d cells", noise.ErrInvalidConfig, p.SizeX, p.SizeZ, MaxCells)
	}
	if math.IsNaN(p.CellSpacing) || math.IsInf(p.CellSpacing, 0) {
		return fmt.Errorf("%w: cell spacing %v is not finite", noise.ErrInvalidConfig, p.CellSpacing)
	}
	if math.IsNaN(p.HeightScale) || math.IsInf(p.HeightScale, 0) {
		return fmt.Errorf("%w: height scale %v is not finite", noise.ErrInvalidConfig, p.HeightScale)
	}
	return nil
}

// Cells returns the number of cells in the grid.
func (p Params) Cells() int {
	return p.SizeX * p.SizeZ
}

// Position returns the world position of cell (x, z) with normalised height h.
func (p Params) Position(x, z int, h float64) mgl32.Vec3 {
	return p.Origin.Add(mgl32.Vec3{
		float32(float64(x) * p.CellSpacing),
		float32(h * p.HeightScale),
		float32(float64(z) * p.CellSpacing),
	})
}

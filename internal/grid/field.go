package grid

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/terrain-grid/internal/noise"
)

// Field holds normalised heights in [0, 1] for every cell of a grid.
// Index = x*SizeZ + z, matching the placement order.
type Field struct {
	SizeX, SizeZ int
	Heights      []float64
}

// Heights computes the height field for seed and np over grid gp. Rows are
// sampled concurrently by at most workers goroutines (0 = GOMAXPROCS); the
// table is read-only so no synchronisation is needed beyond the final wait.
func Heights(seed int64, np noise.Params, gp Params, workers int) (*Field, error) {
	if err := np.Validate(); err != nil {
		return nil, err
	}
	if err := gp.Validate(); err != nil {
		return nil, err
	}
	return computeField(noise.Build(seed), np, gp, workers)
}

func computeField(tbl *noise.Table, np noise.Params, gp Params, workers int) (*Field, error) {
	f := &Field{
		SizeX:   gp.SizeX,
		SizeZ:   gp.SizeZ,
		Heights: make([]float64, gp.Cells()),
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for x := 0; x < gp.SizeX; x++ {
		row := f.Heights[x*gp.SizeZ : (x+1)*gp.SizeZ]
		g.Go(func() error {
			for z := range row {
				h, err := tbl.Height(x, z, np)
				if err != nil {
					return fmt.Errorf("height of cell (%d, %d): %w", x, z, err)
				}
				row[z] = h
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

// At returns the height of cell (x, z).
func (f *Field) At(x, z int) float64 {
	return f.Heights[x*f.SizeZ+z]
}

// Min returns the lowest height in the field, or 0 for an empty field.
func (f *Field) Min() float64 {
	if len(f.Heights) == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, h := range f.Heights {
		m = math.Min(m, h)
	}
	return m
}

// Max returns the highest height in the field, or 0 for an empty field.
func (f *Field) Max() float64 {
	if len(f.Heights) == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, h := range f.Heights {
		m = math.Max(m, h)
	}
	return m
}

// Digest returns a fingerprint of the field's dimensions and exact height bits.
func (f *Field) Digest() uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(f.SizeX))
	_, _ = d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(f.SizeZ))
	_, _ = d.Write(buf[:])
	for _, h := range f.Heights {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(h))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

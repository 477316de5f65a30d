package noise

import "math"

// Sample returns single-octave 2D gradient noise at (x, y).
// Output is in the range [0, 1]. The lattice wraps every 256 cells, so any
// finite coordinate is valid. Non-finite coordinates sample as a lattice
// point and return 0.5.
func (t *Table) Sample(x, y float64) float64 {
	if !finite(x) || !finite(y) {
		return 0.5
	}

	fx := math.Floor(x)
	fy := math.Floor(y)

	// Position inside the unit cell.
	x -= fx
	y -= fy

	cx := cell(fx)
	cy := cell(fy)

	u := fade(x)
	v := fade(y)

	p := &t.perm
	aa := p[p[cx]+cy]
	ab := p[p[cx]+cy+1]
	ba := p[p[cx+1]+cy]
	bb := p[p[cx+1]+cy+1]

	x1 := lerp(grad(aa, x, y), grad(ba, x-1, y), u)
	x2 := lerp(grad(ab, x, y-1), grad(bb, x-1, y-1), u)

	return clamp01((lerp(x1, x2, v) + 1) / 2)
}

// cell wraps an integral lattice coordinate into [0, 255]. The reduction is
// done in floating point because f may be far outside the int range.
func cell(f float64) int {
	m := math.Mod(f, 256)
	if m < 0 {
		m += 256
	}
	return int(m)
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// grad picks one of eight gradient directions from the low bits of hash.
func grad(hash int, x, y float64) float64 {
	h := hash & 7
	u, v := x, y
	if h >= 4 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// clamp01 limits v to [0, 1]. NaN maps to the midpoint.
func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0.5
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

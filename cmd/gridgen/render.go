package main

import (
	"bufio"
	"io"

	"github.com/OCharnyshevich/terrain-grid/internal/grid"
)

// heightRamp maps normalised heights to characters, lowest first.
const heightRamp = " .:-=+*#%@"

// renderField writes one line per X row with one character per Z cell.
func renderField(w io.Writer, f *grid.Field) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for x := 0; x < f.SizeX; x++ {
		for z := 0; z < f.SizeZ; z++ {
			_ = bw.WriteByte(rampChar(f.At(x, z)))
		}
		_ = bw.WriteByte('\n')
	}
}

func rampChar(h float64) byte {
	i := int(h * float64(len(heightRamp)))
	if i < 0 {
		i = 0
	}
	if i >= len(heightRamp) {
		i = len(heightRamp) - 1
	}
	return heightRamp[i]
}

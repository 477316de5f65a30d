package noise

// Table is a seeded permutation of 0..255 doubled to 512 entries so that
// lookups offset by one never need to wrap.
//
// A Table is immutable once built and safe for concurrent reads.
type Table struct {
	perm [512]int
}

// LCG constants (Knuth MMIX). The shuffle is pinned to this generator so a
// seed reproduces the same table on every platform.
const (
	lcgMul = 6364136223846793005
	lcgInc = 1442695040888963407
)

// Build creates a permutation table from seed using a Fisher-Yates shuffle
// driven by a 64-bit LCG. Every seed is valid.
func Build(seed int64) *Table {
	var p [256]int
	for i := range p {
		p[i] = i
	}

	s := uint64(seed)
	for i := 255; i > 0; i-- {
		s = s*lcgMul + lcgInc
		j := int((s>>33)&0x7FFFFFFF) % (i + 1)
		p[i], p[j] = p[j], p[i]
	}

	t := &Table{}
	for i := range t.perm {
		t.perm[i] = p[i&255]
	}
	return t
}

// At returns the table entry at index i, which must be in [0, 512).
func (t *Table) At(i int) int {
	return t.perm[i]
}

// Values returns a copy of the full 512-entry table.
func (t *Table) Values() [512]int {
	return t.perm
}

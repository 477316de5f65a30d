package scene

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var (
	// ErrUnknownUnit is returned when removing a handle the world does not hold.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrFull is returned by Place once the world holds its maximum number of units.
	ErrFull = errors.New("world is full")
)

// Unit is a block placed in the world.
type Unit struct {
	ID  uuid.UUID
	Pos mgl32.Vec3
	seq uint64
}

// World is an in-memory scene that tracks placed units. It is safe for
// concurrent use.
type World struct {
	mu       sync.RWMutex
	units    map[uuid.UUID]Unit
	maxUnits int
	seq      uint64

	placeCalls, removeCalls int
}

// NewWorld creates an empty World. maxUnits limits how many units may exist at
// once; 0 means unlimited.
func NewWorld(maxUnits int) *World {
	return &World{
		units:    make(map[uuid.UUID]Unit),
		maxUnits: maxUnits,
	}
}

// Place adds a unit at pos and returns its handle.
func (w *World) Place(pos mgl32.Vec3) (uuid.UUID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.placeCalls++
	if w.maxUnits > 0 && len(w.units) >= w.maxUnits {
		return uuid.Nil, ErrFull
	}

	id := uuid.New()
	w.seq++
	w.units[id] = Unit{ID: id, Pos: pos, seq: w.seq}
	return id, nil
}

// Remove deletes the unit with the given handle.
func (w *World) Remove(id uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.removeCalls++
	if _, ok := w.units[id]; !ok {
		return ErrUnknownUnit
	}
	delete(w.units, id)
	return nil
}

// Len returns the number of units in the world.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.units)
}

// Calls returns how many Place and Remove calls the world has received.
func (w *World) Calls() (place, remove int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.placeCalls, w.removeCalls
}

// ForEach calls fn for every unit in placement order. fn sees a snapshot
// taken before the first call and may itself Place or Remove units.
func (w *World) ForEach(fn func(u Unit)) {
	w.mu.RLock()
	units := w.sortedLocked()
	w.mu.RUnlock()

	for _, u := range units {
		fn(u)
	}
}

// Peak returns the highest unit in the world. ok is false if the world is empty.
func (w *World) Peak() (u Unit, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, cur := range w.sortedLocked() {
		if !ok || cur.Pos.Y() > u.Pos.Y() {
			u, ok = cur, true
		}
	}
	return u, ok
}

// Digest fingerprints the positions of all units in placement order. Handles
// are excluded so two worlds with identical layouts produce the same digest.
func (w *World) Digest() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	d := xxhash.New()
	var buf [4]byte
	for _, u := range w.sortedLocked() {
		for _, c := range u.Pos {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(c))
			_, _ = d.Write(buf[:])
		}
	}
	return d.Sum64()
}

func (w *World) sortedLocked() []Unit {
	out := make([]Unit, 0, len(w.units))
	for _, u := range w.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

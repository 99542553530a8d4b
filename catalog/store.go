package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCapacityExceeded is returned when a record is appended to a full Store.
var ErrCapacityExceeded = errors.New("catalog: store capacity exceeded")

// Mask selects which columns a Store carries.
type Mask uint32

const (
	Position Mask = 1 << iota
	Velocity
	ID
	AEmit
	Potential
	Tidal
	Lagrangian
	// Source is the index of the record in the store it was sampled from.
	Source
)

var maskNames = []string{
	"Position", "Velocity", "ID", "AEmit",
	"Potential", "Tidal", "Lagrangian", "Source",
}

func (m Mask) String() string {
	names := []string{}
	for i, name := range maskNames {
		if m&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

// Record is a single row of a Store. Fields which the target store does not
// carry are ignored by Append.
type Record struct {
	X         [3]float64
	V         [3]float32
	ID        int64
	AEmit     float64
	Potential float64
	Tidal     [6]float64
	Q         [3]float64
	Source    int
}

// Store is an append-only columnar particle container with a capacity that
// is fixed at construction. Only the columns selected by its Mask are
// allocated.
//
// The column accessors return slices of length Len() which alias the
// store's memory, so values may be updated in place. A Store is not safe for
// concurrent appends.
type Store struct {
	mask     Mask
	n, limit int

	x         [][3]float64
	v         [][3]float32
	id        []int64
	aEmit     []float64
	potential []float64
	tidal     [][6]float64
	q         [][3]float64
	source    []int64
}

// NewStore allocates a store which can hold up to capacity records.
func NewStore(capacity int, mask Mask) *Store {
	if capacity < 0 {
		panic(fmt.Sprintf("Store capacity must be non-negative, but is %d.", capacity))
	}

	s := &Store{mask: mask, limit: capacity}
	if s.Has(Position) {
		s.x = make([][3]float64, capacity)
	}
	if s.Has(Velocity) {
		s.v = make([][3]float32, capacity)
	}
	if s.Has(ID) {
		s.id = make([]int64, capacity)
	}
	if s.Has(AEmit) {
		s.aEmit = make([]float64, capacity)
	}
	if s.Has(Potential) {
		s.potential = make([]float64, capacity)
	}
	if s.Has(Tidal) {
		s.tidal = make([][6]float64, capacity)
	}
	if s.Has(Lagrangian) {
		s.q = make([][3]float64, capacity)
	}
	if s.Has(Source) {
		s.source = make([]int64, capacity)
	}
	return s
}

// Has returns true if the store carries every column in m.
func (s *Store) Has(m Mask) bool { return s.mask&m == m }

// Mask returns the columns carried by the store.
func (s *Store) Mask() Mask { return s.mask }

// Len returns the number of records in the store.
func (s *Store) Len() int { return s.n }

// Cap returns the maximum number of records the store can hold.
func (s *Store) Cap() int { return s.limit }

// Append adds r to the end of the store and returns its index. If the store
// is full, nothing is written and the returned error wraps
// ErrCapacityExceeded.
func (s *Store) Append(r *Record) (int, error) {
	if s.n >= s.limit {
		return -1, fmt.Errorf(
			"%w: cannot append record %d to a store with capacity %d",
			ErrCapacityExceeded, s.n+1, s.limit,
		)
	}

	i := s.n
	if s.x != nil {
		s.x[i] = r.X
	}
	if s.v != nil {
		s.v[i] = r.V
	}
	if s.id != nil {
		s.id[i] = r.ID
	}
	if s.aEmit != nil {
		s.aEmit[i] = r.AEmit
	}
	if s.potential != nil {
		s.potential[i] = r.Potential
	}
	if s.tidal != nil {
		s.tidal[i] = r.Tidal
	}
	if s.q != nil {
		s.q[i] = r.Q
	}
	if s.source != nil {
		s.source[i] = int64(r.Source)
	}
	s.n++
	return i, nil
}

// Record returns a copy of the i-th record.
func (s *Store) Record(i int) Record {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("Record index %d out of range [0, %d).", i, s.n))
	}

	r := Record{}
	if s.x != nil {
		r.X = s.x[i]
	}
	if s.v != nil {
		r.V = s.v[i]
	}
	if s.id != nil {
		r.ID = s.id[i]
	}
	if s.aEmit != nil {
		r.AEmit = s.aEmit[i]
	}
	if s.potential != nil {
		r.Potential = s.potential[i]
	}
	if s.tidal != nil {
		r.Tidal = s.tidal[i]
	}
	if s.q != nil {
		r.Q = s.q[i]
	}
	if s.source != nil {
		r.Source = int(s.source[i])
	}
	return r
}

// Reset empties the store without releasing its memory.
func (s *Store) Reset() { s.n = 0 }

// X returns the positions, or nil if the store has no Position column.
func (s *Store) X() [][3]float64 { return trim3(s.x, s.n) }

// V returns the velocities, or nil if the store has no Velocity column.
func (s *Store) V() [][3]float32 {
	if s.v == nil {
		return nil
	}
	return s.v[:s.n]
}

// IDs returns the particle IDs, or nil if the store has no ID column.
func (s *Store) IDs() []int64 {
	if s.id == nil {
		return nil
	}
	return s.id[:s.n]
}

// AEmit returns the emission scale factors, or nil if the store has no AEmit
// column.
func (s *Store) AEmit() []float64 { return trim(s.aEmit, s.n) }

// Potential returns the potentials, or nil if the store has no Potential
// column.
func (s *Store) Potential() []float64 { return trim(s.potential, s.n) }

// Tidal returns the tidal tensors (xx, yy, zz, xy, yz, zx), or nil if the
// store has no Tidal column.
func (s *Store) Tidal() [][6]float64 {
	if s.tidal == nil {
		return nil
	}
	return s.tidal[:s.n]
}

// Q returns the Lagrangian positions, or nil if the store has no Lagrangian
// column.
func (s *Store) Q() [][3]float64 { return trim3(s.q, s.n) }

// Sources returns the back-references, or nil if the store has no Source
// column.
func (s *Store) Sources() []int64 {
	if s.source == nil {
		return nil
	}
	return s.source[:s.n]
}

func trim(xs []float64, n int) []float64 {
	if xs == nil {
		return nil
	}
	return xs[:n]
}

func trim3(xs [][3]float64, n int) [][3]float64 {
	if xs == nil {
		return nil
	}
	return xs[:n]
}

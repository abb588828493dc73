package rack

import (
	"math"
	"slices"
)

// DefaultPrecision is the grid on which corner coordinates are matched.
// Corners closer than half of it collapse onto one support post.
const DefaultPrecision = 1e-6

type coordKey struct{ x, z int64 }

type supportEntry struct {
	at      Point
	heights []float64
}

// SupportMap records, for each corner coordinate, the set of floor heights
// at which a shelf edge touches it. Coordinates are kept in the order they
// were first registered, so the columns built from a map are deterministic.
//
// A SupportMap is not safe for concurrent use.
type SupportMap struct {
	precision float64
	index     map[coordKey]int
	entries   []supportEntry
}

// NewSupportMap creates an empty map matching coordinates on the given
// precision. A non-positive precision selects DefaultPrecision.
func NewSupportMap(precision float64) *SupportMap {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	return &SupportMap{
		precision: precision,
		index:     make(map[coordKey]int),
	}
}

func (m *SupportMap) key(p Point) coordKey {
	return coordKey{
		x: int64(math.Round(p.X / m.precision)),
		z: int64(math.Round(p.Z / m.precision)),
	}
}

// Register records that a shelf touches p at the given height.
// Heights already present at p are ignored.
func (m *SupportMap) Register(p Point, height float64) {
	k := m.key(p)
	i, ok := m.index[k]
	if !ok {
		i = len(m.entries)
		m.index[k] = i
		m.entries = append(m.entries, supportEntry{at: p})
	}
	e := &m.entries[i]
	if !slices.Contains(e.heights, height) {
		e.heights = append(e.heights, height)
	}
}

// RegisterFootprint records the four corners of f at its elevation.
func (m *SupportMap) RegisterFootprint(f Footprint) {
	for _, p := range f.Corners() {
		m.Register(p, f.Elevation)
	}
}

// Merge registers every coordinate and height of other into m, in other's order.
func (m *SupportMap) Merge(other *SupportMap) {
	for _, e := range other.entries {
		for _, h := range e.heights {
			m.Register(e.at, h)
		}
	}
}

// Len returns the number of distinct coordinates.
func (m *SupportMap) Len() int { return len(m.entries) }

// Heights returns the heights recorded at p in registration order,
// or nil if p was never registered.
func (m *SupportMap) Heights(p Point) []float64 {
	i, ok := m.index[m.key(p)]
	if !ok {
		return nil
	}
	return slices.Clone(m.entries[i].heights)
}

// Points returns the registered coordinates in registration order.
func (m *SupportMap) Points() []Point {
	out := make([]Point, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.at
	}
	return out
}

// BuildSupportColumns converts the recorded heights into post segments.
//
// For each coordinate the heights are sorted ascending and walked with a
// running base that starts at the ground: every height above the base emits
// a segment [base, height) and becomes the new base. A coordinate touched on
// floors 1 and 3 therefore gets two segments, ground to floor 1 and floor 1
// to floor 3.
func BuildSupportColumns(m *SupportMap) []SupportColumn {
	var out []SupportColumn
	for _, e := range m.entries {
		heights := slices.Clone(e.heights)
		slices.Sort(heights)

		prev := 0.0
		for _, h := range heights {
			if h > prev {
				out = append(out, SupportColumn{X: e.at.X, Z: e.at.Z, Base: prev, Top: h})
			}
			prev = h
		}
	}
	return out
}

package dbtune

import (
	"math"
	"strconv"
)

// PointSet is an ordered, immutable collection of points. Each point has a
// stable identifier and, optionally, a reference label from a prior
// grouping. Coordinates are stored flat in row-major order.
type PointSet struct {
	ids       []string
	data      []float64 // n * dims
	reference []string  // nil when no reference grouping is attached
	dims      int
}

// NewPointSet builds a PointSet from per-point coordinates. ids may be nil,
// in which case points are named by their position ("0", "1", ...).
// reference may be nil; otherwise it must have one entry per point.
func NewPointSet(ids []string, coords [][]float64, reference []string) (*PointSet, error) {
	n := len(coords)
	if ids != nil && len(ids) != n {
		return nil, invalidParamf("got %d ids for %d points", len(ids), n)
	}
	if reference != nil && len(reference) != n {
		return nil, invalidParamf("got %d reference labels for %d points", len(reference), n)
	}

	dims := 0
	if n > 0 {
		dims = len(coords[0])
		if dims == 0 {
			return nil, invalidParamf("points must have at least one coordinate")
		}
	}

	ps := &PointSet{
		ids:  make([]string, n),
		data: make([]float64, n*dims),
		dims: dims,
	}
	seen := make(map[string]int, n)
	for i, row := range coords {
		if len(row) != dims {
			return nil, invalidParamf("point %d has %d coordinates, want %d", i, len(row), dims)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, invalidParamf("point %d coordinate %d is not finite: %v", i, j, v)
			}
		}
		copy(ps.data[i*dims:], row)

		id := strconv.Itoa(i)
		if ids != nil {
			id = ids[i]
		}
		if prev, dup := seen[id]; dup {
			return nil, invalidParamf("duplicate identifier %q at points %d and %d", id, prev, i)
		}
		seen[id] = i
		ps.ids[i] = id
	}
	if reference != nil {
		ps.reference = append([]string(nil), reference...)
	}
	return ps, nil
}

// Len returns the number of points.
func (p *PointSet) Len() int { return len(p.ids) }

// Dims returns the dimensionality of every point.
func (p *PointSet) Dims() int { return p.dims }

// ID returns the identifier of point i.
func (p *PointSet) ID(i int) string { return p.ids[i] }

// IDs returns a copy of the identifiers in point order.
func (p *PointSet) IDs() []string { return append([]string(nil), p.ids...) }

// Point returns a copy of the coordinates of point i.
func (p *PointSet) Point(i int) []float64 {
	return append([]float64(nil), p.row(i)...)
}

// HasReference reports whether reference labels are attached.
func (p *PointSet) HasReference() bool { return p.reference != nil }

// Reference returns a copy of the reference labels, or nil.
func (p *PointSet) Reference() []string {
	if p.reference == nil {
		return nil
	}
	return append([]string(nil), p.reference...)
}

// ReferenceOf returns the reference label of point i, or "" when none is attached.
func (p *PointSet) ReferenceOf(i int) string {
	if p.reference == nil {
		return ""
	}
	return p.reference[i]
}

// IndexOf returns the position of the point with the given identifier.
func (p *PointSet) IndexOf(id string) (int, bool) {
	for i, v := range p.ids {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

// Subset returns a new PointSet holding the given points in the given order.
func (p *PointSet) Subset(indices []int) (*PointSet, error) {
	out := &PointSet{
		ids:  make([]string, len(indices)),
		data: make([]float64, len(indices)*p.dims),
		dims: p.dims,
	}
	if p.reference != nil {
		out.reference = make([]string, len(indices))
	}
	seen := make(map[int]bool, len(indices))
	for k, i := range indices {
		if i < 0 || i >= p.Len() {
			return nil, invalidParamf("subset index %d out of range [0, %d)", i, p.Len())
		}
		if seen[i] {
			return nil, invalidParamf("subset index %d repeated", i)
		}
		seen[i] = true
		out.ids[k] = p.ids[i]
		copy(out.data[k*p.dims:], p.row(i))
		if p.reference != nil {
			out.reference[k] = p.reference[i]
		}
	}
	return out, nil
}

// FilterByLabel returns the points assigned to label, keeping their order.
func (p *PointSet) FilterByLabel(a *Assignment, label int) (*PointSet, error) {
	if len(a.Labels) != p.Len() {
		return nil, invalidParamf("assignment has %d labels for %d points", len(a.Labels), p.Len())
	}
	return p.Subset(a.Members(label))
}

func (p *PointSet) row(i int) []float64 {
	return p.data[i*p.dims : (i+1)*p.dims]
}

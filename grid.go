package multilinear

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// A Grid is a rectilinear grid. It holds references to the caller's
// coordinate slices.
type Grid struct {
	axes [][]float64
	dims []int
	len  int
}

// NewGrid returns a new Grid with one axis per element of axes. Each axis
// must have at least two strictly increasing coordinates.
func NewGrid(axes ...[]float64) (*Grid, error) {
	dims := make([]int, len(axes))
	for k, axis := range axes {
		dims[k] = len(axis)
	}
	return NewGridWithDims(axes, dims)
}

// NewGridWithDims returns a new Grid whose axis k is axes[k][:dims[k]].
func NewGridWithDims(axes [][]float64, dims []int) (*Grid, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("grid has no axes: %w", ErrPreconditionViolation)
	}
	if len(axes) != len(dims) {
		return nil, fmt.Errorf("%d axes but %d dims: %w", len(axes), len(dims), ErrPreconditionViolation)
	}
	if len(axes) > MaxDomainDimension {
		return nil, fmt.Errorf("%d axes exceeds maximum of %d: %w", len(axes), MaxDomainDimension, ErrPreconditionViolation)
	}

	g := &Grid{
		axes: make([][]float64, len(axes)),
		dims: make([]int, len(dims)),
		len:  1,
	}
	for k, axis := range axes {
		n := dims[k]
		switch {
		case n < 2:
			return nil, fmt.Errorf("axis %d: %d nodes, need at least 2: %w", k, n, ErrPreconditionViolation)
		case len(axis) < n:
			return nil, fmt.Errorf("axis %d: %d coordinates, need %d: %w", k, len(axis), n, ErrPreconditionViolation)
		}
		axis = axis[:n:n]
		if floats.HasNaN(axis) {
			return nil, fmt.Errorf("axis %d: NaN coordinate: %w", k, ErrPreconditionViolation)
		}
		for i := 1; i < n; i++ {
			if axis[i] <= axis[i-1] {
				return nil, fmt.Errorf("axis %d: coordinates %d and %d not strictly increasing: %w", k, i-1, i, ErrPreconditionViolation)
			}
		}
		g.axes[k] = axis
		g.dims[k] = n
		g.len *= n
	}
	return g, nil
}

// DomDim returns the number of axes of g.
func (g *Grid) DomDim() int {
	return len(g.dims)
}

// Dims returns the number of nodes along each axis of g. The returned slice
// must not be modified.
func (g *Grid) Dims() []int {
	return g.dims
}

// Axis returns the coordinates of axis k.
func (g *Grid) Axis(k int) []float64 {
	return g.axes[k]
}

// Len returns the total number of nodes in g.
func (g *Grid) Len() int {
	return g.len
}

// Index returns the row-major position of the node at multi-index idx, with
// the last axis varying fastest.
func (g *Grid) Index(idx []int) int {
	pos := idx[0]
	for k := 1; k < len(g.dims); k++ {
		pos = pos*g.dims[k] + idx[k]
	}
	return pos
}

// Coord writes the coordinates of the node at multi-index idx into dst and
// returns it. If dst is nil a new slice is allocated.
func (g *Grid) Coord(idx []int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(g.axes))
	}
	for k, axis := range g.axes {
		dst[k] = axis[idx[k]]
	}
	return dst
}

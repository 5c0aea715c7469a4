// Package multilinear implements piecewise multilinear interpolation of
// vector-valued samples over rectilinear (tensor-product) grids.
//
// A Grid binds one strictly increasing coordinate slice per axis. An
// Interpolator pairs a Grid with a flat, row-major sample buffer holding an
// AmbDim-vector per grid node, last axis varying fastest. Neither the
// coordinates nor the samples are copied: the caller must keep them alive and
// unmodified for as long as the Interpolator is used.
package multilinear

import "errors"

// MaxDomainDimension is the largest supported number of grid axes. Each
// evaluation visits 2^DomDim cell corners.
const MaxDomainDimension = 16

var (
	// ErrPreconditionViolation is returned when a grid, sample buffer, or
	// argument does not have the required shape.
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrNumericalDegeneracy is returned when a cell has zero or non-finite
	// measure, which happens when the out-of-range policy meets a boundary
	// coordinate of zero.
	ErrNumericalDegeneracy = errors.New("numerical degeneracy")
)

// A DegeneracyPolicy selects what happens when a cell has zero or non-finite
// measure.
type DegeneracyPolicy int

const (
	// DegeneracyReport returns ErrNumericalDegeneracy and leaves the output
	// untouched.
	DegeneracyReport DegeneracyPolicy = iota
	// DegeneracyPropagate lets the non-finite weights flow into the output
	// as NaN or Inf.
	DegeneracyPropagate
)

func (p DegeneracyPolicy) String() string {
	switch p {
	case DegeneracyReport:
		return "report"
	case DegeneracyPropagate:
		return "propagate"
	default:
		return "unknown"
	}
}

package multilinear

import (
	"fmt"
	"log/slog"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// A corner is one corner of a grid cell.
type corner struct {
	upper  []bool // Whether the corner takes the upper node on each axis.
	offset int    // Sample offset relative to the cell's lower corner.
}

// An Interpolator evaluates the multilinear interpolation of samples on a
// Grid. An Interpolator is safe for concurrent use. Goroutines evaluating
// single points must each use their own Evaluator.
type Interpolator struct {
	grid             *Grid
	ambDim           int
	values           []float64
	corners          []corner
	policy           DegeneracyPolicy
	logger           *slog.Logger
	bracketCacheSize int
	bracketCache     *lru.Cache[bracketTableKey, *bracketTable]
}

// An Option sets an option on an Interpolator.
type Option func(*Interpolator)

// WithBracketCacheSize sets the number of per-axis bracket tables cached
// between calls to EvaluateTensorGrid. A size of zero disables the cache.
func WithBracketCacheSize(bracketCacheSize int) Option {
	return func(i *Interpolator) {
		i.bracketCacheSize = bracketCacheSize
	}
}

// WithDegeneracyPolicy sets the policy for cells with zero or non-finite
// measure.
func WithDegeneracyPolicy(policy DegeneracyPolicy) Option {
	return func(i *Interpolator) {
		i.policy = policy
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpolator) {
		i.logger = logger
	}
}

// NewInterpolator returns a new Interpolator over grid. values holds ambDim
// components for every node of grid in row-major order, last axis varying
// fastest. values is not copied.
func NewInterpolator(grid *Grid, ambDim int, values []float64, options ...Option) (*Interpolator, error) {
	if grid == nil {
		return nil, fmt.Errorf("nil grid: %w", ErrPreconditionViolation)
	}
	if ambDim < 1 {
		return nil, fmt.Errorf("ambient dimension %d: %w", ambDim, ErrPreconditionViolation)
	}
	if required := ambDim * grid.Len(); len(values) < required {
		return nil, fmt.Errorf("%d values, need %d: %w", len(values), required, ErrPreconditionViolation)
	}

	i := &Interpolator{
		grid:             grid,
		ambDim:           ambDim,
		values:           values,
		logger:           slog.New(slog.DiscardHandler),
		bracketCacheSize: 32,
	}
	for _, option := range options {
		option(i)
	}

	i.corners = newCorners(grid, ambDim)

	if i.bracketCacheSize > 0 {
		var err error
		i.bracketCache, err = lru.New[bracketTableKey, *bracketTable](i.bracketCacheSize)
		if err != nil {
			return nil, err
		}
	}

	i.logger.Debug("new interpolator",
		"domDim", grid.DomDim(),
		"ambDim", ambDim,
		"dims", grid.Dims(),
		"corners", len(i.corners),
		"policy", i.policy.String(),
	)

	return i, nil
}

// newCorners returns the 2^DomDim corners of a cell. Corner number n takes
// the upper node on axis k when bit DomDim-1-k of n is set, so axis 0 is the
// most significant bit.
func newCorners(grid *Grid, ambDim int) []corner {
	domDim := grid.DomDim()
	dims := grid.Dims()

	strides := make([]int, domDim)
	stride := ambDim
	for k := domDim - 1; k >= 0; k-- {
		strides[k] = stride
		stride *= dims[k]
	}

	n := 1 << domDim
	upper := make([]bool, n*domDim)
	corners := make([]corner, n)
	for c := range corners {
		corners[c].upper = upper[c*domDim : (c+1)*domDim]
		for k := range domDim {
			if (c>>(domDim-1-k))&1 == 1 {
				corners[c].upper[k] = true
				corners[c].offset += strides[k]
			}
		}
	}
	return corners
}

// Grid returns i's grid.
func (i *Interpolator) Grid() *Grid {
	return i.grid
}

// AmbDim returns the number of components of each sample.
func (i *Interpolator) AmbDim() int {
	return i.ambDim
}

// Evaluate returns the interpolated vector at x.
func (i *Interpolator) Evaluate(x []float64) ([]float64, error) {
	y := make([]float64, i.ambDim)
	if err := i.NewEvaluator().Evaluate(x, y); err != nil {
		return nil, err
	}
	return y, nil
}

// EvaluatePoints evaluates i at each of points and writes the results
// contiguously into out, which is returned. If out is nil a new slice is
// allocated.
func (i *Interpolator) EvaluatePoints(points [][]float64, out []float64) ([]float64, error) {
	n := i.ambDim * len(points)
	switch {
	case out == nil:
		out = make([]float64, n)
	case len(out) < n:
		return nil, fmt.Errorf("output length %d, need %d: %w", len(out), n, ErrPreconditionViolation)
	}
	e := i.NewEvaluator()
	for j, point := range points {
		if err := e.Evaluate(point, out[j*i.ambDim:(j+1)*i.ambDim]); err != nil {
			return nil, fmt.Errorf("point %d: %w", j, err)
		}
	}
	return out[:n], nil
}

// blend writes the weighted sum of the samples at the corners of the cell
// described by brackets into y.
func (i *Interpolator) blend(brackets []Bracket, y []float64) error {
	dims := i.grid.dims
	volume := 1.0
	base := 0
	for k, bracket := range brackets {
		volume *= bracket.T0 + bracket.T1
		base = base*dims[k] + bracket.Index
	}
	if volume == 0 || math.IsInf(volume, 0) || math.IsNaN(volume) {
		degenerateCells.Inc()
		if i.policy == DegeneracyReport {
			return fmt.Errorf("cell %v has measure %g: %w", bracketIndexes(brackets), volume, ErrNumericalDegeneracy)
		}
	}
	volumeInv := 1 / volume

	y = y[:i.ambDim]
	clear(y)
	base *= i.ambDim
	for _, c := range i.corners {
		coeff := volumeInv
		for k, upper := range c.upper {
			if upper {
				coeff *= brackets[k].T1
			} else {
				coeff *= brackets[k].T0
			}
		}
		start := base + c.offset
		for m, value := range i.values[start : start+i.ambDim] {
			y[m] += coeff * value
		}
	}
	return nil
}

func bracketIndexes(brackets []Bracket) []int {
	indexes := make([]int, len(brackets))
	for k, bracket := range brackets {
		indexes[k] = bracket.Index
	}
	return indexes
}

// An Evaluator holds the per-query state for evaluating an Interpolator. It
// is cheap to create and is not safe for concurrent use.
type Evaluator struct {
	interpolator *Interpolator
	brackets     []Bracket
	index        []int
}

// NewEvaluator returns a new Evaluator for i.
func (i *Interpolator) NewEvaluator() *Evaluator {
	domDim := i.grid.DomDim()
	return &Evaluator{
		interpolator: i,
		brackets:     make([]Bracket, domDim),
		index:        make([]int, domDim),
	}
}

// Evaluate writes the interpolated vector at x into y. On error y is not
// modified.
func (e *Evaluator) Evaluate(x, y []float64) error {
	i := e.interpolator
	if len(x) != len(e.brackets) {
		return fmt.Errorf("point has %d coordinates, need %d: %w", len(x), len(e.brackets), ErrPreconditionViolation)
	}
	if len(y) < i.ambDim {
		return fmt.Errorf("output length %d, need %d: %w", len(y), i.ambDim, ErrPreconditionViolation)
	}
	for k, z := range x {
		e.brackets[k] = i.grid.Search(k, z)
		e.index[k] = e.brackets[k].Index
	}
	gridSearches.Add(float64(len(x)))
	if err := i.blend(e.brackets, y); err != nil {
		return err
	}
	evaluations.Inc()
	return nil
}

// Index returns the lower node of the cell found on each axis by the last
// call to Evaluate. The returned slice is overwritten by the next call.
func (e *Evaluator) Index() []int {
	return e.index
}

// Brackets returns the brackets found by the last call to Evaluate. The
// returned slice is overwritten by the next call.
func (e *Evaluator) Brackets() []Bracket {
	return e.brackets
}

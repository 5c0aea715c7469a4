package multilinear

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
)

type bracketTableKey struct {
	axis int
	n    int
	hash uint64
}

// A bracketTable holds the brackets of a sequence of coordinates on one axis.
// It is immutable once built.
type bracketTable struct {
	coords     []float64
	brackets   []Bracket
	degenerate int // Index of the first zero or non-finite measure bracket, or -1.
}

// EvaluateTensorGrid evaluates i at every point of the tensor product of axes
// and writes the results into out in row-major order, last axis varying
// fastest, which is returned. The coordinates of axes need not be sorted. If
// out is nil a new slice is allocated. On error the contents of out are
// unspecified.
//
// Each coordinate is searched for once per axis rather than once per point.
func (i *Interpolator) EvaluateTensorGrid(axes [][]float64, out []float64) ([]float64, error) {
	domDim := i.grid.DomDim()
	if len(axes) != domDim {
		return nil, fmt.Errorf("%d axes, need %d: %w", len(axes), domDim, ErrPreconditionViolation)
	}

	dims := make([]int, domDim)
	n := i.ambDim
	for k, axis := range axes {
		dims[k] = len(axis)
		n *= dims[k]
	}
	switch {
	case out == nil:
		out = make([]float64, n)
	case len(out) < n:
		return nil, fmt.Errorf("output length %d, need %d: %w", len(out), n, ErrPreconditionViolation)
	}
	out = out[:n]
	if n == 0 {
		return out, nil
	}

	tables := make([]*bracketTable, domDim)
	for k, axis := range axes {
		tables[k] = i.getBracketTableCached(k, axis)
		if j := tables[k].degenerate; j >= 0 && i.policy == DegeneracyReport {
			degenerateCells.Inc()
			return nil, fmt.Errorf("axis %d: coordinate %d (%g) has zero measure bracket: %w", k, j, axis[j], ErrNumericalDegeneracy)
		}
	}

	idx := make([]int, domDim)
	brackets := make([]Bracket, domDim)
	for pos := 0; ; pos += i.ambDim {
		for k, j := range idx {
			brackets[k] = tables[k].brackets[j]
		}
		if err := i.blend(brackets, out[pos:pos+i.ambDim]); err != nil {
			return nil, err
		}
		if !increment(idx, dims) {
			break
		}
	}

	tensorGridEvaluations.Inc()
	evaluations.Add(float64(n / i.ambDim))
	i.logger.Debug("evaluated tensor grid",
		"dims", dims,
		"points", n/i.ambDim,
	)

	return out, nil
}

// increment advances idx to the next multi-index below dims, with the last
// axis varying fastest. It returns false after the last multi-index, leaving
// idx all zeros.
func increment(idx, dims []int) bool {
	for k := len(idx) - 1; k >= 0; k-- {
		idx[k]++
		if idx[k] < dims[k] {
			return true
		}
		idx[k] = 0
	}
	return false
}

// getBracketTable returns the brackets of coords on axis k.
func (i *Interpolator) getBracketTable(k int, coords []float64) *bracketTable {
	t := &bracketTable{
		coords:     slices.Clone(coords),
		brackets:   make([]Bracket, len(coords)),
		degenerate: -1,
	}
	for j, z := range coords {
		bracket := i.grid.Search(k, z)
		if measure := bracket.T0 + bracket.T1; t.degenerate < 0 && (measure == 0 || math.IsInf(measure, 0) || math.IsNaN(measure)) {
			t.degenerate = j
		}
		t.brackets[j] = bracket
	}
	gridSearches.Add(float64(len(coords)))
	return t
}

// getBracketTableCached returns the brackets of coords on axis k, using the
// cache if possible.
func (i *Interpolator) getBracketTableCached(k int, coords []float64) *bracketTable {
	if i.bracketCache == nil {
		return i.getBracketTable(k, coords)
	}

	key := bracketTableKey{
		axis: k,
		n:    len(coords),
		hash: hashCoords(coords),
	}
	if t, ok := i.bracketCache.Get(key); ok && slices.Equal(t.coords, coords) {
		bracketCacheHits.Inc()
		i.logger.Debug("bracket cache hit", "axis", k, "n", len(coords))
		return t
	}

	bracketCacheMisses.Inc()
	t := i.getBracketTable(k, coords)
	i.bracketCache.Add(key, t)
	return t
}

func hashCoords(coords []float64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, c := range coords {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

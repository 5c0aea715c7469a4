package multilinear

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncrement(t *testing.T) {
	dims := []int{2, 1, 3}
	idx := make([]int, len(dims))
	var actual [][]int
	for {
		actual = append(actual, append([]int(nil), idx...))
		if !increment(idx, dims) {
			break
		}
	}
	assert.Equal(t, [][]int{
		{0, 0, 0},
		{0, 0, 1},
		{0, 0, 2},
		{1, 0, 0},
		{1, 0, 1},
		{1, 0, 2},
	}, actual)
	assert.Equal(t, []int{0, 0, 0}, idx)
}

func TestNewCorners(t *testing.T) {
	grid, err := NewGrid([]float64{0, 1, 2}, []float64{0, 1, 2, 3})
	assert.NoError(t, err)
	corners := newCorners(grid, 2)
	assert.Equal(t, 4, len(corners))
	for i, expected := range []struct {
		upper  []bool
		offset int
	}{
		{upper: []bool{false, false}, offset: 0},
		{upper: []bool{false, true}, offset: 2},
		{upper: []bool{true, false}, offset: 8},
		{upper: []bool{true, true}, offset: 10},
	} {
		assert.Equal(t, expected.upper, corners[i].upper)
		assert.Equal(t, expected.offset, corners[i].offset)
	}
}

func TestBracketTableCache(t *testing.T) {
	grid, err := NewGrid([]float64{1, 2, 3}, []float64{1, 2})
	assert.NoError(t, err)
	values := []float64{1, 2, 3, 4, 5, 6}
	axes := [][]float64{{1.5, 2.5}, {1, 1.5, 2}}

	t.Run("enabled", func(t *testing.T) {
		interpolator, err := NewInterpolator(grid, 1, values)
		assert.NoError(t, err)

		hits, misses := testutil.ToFloat64(bracketCacheHits), testutil.ToFloat64(bracketCacheMisses)
		first, err := interpolator.EvaluateTensorGrid(axes, nil)
		assert.NoError(t, err)
		assert.Equal(t, hits, testutil.ToFloat64(bracketCacheHits))
		assert.Equal(t, misses+2, testutil.ToFloat64(bracketCacheMisses))

		second, err := interpolator.EvaluateTensorGrid(axes, nil)
		assert.NoError(t, err)
		assert.Equal(t, hits+2, testutil.ToFloat64(bracketCacheHits))
		assert.Equal(t, first, second)

		modified := [][]float64{axes[0], {1, 1.75, 2}}
		third, err := interpolator.EvaluateTensorGrid(modified, nil)
		assert.NoError(t, err)
		assert.Equal(t, hits+3, testutil.ToFloat64(bracketCacheHits))
		assert.NotEqual(t, first, third)
	})

	t.Run("disabled", func(t *testing.T) {
		interpolator, err := NewInterpolator(grid, 1, values, WithBracketCacheSize(0))
		assert.NoError(t, err)
		assert.Zero(t, interpolator.bracketCache)

		hits, misses := testutil.ToFloat64(bracketCacheHits), testutil.ToFloat64(bracketCacheMisses)
		_, err = interpolator.EvaluateTensorGrid(axes, nil)
		assert.NoError(t, err)
		_, err = interpolator.EvaluateTensorGrid(axes, nil)
		assert.NoError(t, err)
		assert.Equal(t, hits, testutil.ToFloat64(bracketCacheHits))
		assert.Equal(t, misses, testutil.ToFloat64(bracketCacheMisses))
	})
}

func TestHashCoords(t *testing.T) {
	coords := []float64{-1.5, 0, 3e8}
	var buf []byte
	for _, c := range coords {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c))
	}
	assert.Equal(t, xxhash.Sum64(buf), hashCoords(coords))
	assert.Equal(t, hashCoords([]float64{1, 2, 3}), hashCoords([]float64{1, 2, 3}))
	assert.NotEqual(t, hashCoords([]float64{1, 2, 3}), hashCoords([]float64{1, 3, 2}))
}

func TestDegeneracyPolicy_String(t *testing.T) {
	assert.Equal(t, "report", DegeneracyReport.String())
	assert.Equal(t, "propagate", DegeneracyPropagate.String())
	assert.Equal(t, "unknown", DegeneracyPolicy(99).String())
}

func TestEvaluationsCountedOnSuccess(t *testing.T) {
	grid, err := NewGrid([]float64{0, 1, 2})
	assert.NoError(t, err)
	interpolator, err := NewInterpolator(grid, 1, []float64{0, 10, 20})
	assert.NoError(t, err)

	before := testutil.ToFloat64(evaluations)
	_, err = interpolator.Evaluate([]float64{-1})
	assert.Error(t, err)
	assert.Equal(t, before, testutil.ToFloat64(evaluations))

	_, err = interpolator.Evaluate([]float64{0.5})
	assert.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(evaluations))
}

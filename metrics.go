package multilinear

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multilinear_evaluations_total",
		Help: "The total number of interpolated points",
	})
	gridSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multilinear_grid_searches_total",
		Help: "The total number of per-axis grid searches",
	})
	degenerateCells = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multilinear_degenerate_cells_total",
		Help: "The total number of evaluations in cells with zero or non-finite measure",
	})
	tensorGridEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multilinear_tensor_grid_evaluations_total",
		Help: "The total number of tensor grid evaluations",
	})
	bracketCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multilinear_bracket_cache_hits_total",
		Help: "The total number of hits on the bracket table cache",
	})
	bracketCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multilinear_bracket_cache_misses_total",
		Help: "The total number of misses on the bracket table cache",
	})
)

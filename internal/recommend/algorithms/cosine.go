// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package algorithms

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/itemgraph/internal/recommend/features"
	"github.com/tomtom215/itemgraph/internal/recommend/graph"
)

var (
	// ErrNegativeK is returned when a negative neighbor count is requested.
	ErrNegativeK = errors.New("neighbor count must not be negative")

	// ErrNilMatrix is returned when Build is called without a matrix.
	ErrNilMatrix = errors.New("feature matrix is nil")
)

// CosineKNNConfig contains configuration for the cosine graph builder.
type CosineKNNConfig struct {
	// Workers bounds the goroutines ranking rows. Zero or one ranks
	// sequentially.
	Workers int
}

// DefaultCosineKNNConfig returns default configuration.
func DefaultCosineKNNConfig() CosineKNNConfig {
	return CosineKNNConfig{
		Workers: 1,
	}
}

// CosineKNN builds an exact k-nearest-neighbor graph under cosine similarity.
type CosineKNN struct {
	BaseAlgorithm
	config CosineKNNConfig
	logger zerolog.Logger
}

// NewCosineKNN creates a cosine graph builder.
func NewCosineKNN(cfg CosineKNNConfig, logger zerolog.Logger) *CosineKNN {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultCosineKNNConfig().Workers
	}
	return &CosineKNN{
		BaseAlgorithm: NewBaseAlgorithm("cosine_knn"),
		config:        cfg,
		logger:        logger.With().Str("component", "cosine_knn").Logger(),
	}
}

// Workers returns the configured worker count.
func (c *CosineKNN) Workers() int {
	return c.config.Workers
}

// Build ranks, for every row of m, the min(k, n-1) most similar other rows.
func (c *CosineKNN) Build(ctx context.Context, m *features.Matrix, k int) (*graph.Graph, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeK, k)
	}
	if m == nil {
		return nil, ErrNilMatrix
	}

	start := time.Now()
	n := m.Rows()
	keep := min(k, max(n-1, 0))
	norms := rowNorms(m)
	adjacency := make([][]graph.Neighbor, n)

	if c.config.Workers <= 1 {
		for i := 0; i < n; i++ {
			if ContextCancelled(ctx) {
				return nil, ctx.Err()
			}
			adjacency[i] = rankRow(m, norms, i, keep)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.config.Workers)
		for i := 0; i < n; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				adjacency[i] = rankRow(m, norms, i, keep)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		// errgroup only reports errors from its goroutines; a cancellation
		// after the last row was scheduled still aborts the build.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	c.markBuilt()
	c.logger.Debug().
		Int("rows", n).
		Int("features", m.Cols()).
		Int("k", keep).
		Int("workers", c.config.Workers).
		Dur("duration", time.Since(start)).
		Msg("similarity graph built")

	return graph.New(adjacency), nil
}

// Similarity returns the cosine similarity of rows i and j of m. It is the
// same score Build assigns, and Similarity(m, i, j) == Similarity(m, j, i).
func Similarity(m *features.Matrix, i, j int) float64 {
	a, b := m.RowView(i), m.RowView(j)
	return cosine(a, b, rowNorm(a), rowNorm(b))
}

// rankRow returns the keep best neighbors of row i, excluding i itself.
func rankRow(m *features.Matrix, norms []float64, i, keep int) []graph.Neighbor {
	if keep == 0 {
		return []graph.Neighbor{}
	}

	row := m.RowView(i)
	h := make(neighborHeap, 0, keep)
	for j := 0; j < m.Rows(); j++ {
		if j == i {
			continue
		}
		cand := graph.Neighbor{Index: j, Score: cosine(row, m.RowView(j), norms[i], norms[j])}
		switch {
		case len(h) < keep:
			heap.Push(&h, cand)
		case ranksBefore(cand, h[0]):
			h[0] = cand
			heap.Fix(&h, 0)
		}
	}

	out := []graph.Neighbor(h)
	slices.SortFunc(out, func(a, b graph.Neighbor) int {
		if ranksBefore(a, b) {
			return -1
		}
		if ranksBefore(b, a) {
			return 1
		}
		return 0
	})
	return out
}

// ranksBefore orders neighbors by descending score, then ascending index.
func ranksBefore(a, b graph.Neighbor) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// neighborHeap keeps the worst retained neighbor at the root.
type neighborHeap []graph.Neighbor

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return ranksBefore(h[j], h[i]) }
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *neighborHeap) Push(x any) {
	*h = append(*h, x.(graph.Neighbor)) //nolint:forcetypeassert // heap only receives Neighbor
}

func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

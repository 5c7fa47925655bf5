// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package algorithms

import (
	"context"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/itemgraph/internal/recommend/features"
	"github.com/tomtom215/itemgraph/internal/recommend/graph"
)

// GraphBuilder builds a similarity graph from a feature matrix.
type GraphBuilder interface {
	// Name returns the builder identifier.
	Name() string

	// Build ranks the k most similar rows of every row in m.
	Build(ctx context.Context, m *features.Matrix, k int) (*graph.Graph, error)
}

// BaseAlgorithm provides common bookkeeping for graph builders.
type BaseAlgorithm struct {
	name        string
	builds      int
	lastBuiltAt time.Time
	mu          sync.RWMutex
}

// NewBaseAlgorithm creates a new base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{
		name: name,
	}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// Builds returns how many graphs have been built successfully.
func (b *BaseAlgorithm) Builds() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.builds
}

// LastBuiltAt returns when the last successful build finished.
func (b *BaseAlgorithm) LastBuiltAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastBuiltAt
}

// markBuilt records a successful build.
func (b *BaseAlgorithm) markBuilt() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.builds++
	b.lastBuiltAt = time.Now()
}

// rowNorms returns the Euclidean norm of every row of m.
func rowNorms(m *features.Matrix) []float64 {
	norms := make([]float64, m.Rows())
	for i := range norms {
		norms[i] = rowNorm(m.RowView(i))
	}
	return norms
}

func rowNorm(row []float64) float64 {
	return math.Sqrt(floats.Dot(row, row))
}

// cosine computes the cosine similarity of a and b given their norms.
// A zero norm yields 0. The result is clamped to [-1, 1] to absorb rounding.
func cosine(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := floats.Dot(a, b) / (normA * normB)
	return max(-1, min(1, sim))
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

var _ GraphBuilder = (*CosineKNN)(nil)

// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemgraph/internal/cache"
	"github.com/tomtom215/itemgraph/internal/logging"
	"github.com/tomtom215/itemgraph/internal/metrics"
	"github.com/tomtom215/itemgraph/internal/recommend/algorithms"
	"github.com/tomtom215/itemgraph/internal/recommend/features"
	"github.com/tomtom215/itemgraph/internal/recommend/graph"
)

var (
	// ErrNotBuilt is returned by lookups before the first successful build.
	ErrNotBuilt = errors.New("similarity graph has not been built")

	// ErrItemNotFound is returned when a product ID is not in the catalog.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemCountMismatch is returned when the item metadata does not
	// have exactly one entry per catalog row.
	ErrItemCountMismatch = errors.New("item count does not match catalog rows")
)

// lookupKey identifies a memoized lookup within one build.
type lookupKey struct {
	index int
	k     int
}

// snapshot is one complete, immutable build. The lookup cache is scoped to
// it and discarded with it.
type snapshot struct {
	matrix    *features.Matrix
	graph     *graph.Graph
	items     []Item
	byProduct map[int64]int
	stats     BuildStats
	lookups   *cache.LRU[lookupKey, []ScoredItem]
}

// neighbors returns the top k scored items for index, memoized when the
// snapshot has a cache. The second result reports a cache hit.
func (s *snapshot) neighbors(index, k int) ([]ScoredItem, bool) {
	key := lookupKey{index: index, k: k}
	if s.lookups != nil {
		if cached, ok := s.lookups.Get(key); ok {
			metrics.RecordCacheLookup(true)
			return slices.Clone(cached), true
		}
		metrics.RecordCacheLookup(false)
	}

	top := topNeighbors(s.graph, index, k)
	items := make([]ScoredItem, len(top))
	for i, n := range top {
		items[i] = ScoredItem{Index: n.Index, Score: n.Score}
		if n.Index < len(s.items) {
			items[i].Item = s.items[n.Index]
		}
	}

	if s.lookups != nil {
		s.lookups.Add(key, slices.Clone(items))
	}
	return items, false
}

// Engine builds similarity graphs from catalogs and serves lookups.
// It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	builder algorithms.GraphBuilder

	// buildMu serializes builds; mu guards the current snapshot.
	buildMu sync.Mutex
	mu      sync.RWMutex
	current *snapshot

	requestCount atomic.Int64
	errorCount   atomic.Int64
	buildCount   atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		builder: algorithms.NewCosineKNN(algorithms.CosineKNNConfig{Workers: cfg.Workers}, logger),
	}, nil
}

// Build computes the feature matrix and similarity graph for src and makes
// them current. items, when non-nil, must hold one entry per row of src in
// row order. On error the previous build stays current.
func (e *Engine) Build(ctx context.Context, src features.Source, items []Item) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	buildID := logging.GenerateCorrelationID()
	logger := logging.Ctx(logging.ContextWithLogger(ctx, e.logger)).With().Str("build_id", buildID).Logger()
	ctx = logging.ContextWithCorrelationID(ctx, buildID)
	logger.Debug().Msg("starting build")

	snap, err := e.build(ctx, src, items, buildID, logger)
	if err != nil {
		e.errorCount.Add(1)
		logger.Error().Err(err).Msg("build failed")
		return err
	}

	e.mu.Lock()
	e.current = snap
	e.mu.Unlock()
	e.buildCount.Add(1)

	logger.Info().
		Int("rows", snap.stats.Rows).
		Int("features", snap.stats.FeatureLen).
		Int("neighbors", snap.stats.Neighbors).
		Int("edges", snap.stats.Edges).
		Dur("feature_duration", snap.stats.FeatureDuration).
		Dur("graph_duration", snap.stats.GraphDuration).
		Msg("similarity graph built")

	return nil
}

func (e *Engine) build(ctx context.Context, src features.Source, items []Item, buildID string, logger zerolog.Logger) (*snapshot, error) {
	start := time.Now()
	m, err := features.Build(ctx, src, e.config.Columns, features.BuildOptions{Workers: e.config.Workers})
	if err != nil {
		metrics.RecordBuildError(metrics.StageFeatures)
		return nil, fmt.Errorf("build features: %w", err)
	}
	featureDuration := time.Since(start)
	metrics.RecordFeatureBuild(featureDuration, m.Rows(), m.Cols())

	if items != nil && len(items) != m.Rows() {
		metrics.RecordBuildError(metrics.StageItems)
		return nil, fmt.Errorf("match items: %w: %d items for %d rows", ErrItemCountMismatch, len(items), m.Rows())
	}

	start = time.Now()
	g, err := e.builder.Build(ctx, m, e.config.Neighbors)
	if err != nil {
		metrics.RecordBuildError(metrics.StageGraph)
		return nil, fmt.Errorf("build graph: %w", err)
	}
	graphDuration := time.Since(start)

	edges := 0
	for i := 0; i < g.Len(); i++ {
		edges += g.Degree(i)
	}
	metrics.RecordGraphBuild(graphDuration, edges)

	var lookups *cache.LRU[lookupKey, []ScoredItem]
	if e.config.CacheSize > 0 {
		if lookups, err = cache.NewLRU[lookupKey, []ScoredItem](e.config.CacheSize); err != nil {
			return nil, fmt.Errorf("create lookup cache: %w", err)
		}
	}

	items = slices.Clone(items)
	return &snapshot{
		lookups:   lookups,
		matrix:    m,
		graph:     g,
		items:     items,
		byProduct: indexProducts(items, logger),
		stats: BuildStats{
			BuildID:         buildID,
			Rows:            m.Rows(),
			FeatureLen:      m.Cols(),
			Neighbors:       e.config.Neighbors,
			Edges:           edges,
			FeatureDuration: featureDuration,
			GraphDuration:   graphDuration,
			BuiltAt:         time.Now(),
		},
	}, nil
}

// indexProducts maps product IDs to rows. The first row wins when a
// product ID repeats.
func indexProducts(items []Item, logger zerolog.Logger) map[int64]int {
	index := make(map[int64]int, len(items))
	duplicates := 0
	for row := range items {
		id := items[row].ProductID
		if _, ok := index[id]; ok {
			duplicates++
			continue
		}
		index[id] = row
	}
	if duplicates > 0 {
		logger.Warn().Int("duplicates", duplicates).Msg("catalog repeats product IDs; lookups use the first row")
	}
	return index
}

// Similar returns the items most similar to the requested one.
//
// An index outside the catalog yields an empty response rather than an
// error. An unknown product ID yields ErrItemNotFound.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Similar(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if err := ctx.Err(); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	snap := e.snapshot()
	if snap == nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendRequest(metrics.ResultNotBuilt)
		return nil, ErrNotBuilt
	}

	req = e.prepareRequest(req)
	ctx = logging.ContextWithRequestID(logging.ContextWithLogger(ctx, e.logger), req.RequestID)
	logger := logging.Ctx(ctx).With().Str("mode", req.Mode.String()).Logger()

	index := req.Index
	if req.Mode == LookupByProductID {
		row, ok := snap.byProduct[req.ProductID]
		if !ok {
			e.errorCount.Add(1)
			metrics.RecordRecommendRequest(metrics.ResultNotFound)
			logger.Debug().Int64("product_id", req.ProductID).Msg("product not in catalog")
			return nil, fmt.Errorf("%w: product %d", ErrItemNotFound, req.ProductID)
		}
		index = row
	}

	items, cached := snap.neighbors(index, req.K)

	result := metrics.ResultOK
	if len(items) == 0 {
		result = metrics.ResultEmpty
	}
	metrics.RecordRecommendRequest(result)

	resp := &Response{
		Items: items,
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			Mode:      req.Mode.String(),
			Index:     index,
			K:         req.K,
			BuildID:   snap.stats.BuildID,
			BuiltAt:   snap.stats.BuiltAt,
			Cached:    cached,
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now(),
		},
	}

	logger.Debug().
		Int("index", index).
		Int("k", req.K).
		Int("returned", len(items)).
		Bool("cached", cached).
		Msg("lookup complete")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = logging.GenerateRequestID()
	}

	switch {
	case req.K == 0:
		req.K = e.config.DefaultK
	case req.K < 1:
		req.K = 1
	}
	if req.K > e.config.MaxK {
		req.K = e.config.MaxK
	}
	// The graph holds at most Neighbors entries per row.
	if req.K > e.config.Neighbors {
		req.K = e.config.Neighbors
	}

	return req
}

func (e *Engine) snapshot() *snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Built reports whether a build has completed.
func (e *Engine) Built() bool {
	return e.snapshot() != nil
}

// Graph returns the current similarity graph, or nil before the first build.
func (e *Engine) Graph() *graph.Graph {
	if snap := e.snapshot(); snap != nil {
		return snap.graph
	}
	return nil
}

// Matrix returns the current feature matrix, or nil before the first build.
func (e *Engine) Matrix() *features.Matrix {
	if snap := e.snapshot(); snap != nil {
		return snap.matrix
	}
	return nil
}

// Items returns a copy of the current item metadata.
func (e *Engine) Items() []Item {
	if snap := e.snapshot(); snap != nil {
		return slices.Clone(snap.items)
	}
	return nil
}

// Stats returns metadata about the current build. The second result is
// false before the first build.
func (e *Engine) Stats() (BuildStats, bool) {
	if snap := e.snapshot(); snap != nil {
		return snap.stats, true
	}
	return BuildStats{}, false
}

// GetMetrics returns the current engine counters. Cache counters cover the
// current build only.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		RequestCount: e.requestCount.Load(),
		ErrorCount:   e.errorCount.Load(),
		BuildCount:   e.buildCount.Load(),
	}
	if snap := e.snapshot(); snap != nil && snap.lookups != nil {
		m.Cache = snap.lookups.Stats()
	}
	return m
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

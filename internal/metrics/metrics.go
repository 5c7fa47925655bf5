// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Build stages used as the "stage" label of BuildErrors.
const (
	StageCatalog  = "catalog"
	StageFeatures = "features"
	StageItems    = "items"
	StageGraph    = "graph"
)

// Lookup outcomes used as the "result" label of RecommendRequests.
const (
	ResultOK       = "ok"
	ResultEmpty    = "empty"
	ResultNotFound = "not_found"
	ResultNotBuilt = "not_built"
)

// Cache outcomes used as the "outcome" label of RecommendCacheLookups.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// buildBuckets spans small test catalogs up to catalogs that take minutes
// to rank.
var buildBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60, 300}

var (
	// Catalog Metrics
	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itemgraph_catalog_load_duration_seconds",
			Help:    "Duration of catalog file reads in seconds",
			Buckets: buildBuckets,
		},
	)

	CatalogRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemgraph_catalog_rows",
			Help: "Number of rows in the most recently built catalog",
		},
	)

	// Build Metrics
	FeatureBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itemgraph_feature_build_duration_seconds",
			Help:    "Duration of the statistics and population passes in seconds",
			Buckets: buildBuckets,
		},
	)

	FeatureColumns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemgraph_feature_columns",
			Help: "Width of the most recently built feature matrix",
		},
	)

	GraphBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itemgraph_graph_build_duration_seconds",
			Help:    "Duration of similarity graph ranking in seconds",
			Buckets: buildBuckets,
		},
	)

	GraphEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemgraph_graph_edges",
			Help: "Total neighbor entries in the most recently built graph",
		},
	)

	BuildErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemgraph_build_errors_total",
			Help: "Total number of failed builds by stage",
		},
		[]string{"stage"}, // "catalog", "features", "items", "graph"
	)

	// Lookup Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemgraph_recommend_requests_total",
			Help: "Total number of similar-item lookups by result",
		},
		[]string{"result"}, // "ok", "empty", "not_found", "not_built"
	)

	RecommendCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemgraph_recommend_cache_lookups_total",
			Help: "Total number of lookup cache reads by outcome",
		},
		[]string{"outcome"}, // "hit", "miss"
	)
)

// RecordCatalogLoad records a catalog file read. Failed reads count as a
// catalog-stage build error.
func RecordCatalogLoad(duration time.Duration, err error) {
	CatalogLoadDuration.Observe(duration.Seconds())
	if err != nil {
		RecordBuildError(StageCatalog)
	}
}

// RecordFeatureBuild records a successful feature matrix build
func RecordFeatureBuild(duration time.Duration, rows, columns int) {
	FeatureBuildDuration.Observe(duration.Seconds())
	CatalogRows.Set(float64(rows))
	FeatureColumns.Set(float64(columns))
}

// RecordGraphBuild records a successful similarity graph build
func RecordGraphBuild(duration time.Duration, edges int) {
	GraphBuildDuration.Observe(duration.Seconds())
	GraphEdges.Set(float64(edges))
}

// RecordBuildError records a failed build stage
func RecordBuildError(stage string) {
	BuildErrors.WithLabelValues(stage).Inc()
}

// RecordRecommendRequest records a lookup outcome
func RecordRecommendRequest(result string) {
	RecommendRequests.WithLabelValues(result).Inc()
}

// RecordCacheLookup records a lookup cache read
func RecordCacheLookup(hit bool) {
	outcome := CacheMiss
	if hit {
		outcome = CacheHit
	}
	RecommendCacheLookups.WithLabelValues(outcome).Inc()
}

// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

/*
Package metrics provides Prometheus metrics for catalog loading, graph
building and recommendation lookups.

Collectors are registered on the default registry at package init through
promauto. Callers use the Record* helpers rather than touching collectors
directly.

# Available Metrics

Catalog Metrics:
  - itemgraph_catalog_load_duration_seconds: Time to read a catalog file (histogram)
  - itemgraph_catalog_rows: Rows in the most recently built catalog (gauge)

Build Metrics:
  - itemgraph_feature_build_duration_seconds: Both feature passes (histogram)
  - itemgraph_feature_columns: Width of the feature matrix (gauge)
  - itemgraph_graph_build_duration_seconds: Similarity ranking (histogram)
  - itemgraph_graph_edges: Total neighbor entries in the graph (gauge)
  - itemgraph_build_errors_total: Failed builds (counter)
    Labels: stage (catalog, features, items, graph)

Lookup Metrics:
  - itemgraph_recommend_requests_total: Lookups (counter)
    Labels: result (ok, empty, not_found, not_built)

# Usage

	start := time.Now()
	m, err := features.Build(ctx, src, cols, opts)
	if err != nil {
	    metrics.RecordBuildError(metrics.StageFeatures)
	    return err
	}
	metrics.RecordFeatureBuild(time.Since(start), m.Rows(), m.Cols())

# Exposition

The itemgraph CLI is a one-shot process, so nothing is scraped. With
--metrics-file it writes the default gatherer to a file through
prometheus.WriteToTextfile when the run ends, successful or not.

# Testing

Tests read collector values with prometheus/testutil:

	before := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues("ok"))
*/
package metrics

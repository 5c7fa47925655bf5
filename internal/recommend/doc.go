// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

// Package recommend answers "items similar to this one" from a product catalog.
//
// # Architecture
//
// A build runs three stages over a catalog:
//
//   - features: min-max scaled numeric columns and one-hot categorical
//     columns, computed in two passes (see package features)
//   - algorithms: exact cosine similarity between every pair of rows,
//     keeping each row's top neighbors (see package algorithms)
//   - graph: the resulting immutable adjacency lists (see package graph)
//
// Recommend is the bare lookup over a graph. Engine composes the stages,
// keeps the latest successful build, and joins neighbor rows with the
// display metadata of each Item.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Build(ctx, table, items); err != nil {
//	    return err
//	}
//	resp, err := engine.Similar(ctx, recommend.Request{
//	    Mode:      recommend.LookupByProductID,
//	    ProductID: 42,
//	    K:         5,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Builds are serialized and swap in
// a new snapshot under an exclusive lock only once they have fully
// succeeded. Lookups take a shared lock and never observe a partial build.
package recommend

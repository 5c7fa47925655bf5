// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

// Package algorithms turns a feature matrix into a similarity graph.
//
// CosineKNN is the only builder: exact all-pairs cosine similarity, keeping
// the k most similar other rows of every row.
//
// # Ranking
//
// For rows i and j with feature vectors a and b:
//
//	sim(i, j) = (a · b) / (|a| |b|)
//
// Row norms are computed once per build. When either norm is zero the
// similarity is 0. Each row's list is sorted by descending similarity with
// ties broken by ascending row index, and a row never appears in its own
// list. Selection keeps a bounded heap of size k per row, so ranking a row
// costs O(n log k) after the O(n·d) dot products.
//
// # Concurrency
//
// Rows are ranked independently. With Workers > 1 they are spread over an
// errgroup; each goroutine writes only its own row's slot, so the graph is
// identical for every worker count. A canceled context aborts the build.
//
// # Usage
//
//	knn := algorithms.NewCosineKNN(algorithms.CosineKNNConfig{Workers: 4}, logger)
//	g, err := knn.Build(ctx, matrix, 5)
package algorithms

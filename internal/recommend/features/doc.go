// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

// Package features turns raw catalog rows into a dense numeric feature matrix.
//
// # Two Passes
//
// The column layout of the matrix depends on global statistics that are only
// known after every row has been seen, so the builder scans its Source twice:
//
//  1. Statistics pass: a fold over the rows that tracks the running minimum and
//     maximum of every numeric column and the distinct values of every
//     categorical column. The result is frozen into an immutable Schema.
//  2. Population pass: a stateless per-row transform that writes min-max
//     normalized numeric values and one-hot categorical blocks at the offsets
//     fixed by the Schema.
//
// # Layout
//
// Numeric columns come first, in the order requested, one feature each.
// Categorical columns follow, in the order requested, each expanded into a
// one-hot block ordered by the sorted, deduplicated vocabulary of the column:
//
//	feature_len = len(numeric) + sum(len(vocabulary(c)) for c in categorical)
//
// Row i of the matrix always corresponds to row i of the Source.
//
// # Numeric Edge Cases
//
//   - A numeric column whose minimum equals its maximum scales to 0.0 for every row.
//   - NaN and infinite literals are rejected as malformed numeric values.
//   - A categorical value or numeric value seen in the population pass that the
//     statistics pass did not observe fails with ErrInconsistentData.
//
// # Usage
//
//	m, err := features.Build(ctx, table, features.Columns{
//	    Numeric:     []string{"Price", "Rating"},
//	    Categorical: []string{"Brand", "Size"},
//	}, features.BuildOptions{})
//	if err != nil {
//	    return fmt.Errorf("build features: %w", err)
//	}
package features

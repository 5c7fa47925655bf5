// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

/*
Package catalog reads product catalogs into memory.

A catalog is a delimited text file with a header row. Load reads it through an
in-memory DuckDB connection using read_csv with every column typed as VARCHAR,
so values reach the feature builder exactly as written in the file. Row order
is the file order and NULL fields become empty strings.

The resulting Table implements features.Source and can be passed straight to
recommend.Engine.Build. Items extracts the display metadata printed next to
each recommendation.

Usage:

	table, err := catalog.Load(ctx, "fashion_products.csv", catalog.LoadOptions{})
	if err != nil {
	    return fmt.Errorf("load catalog: %w", err)
	}
	items, err := table.Items(catalog.DefaultItemColumns())
*/
package catalog

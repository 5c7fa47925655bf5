// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

// Package main is the itemgraph command line tool.
//
// itemgraph reads a product catalog, encodes the configured numeric and
// categorical columns into feature vectors, links every product to its most
// similar products by cosine similarity and prints the neighbors of one
// product.
//
// # Configuration
//
// Settings are layered (highest priority wins):
//   - Command line flags
//   - Environment variables (ITEMGRAPH_*, LOG_LEVEL, LOG_FORMAT)
//   - Config file (--config, ITEMGRAPH_CONFIG or ./itemgraph.yaml)
//   - Built-in defaults
//
// # Example Usage
//
// Prompt for a product ID:
//
//	itemgraph recommend --catalog fashion_products.csv
//
// Non-interactive, by product ID or by row:
//
//	itemgraph recommend --catalog fashion_products.csv --product 42 -k 5
//	itemgraph recommend --row 0 --numeric Price,Rating --categorical Brand,Size,Color
//
// A -k above the configured neighbor count raises it for the run. --stats
// prints build statistics; --metrics-file writes the Prometheus metrics of
// the run in text format, for the node_exporter textfile collector:
//
//	itemgraph recommend --product 42 --stats --metrics-file /var/lib/node_exporter/itemgraph.prom
//
// # Exit Status
//
// 0 on success, 1 on any error. The error message names the failing stage.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if noColorRequested(root) {
			color.NoColor = true
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "itemgraph: %v\n", err) //nolint:errcheck // stderr
		stop()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: stop already called
	}
}

// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/tomtom215/itemgraph/internal/recommend"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	scoreColor  = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
)

// printRecommendations writes a header naming the target product followed by
// one line per recommendation.
func printRecommendations(w io.Writer, items []recommend.Item, resp *recommend.Response) error {
	target := resp.Metadata.Index
	if target >= 0 && target < len(items) {
		if _, err := headerColor.Fprintf(w, "Recommendations for %s from %s:\n", items[target].Name, items[target].Brand); err != nil {
			return err
		}
	}

	if len(resp.Items) == 0 {
		_, err := warnColor.Fprintln(w, "No recommendations found.")
		return err
	}

	for _, rec := range resp.Items {
		it := rec.Item
		if _, err := fmt.Fprintf(w,
			"Product ID: %3d, Name: %7s, Brand: %s, Category: %15s, Price: %3s, Rating: %.3f, Color: %6s, Size: %s, Similarity: ",
			it.ProductID, it.Name, it.Brand, it.Category,
			strconv.FormatFloat(it.Price, 'f', -1, 64), it.Rating, it.Color, it.Size,
		); err != nil {
			return err
		}
		if _, err := scoreColor.Fprintf(w, "%.4f\n", rec.Score); err != nil {
			return err
		}
	}
	return nil
}

// printStats writes the build summary and engine counters.
func printStats(w io.Writer, stats recommend.BuildStats, m recommend.Metrics) error {
	if _, err := headerColor.Fprintf(w, "Build %s:\n", stats.BuildID); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w,
		"  rows: %d\n  features: %d\n  neighbors: %d\n  edges: %d\n"+
			"  feature pass: %s\n  graph pass: %s\n"+
			"  lookups: %d, errors: %d, cache hits: %d, cache misses: %d\n",
		stats.Rows, stats.FeatureLen, stats.Neighbors, stats.Edges,
		stats.FeatureDuration.Round(time.Microsecond), stats.GraphDuration.Round(time.Microsecond),
		m.RequestCount, m.ErrorCount, m.Cache.Hits, m.Cache.Misses,
	)
	return err
}

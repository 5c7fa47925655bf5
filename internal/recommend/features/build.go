// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package features

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// BuildOptions tunes the population pass.
type BuildOptions struct {
	// Workers bounds the goroutines encoding rows. Zero or one encodes
	// sequentially. The output does not depend on the worker count.
	Workers int
}

// Build runs both passes over src and returns the feature matrix.
// No partial matrix is ever returned: any error aborts the build.
func Build(ctx context.Context, src Source, cols Columns, opts BuildOptions) (*Matrix, error) {
	schema, err := CollectStats(src, cols)
	if err != nil {
		return nil, fmt.Errorf("statistics pass: %w", err)
	}

	m, err := Populate(ctx, src, schema, opts)
	if err != nil {
		return nil, fmt.Errorf("population pass: %w", err)
	}

	return m, nil
}

// Populate runs the population pass over src using a frozen schema.
// src must yield the same rows the schema was collected from.
func Populate(ctx context.Context, src Source, schema *Schema, opts BuildOptions) (*Matrix, error) {
	width := schema.FeatureLen()
	data := make([]float64, schema.RowCount*width)

	var (
		seen int
		err  error
	)
	if opts.Workers <= 1 {
		seen, err = populateSequential(ctx, src, schema, data)
	} else {
		seen, err = populateParallel(ctx, src, schema, data, opts.Workers)
	}
	if err != nil {
		return nil, err
	}

	if seen != schema.RowCount {
		return nil, &InconsistencyError{
			Row:    seen,
			Reason: "statistics pass saw " + strconv.Itoa(schema.RowCount) + " rows, population pass saw " + strconv.Itoa(seen),
		}
	}

	return newMatrix(schema.RowCount, width, data, schema), nil
}

func populateSequential(ctx context.Context, src Source, schema *Schema, data []float64) (int, error) {
	width := schema.FeatureLen()
	row := 0
	err := src.Each(func(_ int, record []string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if row >= schema.RowCount {
			return extraRow(row, schema.RowCount)
		}
		if err := schema.EncodeRow(row, record, data[row*width:(row+1)*width]); err != nil {
			return err
		}
		row++
		return nil
	})
	return row, err
}

func populateParallel(ctx context.Context, src Source, schema *Schema, data []float64, workers int) (int, error) {
	records := make([][]string, 0, schema.RowCount)
	err := src.Each(func(_ int, record []string) error {
		if len(records) >= schema.RowCount {
			return extraRow(len(records), schema.RowCount)
		}
		records = append(records, slices.Clone(record))
		return nil
	})
	if err != nil {
		return len(records), err
	}

	width := schema.FeatureLen()
	errs := make([]error, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for row, record := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			errs[row] = schema.EncodeRow(row, record, data[row*width:(row+1)*width])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return len(records), err
	}

	// Report the lowest failing row so errors match the sequential path.
	for _, err := range errs {
		if err != nil {
			return len(records), err
		}
	}
	return len(records), nil
}

func extraRow(row, want int) error {
	return &InconsistencyError{
		Row:    row,
		Reason: "population pass saw more than the " + strconv.Itoa(want) + " rows of the statistics pass",
	}
}

// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package features

import (
	"math"
	"sort"
)

// statsAccumulator is the fold state of the statistics pass.
// Each add call touches only this accumulator.
type statsAccumulator struct {
	names Columns
	cols  resolved
	mins  []float64
	maxs  []float64
	vocab []map[string]struct{}
	rows  int
}

func newStatsAccumulator(names Columns, cols resolved) *statsAccumulator {
	acc := &statsAccumulator{
		names: names,
		cols:  cols,
		mins:  make([]float64, len(cols.numeric)),
		maxs:  make([]float64, len(cols.numeric)),
		vocab: make([]map[string]struct{}, len(cols.categorical)),
	}
	for i := range acc.mins {
		acc.mins[i] = math.Inf(1)
		acc.maxs[i] = math.Inf(-1)
	}
	for i := range acc.vocab {
		acc.vocab[i] = make(map[string]struct{})
	}
	return acc
}

// add folds one record into the accumulator. Rows are numbered by arrival.
func (a *statsAccumulator) add(_ int, record []string) error {
	row := a.rows
	for i, idx := range a.cols.numeric {
		name := a.names.Numeric[i]
		if idx >= len(record) {
			return shortRecord(row, name, len(record))
		}
		v, err := parseNumeric(row, name, record[idx])
		if err != nil {
			return err
		}
		if v < a.mins[i] {
			a.mins[i] = v
		}
		if v > a.maxs[i] {
			a.maxs[i] = v
		}
	}

	for i, idx := range a.cols.categorical {
		if idx >= len(record) {
			return shortRecord(row, a.names.Categorical[i], len(record))
		}
		a.vocab[i][record[idx]] = struct{}{}
	}

	a.rows++
	return nil
}

// freeze sorts the vocabularies, fixes every offset and returns the Schema.
func (a *statsAccumulator) freeze() *Schema {
	schema := &Schema{
		Numeric:     make([]NumericColumn, len(a.cols.numeric)),
		Categorical: make([]CategoricalColumn, len(a.cols.categorical)),
		RowCount:    a.rows,
	}

	offset := 0
	for i, idx := range a.cols.numeric {
		lo, hi := a.mins[i], a.maxs[i]
		if a.rows == 0 {
			lo, hi = 0, 0
		}
		schema.Numeric[i] = NumericColumn{
			Name:   a.names.Numeric[i],
			Index:  idx,
			Min:    lo,
			Max:    hi,
			Offset: offset,
		}
		offset++
	}

	for i, idx := range a.cols.categorical {
		vocabulary := make([]string, 0, len(a.vocab[i]))
		for value := range a.vocab[i] {
			vocabulary = append(vocabulary, value)
		}
		sort.Strings(vocabulary)

		positions := make(map[string]int, len(vocabulary))
		for k, value := range vocabulary {
			positions[value] = k
		}

		schema.Categorical[i] = CategoricalColumn{
			Name:       a.names.Categorical[i],
			Index:      idx,
			Vocabulary: vocabulary,
			Offset:     offset,
			positions:  positions,
		}
		offset += len(vocabulary)
	}

	schema.featureLen = offset
	return schema
}

// CollectStats runs the statistics pass over src and returns the frozen Schema.
// Column names are checked against the header before any row is read.
func CollectStats(src Source, cols Columns) (*Schema, error) {
	res, err := resolveColumns(src.Columns(), cols)
	if err != nil {
		return nil, err
	}

	acc := newStatsAccumulator(cols, res)
	if err := src.Each(acc.add); err != nil {
		return nil, err
	}

	return acc.freeze(), nil
}

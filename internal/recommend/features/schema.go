// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package features

import (
	"math"
	"strconv"
	"strings"
)

// NumericColumn describes a min-max normalized feature.
type NumericColumn struct {
	// Name is the source column name.
	Name string `json:"name"`

	// Index is the position of the column in source records.
	Index int `json:"index"`

	// Min and Max are the observed bounds over every row.
	Min float64 `json:"min"`
	Max float64 `json:"max"`

	// Offset is the feature position written by this column.
	Offset int `json:"offset"`
}

// Scale maps v into [0, 1] using the column bounds.
// A zero-range column scales every value to 0.
func (c NumericColumn) Scale(v float64) float64 {
	span := c.Max - c.Min
	if span == 0 {
		return 0
	}
	if math.IsInf(span, 0) {
		// Bounds near ±MaxFloat64 overflow the subtraction; halve both sides.
		return (v/2 - c.Min/2) / (c.Max/2 - c.Min/2)
	}
	return (v - c.Min) / span
}

// CategoricalColumn describes a one-hot encoded block.
type CategoricalColumn struct {
	// Name is the source column name.
	Name string `json:"name"`

	// Index is the position of the column in source records.
	Index int `json:"index"`

	// Vocabulary is the sorted, deduplicated set of observed values.
	// Position k of the block is 1.0 when the row value equals Vocabulary[k].
	Vocabulary []string `json:"vocabulary"`

	// Offset is the first feature position of the block.
	Offset int `json:"offset"`

	positions map[string]int
}

// Position returns the one-hot index of value within the block.
func (c CategoricalColumn) Position(value string) (int, bool) {
	pos, ok := c.positions[value]
	return pos, ok
}

// Schema is the frozen result of the statistics pass. It fixes the feature
// layout before any row is populated and is never mutated afterwards.
type Schema struct {
	Numeric     []NumericColumn     `json:"numeric"`
	Categorical []CategoricalColumn `json:"categorical"`

	// RowCount is the number of rows seen by the statistics pass.
	RowCount int `json:"row_count"`

	featureLen int
}

// FeatureLen returns the number of columns of the feature matrix.
func (s *Schema) FeatureLen() int {
	return s.featureLen
}

// FeatureNames returns a label for every feature position, numeric columns
// by name and one-hot positions as "column=value".
func (s *Schema) FeatureNames() []string {
	names := make([]string, s.featureLen)
	for _, col := range s.Numeric {
		names[col.Offset] = col.Name
	}
	for _, col := range s.Categorical {
		for k, value := range col.Vocabulary {
			names[col.Offset+k] = col.Name + "=" + value
		}
	}
	return names
}

// EncodeRow writes the feature vector of one record into dst, which must have
// length FeatureLen. Every position of dst is overwritten.
func (s *Schema) EncodeRow(row int, record []string, dst []float64) error {
	for _, col := range s.Numeric {
		if col.Index >= len(record) {
			return shortRecord(row, col.Name, len(record))
		}
		v, err := parseNumeric(row, col.Name, record[col.Index])
		if err != nil {
			return err
		}
		if v < col.Min || v > col.Max {
			return &InconsistencyError{
				Row:    row,
				Column: col.Name,
				Reason: "value " + strconv.FormatFloat(v, 'g', -1, 64) + " outside observed range",
			}
		}
		dst[col.Offset] = col.Scale(v)
	}

	for _, col := range s.Categorical {
		if col.Index >= len(record) {
			return shortRecord(row, col.Name, len(record))
		}
		block := dst[col.Offset : col.Offset+len(col.Vocabulary)]
		for k := range block {
			block[k] = 0
		}
		pos, ok := col.Position(record[col.Index])
		if !ok {
			return &InconsistencyError{
				Row:    row,
				Column: col.Name,
				Reason: "category " + strconv.Quote(record[col.Index]) + " not in vocabulary",
			}
		}
		block[pos] = 1
	}

	return nil
}

// parseNumeric parses a numeric field. Surrounding whitespace is ignored;
// NaN and infinities are rejected.
func parseNumeric(row int, column, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Row: row, Column: column, Value: raw}
	}
	return v, nil
}

func shortRecord(row int, column string, fields int) error {
	return &InconsistencyError{
		Row:    row,
		Column: column,
		Reason: "record has only " + strconv.Itoa(fields) + " fields",
	}
}

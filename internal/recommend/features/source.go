// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package features

// Source provides ordered, typed-by-name rows to the builder.
//
// Each must visit the rows in the same order on every call; the builder calls
// it twice. Records passed to fn must not be modified by the callback and are
// not retained past the call unless the Source guarantees they are immutable.
type Source interface {
	// Columns returns the header names in record order.
	Columns() []string

	// Each calls fn for every row in order. Iteration stops at the first
	// non-nil error returned by fn, which Each returns unchanged.
	Each(fn func(row int, record []string) error) error
}

// Columns names the source columns used to build features.
type Columns struct {
	// Numeric columns are min-max normalized into a single feature each.
	Numeric []string `json:"numeric" koanf:"numeric"`

	// Categorical columns are one-hot encoded over their observed vocabulary.
	Categorical []string `json:"categorical" koanf:"categorical"`
}

// resolved maps requested column names to record positions.
type resolved struct {
	numeric     []int
	categorical []int
}

// resolveColumns looks up every requested column in the header.
// The first occurrence wins when the header itself repeats a name.
func resolveColumns(header []string, cols Columns) (resolved, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := positions[name]; !ok {
			positions[name] = i
		}
	}

	requested := make(map[string]struct{}, len(cols.Numeric)+len(cols.Categorical))
	lookup := func(names []string) ([]int, error) {
		out := make([]int, len(names))
		for i, name := range names {
			if _, dup := requested[name]; dup {
				return nil, &ColumnError{Column: name, Err: ErrDuplicateColumn}
			}
			requested[name] = struct{}{}

			pos, ok := positions[name]
			if !ok {
				return nil, &ColumnError{Column: name, Err: ErrColumnNotFound}
			}
			out[i] = pos
		}
		return out, nil
	}

	numeric, err := lookup(cols.Numeric)
	if err != nil {
		return resolved{}, err
	}
	categorical, err := lookup(cols.Categorical)
	if err != nil {
		return resolved{}, err
	}

	return resolved{numeric: numeric, categorical: categorical}, nil
}

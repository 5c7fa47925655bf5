// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tomtom215/itemgraph/internal/recommend/features"
)

// ErrRaggedRow is returned when a record does not have one field per column.
var ErrRaggedRow = errors.New("record length does not match header")

// Table is an immutable in-memory catalog: a header and ordered records.
// The position of a record is its row index.
type Table struct {
	columns []string
	records [][]string
}

var _ features.Source = (*Table)(nil)

// NewTable builds a Table from a header and records. Both are copied.
func NewTable(columns []string, records [][]string) (*Table, error) {
	t := &Table{
		columns: slices.Clone(columns),
		records: make([][]string, len(records)),
	}
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, fmt.Errorf("row %d: %w: got %d fields, want %d", i, ErrRaggedRow, len(rec), len(columns))
		}
		t.records[i] = slices.Clone(rec)
	}
	return t, nil
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Row returns a copy of record i, or false when i is out of range.
func (t *Table) Row(i int) ([]string, bool) {
	if i < 0 || i >= t.Len() {
		return nil, false
	}
	return slices.Clone(t.records[i]), true
}

// ColumnIndex returns the position of the first column called name, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.columns, name)
}

// Each visits records in row order. Records are shared with the table and
// must not be modified.
func (t *Table) Each(fn func(row int, record []string) error) error {
	for i, rec := range t.records {
		if err := fn(i, rec); err != nil {
			return err
		}
	}
	return nil
}

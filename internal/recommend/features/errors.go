// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package features

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by the builder.
var (
	// ErrColumnNotFound indicates a requested column is not in the source header.
	ErrColumnNotFound = errors.New("column not found")

	// ErrDuplicateColumn indicates a column was requested more than once.
	ErrDuplicateColumn = errors.New("column requested more than once")

	// ErrMalformedNumeric indicates a numeric field that does not parse as a finite number.
	ErrMalformedNumeric = errors.New("malformed numeric value")

	// ErrInconsistentData indicates the population pass saw data the statistics pass did not.
	ErrInconsistentData = errors.New("inconsistent data between passes")

	// ErrShape indicates a feature matrix was constructed with mismatched dimensions.
	ErrShape = errors.New("feature matrix shape mismatch")

	// ErrNonFinite indicates a feature value is NaN or infinite.
	ErrNonFinite = errors.New("non-finite feature value")
)

// ColumnError reports a problem with a requested column name.
// It is returned before any row is read.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// ParseError reports a numeric field that could not be parsed.
type ParseError struct {
	Row    int
	Column string
	Value  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v %q", e.Row, e.Column, ErrMalformedNumeric, e.Value)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedNumeric
}

// InconsistencyError reports a divergence between the statistics pass and the
// population pass. Column is empty when the divergence is not column specific
// (for example a changed row count).
type InconsistencyError struct {
	Row    int
	Column string
	Reason string
}

func (e *InconsistencyError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v: %s", e.Row, ErrInconsistentData, e.Reason)
	}
	return fmt.Sprintf("row %d, column %q: %v: %s", e.Row, e.Column, ErrInconsistentData, e.Reason)
}

func (e *InconsistencyError) Unwrap() error {
	return ErrInconsistentData
}

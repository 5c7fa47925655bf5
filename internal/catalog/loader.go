// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	// DuckDB driver - read_csv parses the catalog file
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/itemgraph/internal/logging"
	"github.com/tomtom215/itemgraph/internal/metrics"
)

// DefaultDelimiter separates fields when LoadOptions leaves it unset.
const DefaultDelimiter = ","

var (
	// ErrEmptyPath is returned when Load is called without a file path.
	ErrEmptyPath = errors.New("catalog path is empty")

	// ErrInvalidDelimiter is returned for delimiters that are not a single
	// character or that collide with quoting and line breaks.
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)

// LoadOptions controls how the catalog file is parsed.
type LoadOptions struct {
	// Delimiter is a single character. Empty means DefaultDelimiter.
	Delimiter string
}

func (o LoadOptions) delimiter() (string, error) {
	d := o.Delimiter
	if d == "" {
		return DefaultDelimiter, nil
	}
	if utf8.RuneCountInString(d) != 1 || d == `"` || d == "\n" || d == "\r" {
		return "", fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}
	return d, nil
}

// Load reads a delimited file with a header row into a Table.
//
// Every column is read as text. Empty and NULL fields become "". Row order
// matches the file.
func Load(ctx context.Context, path string, opts LoadOptions) (*Table, error) {
	start := time.Now()
	table, err := load(ctx, path, opts)
	metrics.RecordCatalogLoad(time.Since(start), err)

	logger := logging.Ctx(ctx).With().Str("component", "catalog").Str("path", path).Logger()
	if err != nil {
		logger.Error().Err(err).Msg("Catalog load failed")
		return nil, err
	}

	logger.Info().
		Int("rows", table.Len()).
		Int("columns", len(table.columns)).
		Dur("duration", time.Since(start)).
		Msg("Catalog loaded")
	return table, nil
}

func load(ctx context.Context, path string, opts LoadOptions) (*Table, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	delim, err := opts.delimiter()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close() //nolint:errcheck // in-memory database, nothing to flush

	if _, err := db.ExecContext(ctx, "SET preserve_insertion_order = true"); err != nil {
		return nil, fmt.Errorf("configure duckdb: %w", err)
	}

	//nolint:gosec // G201: path and delimiter are quoted literals, read_csv takes no bind parameters
	query := fmt.Sprintf(
		"SELECT * FROM read_csv(%s, header = true, all_varchar = true, delim = %s)",
		quoteLiteral(path), quoteLiteral(delim),
	)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	defer rows.Close() //nolint:errcheck // error surfaced through rows.Err

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	var records [][]string
	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records), err)
		}
		rec := make([]string, len(columns))
		for i, v := range values {
			rec[i] = v.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog rows: %w", err)
	}

	return &Table{columns: columns, records: records}, nil
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

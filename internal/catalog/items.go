// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/itemgraph/internal/recommend"
	"github.com/tomtom215/itemgraph/internal/recommend/features"
)

// ItemColumns maps display fields to catalog column names.
// An empty name leaves the field at its zero value.
type ItemColumns struct {
	ProductID string `json:"product_id" koanf:"product_id"`
	Name      string `json:"name" koanf:"name"`
	Brand     string `json:"brand" koanf:"brand"`
	Category  string `json:"category" koanf:"category"`
	Price     string `json:"price" koanf:"price"`
	Rating    string `json:"rating" koanf:"rating"`
	Color     string `json:"color" koanf:"color"`
	Size      string `json:"size" koanf:"size"`
}

// DefaultItemColumns returns the column names of the fashion products file.
func DefaultItemColumns() ItemColumns {
	return ItemColumns{
		ProductID: "Product ID",
		Name:      "Product Name",
		Brand:     "Brand",
		Category:  "Category",
		Price:     "Price",
		Rating:    "Rating",
		Color:     "Color",
		Size:      "Size",
	}
}

// FieldError reports a display field that could not be parsed.
// It matches both features.ErrMalformedNumeric and the underlying strconv
// error under errors.Is.
type FieldError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("row %d, column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() []error {
	return []error{features.ErrMalformedNumeric, e.Err}
}

// Items builds one recommend.Item per row, in row order.
// Blank numeric fields yield zero.
func (t *Table) Items(mapping ItemColumns) ([]recommend.Item, error) {
	lookup := func(name string) (int, error) {
		if name == "" {
			return -1, nil
		}
		pos := t.ColumnIndex(name)
		if pos < 0 {
			return -1, &features.ColumnError{Column: name, Err: features.ErrColumnNotFound}
		}
		return pos, nil
	}

	names := []string{
		mapping.ProductID, mapping.Name, mapping.Brand, mapping.Category,
		mapping.Price, mapping.Rating, mapping.Color, mapping.Size,
	}
	pos := make([]int, len(names))
	for i, name := range names {
		p, err := lookup(name)
		if err != nil {
			return nil, err
		}
		pos[i] = p
	}

	items := make([]recommend.Item, len(t.records))
	for row, rec := range t.records {
		text := func(field int) string {
			if pos[field] < 0 {
				return ""
			}
			return rec[pos[field]]
		}
		number := func(field int) (float64, error) {
			raw := strings.TrimSpace(text(field))
			if raw == "" {
				return 0, nil
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return 0, &FieldError{Row: row, Column: names[field], Value: raw, Err: err}
			}
			return v, nil
		}

		var item recommend.Item
		if raw := strings.TrimSpace(text(0)); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, &FieldError{Row: row, Column: names[0], Value: raw, Err: err}
			}
			item.ProductID = id
		}
		item.Name = text(1)
		item.Brand = text(2)
		item.Category = text(3)

		var err error
		if item.Price, err = number(4); err != nil {
			return nil, err
		}
		if item.Rating, err = number(5); err != nil {
			return nil, err
		}
		item.Color = text(6)
		item.Size = text(7)

		items[row] = item
	}
	return items, nil
}

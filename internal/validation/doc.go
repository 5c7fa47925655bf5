// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator caches struct metadata across calls.
// Failures are returned as *RequestValidationError, which carries one
// ValidationError per failed field with a human-readable message.
//
// # Custom Validators
//
//   - delimiter: a single character other than a double quote or line
//     break, usable as the separator of a delimited catalog file
//
// # Usage
//
//	type CatalogConfig struct {
//	    Path      string `validate:"required"`
//	    Delimiter string `validate:"delimiter"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    return fmt.Errorf("catalog config: %w", verr)
//	}
//
// ValidateStruct returns a concrete pointer type. Returning it directly as
// an error without the nil check produces a non-nil error interface.
package validation

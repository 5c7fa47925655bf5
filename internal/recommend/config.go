// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package recommend

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/tomtom215/itemgraph/internal/recommend/features"
	"github.com/tomtom215/itemgraph/internal/validation"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Columns names the catalog columns that make up the feature vector.
	Columns features.Columns `json:"columns" koanf:"columns"`

	// Neighbors is the number of neighbors stored per item in the graph.
	// Lookups can never return more than this.
	// Default: 10.
	Neighbors int `json:"neighbors" koanf:"neighbors" validate:"min=0,max=10000"`

	// DefaultK is the number of recommendations returned when a request
	// does not set K.
	// Default: 5.
	DefaultK int `json:"default_k" koanf:"default_k" validate:"min=1"`

	// MaxK is the maximum allowed K value. Requests are also capped at
	// Neighbors.
	// Default: 100.
	MaxK int `json:"max_k" koanf:"max_k" validate:"gtefield=DefaultK,max=10000"`

	// Workers bounds the goroutines used by the population pass and the
	// neighbor ranking. Zero or one runs sequentially.
	// Default: number of CPUs.
	Workers int `json:"workers" koanf:"workers" validate:"min=0,max=1024"`

	// CacheSize is the number of lookups memoized per build. Zero disables
	// the cache.
	// Default: 1024.
	CacheSize int `json:"cache_size" koanf:"cache_size" validate:"min=0,max=1000000"`
}

// DefaultColumns returns the feature columns of the standard fashion
// catalog layout.
func DefaultColumns() features.Columns {
	return features.Columns{
		Numeric:     []string{"Price", "Rating"},
		Categorical: []string{"Brand", "Size"},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Columns:   DefaultColumns(),
		Neighbors: 10,
		DefaultK:  5,
		MaxK:      100,
		Workers:   runtime.NumCPU(),
		CacheSize: 1024,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if len(c.Columns.Numeric)+len(c.Columns.Categorical) == 0 {
		return fmt.Errorf("columns: at least one numeric or categorical column is required")
	}

	seen := make(map[string]struct{}, len(c.Columns.Numeric)+len(c.Columns.Categorical))
	for _, name := range slices.Concat(c.Columns.Numeric, c.Columns.Categorical) {
		if name == "" {
			return fmt.Errorf("columns: column names must not be empty")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("columns: %q is listed more than once", name)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Columns = features.Columns{
		Numeric:     slices.Clone(c.Columns.Numeric),
		Categorical: slices.Clone(c.Columns.Categorical),
	}
	return &clone
}

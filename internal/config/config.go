// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package config

import (
	"os"

	"github.com/tomtom215/itemgraph/internal/catalog"
	"github.com/tomtom215/itemgraph/internal/logging"
	"github.com/tomtom215/itemgraph/internal/recommend"
)

// Config holds all application configuration
type Config struct {
	Catalog   CatalogConfig    `koanf:"catalog"`
	Recommend recommend.Config `koanf:"recommend"`
	Logging   LoggingConfig    `koanf:"logging"`
}

// CatalogConfig locates and describes the catalog file
type CatalogConfig struct {
	Path      string              `koanf:"path" validate:"required"`
	Delimiter string              `koanf:"delimiter" validate:"required,delimiter"`
	Items     catalog.ItemColumns `koanf:"items"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DefaultConfig returns a Config with all defaults applied.
// These are loaded first and then overridden by the config file and
// environment variables.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:      "fashion_products.csv",
			Delimiter: catalog.DefaultDelimiter,
			Items:     catalog.DefaultItemColumns(),
		},
		Recommend: *recommend.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// LoadOptions returns the catalog read options.
func (c *CatalogConfig) LoadOptions() catalog.LoadOptions {
	return catalog.LoadOptions{Delimiter: c.Delimiter}
}

// Logger converts the section into a logging.Config writing to stderr.
func (c *LoggingConfig) Logger() logging.Config {
	return logging.Config{
		Level:     c.Level,
		Format:    c.Format,
		Caller:    c.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

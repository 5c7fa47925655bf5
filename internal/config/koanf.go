// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"itemgraph.yaml",
	"itemgraph.yml",
	"/etc/itemgraph/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "ITEMGRAPH_CONFIG"

// Load loads configuration using koanf with layered sources:
//  1. Defaults
//  2. Config file: explicitPath when set, otherwise ITEMGRAPH_CONFIG or the
//     first existing DefaultConfigPaths entry
//  3. Environment variables
//
// An explicitPath that does not exist is an error; the other file sources
// are optional.
func Load(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	configPath := explicitPath
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	// ITEMGRAPH_NEIGHBORS -> recommend.neighbors
	// LOG_LEVEL -> logging.level
	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "" when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"recommend.columns.numeric",
	"recommend.columns.categorical",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Environment variables arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok {
			// Already a slice (defaults or YAML)
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Catalog
	"itemgraph_catalog":         "catalog.path",
	"itemgraph_delimiter":       "catalog.delimiter",
	"itemgraph_item_product_id": "catalog.items.product_id",
	"itemgraph_item_name":       "catalog.items.name",
	"itemgraph_item_brand":      "catalog.items.brand",
	"itemgraph_item_category":   "catalog.items.category",
	"itemgraph_item_price":      "catalog.items.price",
	"itemgraph_item_rating":     "catalog.items.rating",
	"itemgraph_item_color":      "catalog.items.color",
	"itemgraph_item_size":       "catalog.items.size",

	// Recommendation engine
	"itemgraph_numeric_columns":     "recommend.columns.numeric",
	"itemgraph_categorical_columns": "recommend.columns.categorical",
	"itemgraph_neighbors":           "recommend.neighbors",
	"itemgraph_default_k":           "recommend.default_k",
	"itemgraph_max_k":               "recommend.max_k",
	"itemgraph_workers":             "recommend.workers",
	"itemgraph_cache_size":          "recommend.cache_size",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped and empty variables return "" so they never reach the config.
func envTransformFunc(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return envMappings[strings.ToLower(key)], value
}

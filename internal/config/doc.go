// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

/*
Package config loads itemgraph configuration.

Configuration is layered with koanf, each layer overriding the previous one:

 1. Built-in defaults (DefaultConfig)
 2. An optional YAML file
 3. Environment variables

The YAML file is the path passed to Load, else the file named by
ITEMGRAPH_CONFIG, else the first of DefaultConfigPaths that exists.

# Sections

	catalog:
	  path: fashion_products.csv
	  delimiter: ","
	  items:
	    product_id: Product ID
	    name: Product Name
	recommend:
	  columns:
	    numeric: [Price, Rating]
	    categorical: [Brand, Size]
	  neighbors: 10
	  default_k: 5
	  max_k: 100
	  workers: 0
	  cache_size: 1024
	logging:
	  level: info
	  format: console
	  caller: false

# Environment Variables

Catalog:
  - ITEMGRAPH_CATALOG: catalog file path
  - ITEMGRAPH_DELIMITER: single-character field delimiter
  - ITEMGRAPH_ITEM_PRODUCT_ID, ITEMGRAPH_ITEM_NAME, ITEMGRAPH_ITEM_BRAND,
    ITEMGRAPH_ITEM_CATEGORY, ITEMGRAPH_ITEM_PRICE, ITEMGRAPH_ITEM_RATING,
    ITEMGRAPH_ITEM_COLOR, ITEMGRAPH_ITEM_SIZE: display column names

Recommendation:
  - ITEMGRAPH_NUMERIC_COLUMNS: comma-separated numeric feature columns
  - ITEMGRAPH_CATEGORICAL_COLUMNS: comma-separated categorical feature columns
  - ITEMGRAPH_NEIGHBORS: neighbors kept per item
  - ITEMGRAPH_DEFAULT_K, ITEMGRAPH_MAX_K: lookup size bounds
  - ITEMGRAPH_WORKERS: build parallelism
  - ITEMGRAPH_CACHE_SIZE: lookups memoized per build, 0 disables

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Unmapped environment variables are ignored.
*/
package config

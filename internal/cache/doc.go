// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

/*
Package cache provides a size-bounded LRU cache with hit and miss accounting.

LRU wraps hashicorp/golang-lru with typed keys and values and counts hits,
misses and capacity evictions so callers can export them as metrics. The
recommendation engine keeps one LRU per build to memoize lookups; a new build
starts with an empty cache, so entries never outlive the graph they were
computed from.

Usage:

	c, err := cache.NewLRU[string, int](1024)
	if err != nil {
	    return err
	}
	c.Add("a", 1)
	if v, ok := c.Get("a"); ok {
	    // use v
	}
	stats := c.Stats()
*/
package cache

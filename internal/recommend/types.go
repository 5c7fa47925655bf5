// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package recommend

import (
	"time"

	"github.com/tomtom215/itemgraph/internal/cache"
)

// Item holds the display metadata of one catalog row.
// It is never used for similarity, only for presenting results.
type Item struct {
	// ProductID is the catalog's own product identifier.
	ProductID int64 `json:"product_id"`

	// Name is the product name.
	Name string `json:"name"`

	// Brand is the product brand.
	Brand string `json:"brand"`

	// Category is the product category.
	Category string `json:"category"`

	// Price is the listed price.
	Price float64 `json:"price"`

	// Rating is the average customer rating.
	Rating float64 `json:"rating"`

	// Color is the product color.
	Color string `json:"color,omitempty"`

	// Size is the product size.
	Size string `json:"size,omitempty"`
}

// ScoredItem is one recommendation.
type ScoredItem struct {
	// Index is the catalog row of the recommended item.
	Index int `json:"index"`

	// Score is the cosine similarity to the requested item, in [-1, 1].
	Score float64 `json:"score"`

	// Item is the display metadata of the row. It is the zero Item when
	// the engine was built without metadata.
	Item Item `json:"item"`
}

// LookupMode selects how a Request identifies the source item.
type LookupMode int

const (
	// LookupByIndex uses Request.Index as the catalog row.
	LookupByIndex LookupMode = iota
	// LookupByProductID resolves Request.ProductID to a catalog row.
	LookupByProductID
)

// String returns a human-readable mode name.
func (m LookupMode) String() string {
	switch m {
	case LookupByIndex:
		return "index"
	case LookupByProductID:
		return "product_id"
	default:
		return "unknown"
	}
}

// Request asks for the items most similar to one catalog item.
type Request struct {
	// Mode selects whether Index or ProductID identifies the item.
	Mode LookupMode `json:"mode"`

	// Index is the catalog row, used with LookupByIndex.
	Index int `json:"index,omitempty"`

	// ProductID is the product identifier, used with LookupByProductID.
	ProductID int64 `json:"product_id,omitempty"`

	// K is the number of recommendations to return.
	// Defaults to Config.DefaultK if zero and is capped at Config.MaxK
	// and Config.Neighbors.
	K int `json:"k,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response holds the recommendations for one Request.
type Response struct {
	// Items is the ordered list of recommended items, most similar first.
	Items []ScoredItem `json:"items"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Mode is the lookup mode used.
	Mode string `json:"mode"`

	// Index is the resolved catalog row of the requested item.
	Index int `json:"index"`

	// K is the effective number of recommendations requested.
	K int `json:"k"`

	// BuildID identifies the graph build that served the request.
	BuildID string `json:"build_id"`

	// BuiltAt is when that build finished.
	BuiltAt time.Time `json:"built_at"`

	// Cached reports whether the neighbors came from the lookup cache.
	Cached bool `json:"cached"`

	// LatencyMS is the lookup latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was produced.
	Timestamp time.Time `json:"timestamp"`
}

// BuildStats describes the current graph build.
type BuildStats struct {
	// BuildID is the correlation ID logged with the build.
	BuildID string `json:"build_id"`

	// Rows is the number of catalog rows.
	Rows int `json:"rows"`

	// FeatureLen is the width of the feature matrix.
	FeatureLen int `json:"feature_len"`

	// Neighbors is the per-row neighbor count the graph was built with.
	Neighbors int `json:"neighbors"`

	// Edges is the total number of neighbor entries in the graph.
	Edges int `json:"edges"`

	// FeatureDuration is the time spent in both feature passes.
	FeatureDuration time.Duration `json:"feature_duration"`

	// GraphDuration is the time spent ranking neighbors.
	GraphDuration time.Duration `json:"graph_duration"`

	// BuiltAt is when the build finished.
	BuiltAt time.Time `json:"built_at"`
}

// Metrics tracks engine counters since construction.
type Metrics struct {
	// RequestCount is the number of Similar calls.
	RequestCount int64 `json:"request_count"`

	// ErrorCount is the number of failed builds and lookups.
	ErrorCount int64 `json:"error_count"`

	// BuildCount is the number of successful builds.
	BuildCount int64 `json:"build_count"`

	// Cache holds lookup cache counters for the current build.
	Cache cache.Stats `json:"cache"`
}

// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package recommend

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/itemgraph/internal/cache"
	"github.com/tomtom215/itemgraph/internal/logging"
	"github.com/tomtom215/itemgraph/internal/metrics"
	"github.com/tomtom215/itemgraph/internal/recommend/features"
)

// memSource implements features.Source for testing.
type memSource struct {
	header  []string
	records [][]string
}

func (s *memSource) Columns() []string {
	return s.header
}

func (s *memSource) Each(fn func(row int, record []string) error) error {
	for i, rec := range s.records {
		if err := fn(i, rec); err != nil {
			return err
		}
	}
	return nil
}

// fashionCatalog returns a small catalog plus matching item metadata.
// Rows 0 and 3 are identical apart from the product ID.
func fashionCatalog() (*memSource, []Item) {
	src := &memSource{
		header: []string{"Product ID", "Brand", "Price", "Rating", "Size"},
		records: [][]string{
			{"101", "Nike", "40", "3.5", "M"},
			{"102", "Adidas", "80", "4.5", "XL"},
			{"103", "Zara", "20", "1.0", "S"},
			{"104", "Nike", "40", "3.5", "M"},
			{"105", "Adidas", "75", "4.0", "XL"},
		},
	}
	items := []Item{
		{ProductID: 101, Name: "Dress", Brand: "Nike", Price: 40, Rating: 3.5, Size: "M"},
		{ProductID: 102, Name: "Jeans", Brand: "Adidas", Price: 80, Rating: 4.5, Size: "XL"},
		{ProductID: 103, Name: "Shoes", Brand: "Zara", Price: 20, Rating: 1.0, Size: "S"},
		{ProductID: 104, Name: "Sweater", Brand: "Nike", Price: 40, Rating: 3.5, Size: "M"},
		{ProductID: 105, Name: "T-shirt", Brand: "Adidas", Price: 75, Rating: 4.0, Size: "XL"},
	}
	return src, items
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Neighbors = 3
	cfg.DefaultK = 2
	cfg.MaxK = 3
	cfg.Workers = 2
	return cfg
}

func newTestEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()

	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func builtEngine(t *testing.T) *Engine {
	t.Helper()

	e := newTestEngine(t, testConfig())
	src, items := fashionCatalog()
	if err := e.Build(context.Background(), src, items); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e := newTestEngine(t, nil)
		if e.GetConfig().Neighbors != DefaultConfig().Neighbors {
			t.Errorf("Neighbors = %d, want default %d", e.GetConfig().Neighbors, DefaultConfig().Neighbors)
		}
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DefaultK = 0
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() should reject an invalid config")
		}
	})

	t.Run("config is copied", func(t *testing.T) {
		cfg := testConfig()
		e := newTestEngine(t, cfg)
		cfg.Neighbors = 50
		if e.GetConfig().Neighbors != 3 {
			t.Errorf("engine config changed with caller's copy: Neighbors = %d", e.GetConfig().Neighbors)
		}
	})
}

func TestEngine_NotBuilt(t *testing.T) {
	e := newTestEngine(t, testConfig())

	before := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues(metrics.ResultNotBuilt))

	_, err := e.Similar(context.Background(), Request{Index: 0})
	if !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Similar() error = %v, want ErrNotBuilt", err)
	}
	if e.Built() || e.Graph() != nil || e.Matrix() != nil || e.Items() != nil {
		t.Error("accessors should be empty before the first build")
	}
	if _, ok := e.Stats(); ok {
		t.Error("Stats() ok = true before the first build")
	}

	after := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues(metrics.ResultNotBuilt))
	if after-before != 1 {
		t.Errorf("not_built lookups increased by %v, want 1", after-before)
	}
}

func TestEngine_Build(t *testing.T) {
	e := builtEngine(t)

	stats, ok := e.Stats()
	if !ok {
		t.Fatal("Stats() ok = false after Build")
	}
	if stats.Rows != 5 {
		t.Errorf("Rows = %d, want 5", stats.Rows)
	}
	// Price, Rating, then Brand{Adidas,Nike,Zara} and Size{M,S,XL}.
	if stats.FeatureLen != 8 {
		t.Errorf("FeatureLen = %d, want 8", stats.FeatureLen)
	}
	if stats.Edges != 15 {
		t.Errorf("Edges = %d, want 15", stats.Edges)
	}
	if stats.BuildID == "" || stats.BuiltAt.IsZero() {
		t.Errorf("Stats() missing build ID or time: %+v", stats)
	}

	if e.Graph().Len() != 5 || e.Matrix().Rows() != 5 {
		t.Error("Graph() and Matrix() should cover every row")
	}
	if got := testutil.ToFloat64(metrics.FeatureColumns); got != 8 {
		t.Errorf("FeatureColumns gauge = %v, want 8", got)
	}
	if m := e.GetMetrics(); m.BuildCount != 1 || m.ErrorCount != 0 {
		t.Errorf("GetMetrics() = %+v, want 1 build and no errors", m)
	}
}

func TestEngine_Similar(t *testing.T) {
	e := builtEngine(t)

	tests := []struct {
		name      string
		req       Request
		wantFirst int64
		wantLen   int
		wantK     int
	}{
		{
			name:      "by index uses default k",
			req:       Request{Mode: LookupByIndex, Index: 0},
			wantFirst: 104,
			wantLen:   2,
			wantK:     2,
		},
		{
			name:      "by product id",
			req:       Request{Mode: LookupByProductID, ProductID: 102, K: 1},
			wantFirst: 105,
			wantLen:   1,
			wantK:     1,
		},
		{
			name:      "k capped at max k",
			req:       Request{Mode: LookupByProductID, ProductID: 104, K: 50},
			wantFirst: 101,
			wantLen:   3,
			wantK:     3,
		},
		{
			name:      "negative k raised to one",
			req:       Request{Index: 2, K: -4},
			wantFirst: 0,
			wantLen:   1,
			wantK:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.Similar(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Similar() error = %v", err)
			}
			if len(resp.Items) != tt.wantLen {
				t.Fatalf("len(Items) = %d, want %d", len(resp.Items), tt.wantLen)
			}
			if tt.wantFirst != 0 && resp.Items[0].Item.ProductID != tt.wantFirst {
				t.Errorf("first recommendation = %d, want %d", resp.Items[0].Item.ProductID, tt.wantFirst)
			}
			if resp.Metadata.K != tt.wantK {
				t.Errorf("Metadata.K = %d, want %d", resp.Metadata.K, tt.wantK)
			}
			if resp.Metadata.RequestID == "" {
				t.Error("Metadata.RequestID is empty")
			}
			for i := 1; i < len(resp.Items); i++ {
				if resp.Items[i].Score > resp.Items[i-1].Score {
					t.Errorf("items out of order: %v", resp.Items)
				}
			}
			for _, it := range resp.Items {
				if it.Index == resp.Metadata.Index {
					t.Errorf("item %d recommended for itself", it.Index)
				}
				if e.Items()[it.Index] != it.Item {
					t.Errorf("Item of row %d does not match catalog metadata", it.Index)
				}
			}
		})
	}
}

func TestEngine_SimilarIdenticalRows(t *testing.T) {
	e := builtEngine(t)

	resp, err := e.Similar(context.Background(), Request{Index: 0, K: 1})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if got := resp.Items[0]; got.Index != 3 || got.Score < 0.999999 {
		t.Errorf("top neighbor of row 0 = %+v, want row 3 with score 1", got)
	}
}

func TestEngine_SimilarErrors(t *testing.T) {
	e := builtEngine(t)

	t.Run("unknown product", func(t *testing.T) {
		_, err := e.Similar(context.Background(), Request{Mode: LookupByProductID, ProductID: 999})
		if !errors.Is(err, ErrItemNotFound) {
			t.Errorf("Similar() error = %v, want ErrItemNotFound", err)
		}
	})

	t.Run("index past the end is empty", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues(metrics.ResultEmpty))

		resp, err := e.Similar(context.Background(), Request{Index: 42})
		if err != nil {
			t.Fatalf("Similar() error = %v", err)
		}
		if resp.Items == nil || len(resp.Items) != 0 {
			t.Errorf("Items = %#v, want empty non-nil slice", resp.Items)
		}

		after := testutil.ToFloat64(metrics.RecommendRequests.WithLabelValues(metrics.ResultEmpty))
		if after-before != 1 {
			t.Errorf("empty lookups increased by %v, want 1", after-before)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := e.Similar(ctx, Request{Index: 0}); !errors.Is(err, context.Canceled) {
			t.Errorf("Similar() error = %v, want context.Canceled", err)
		}
	})
}

func TestEngine_BuildWithoutItems(t *testing.T) {
	e := newTestEngine(t, testConfig())
	src, _ := fashionCatalog()

	if err := e.Build(context.Background(), src, nil); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	resp, err := e.Similar(context.Background(), Request{Index: 1, K: 1})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if resp.Items[0].Index != 4 || resp.Items[0].Item != (Item{}) {
		t.Errorf("Items[0] = %+v, want row 4 with zero metadata", resp.Items[0])
	}

	if _, err := e.Similar(context.Background(), Request{Mode: LookupByProductID, ProductID: 101}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("product lookup without metadata error = %v, want ErrItemNotFound", err)
	}
}

func TestEngine_BuildErrorsKeepPreviousGraph(t *testing.T) {
	e := builtEngine(t)
	previous, _ := e.Stats()

	src, items := fashionCatalog()

	tests := []struct {
		name      string
		src       features.Source
		items     []Item
		wantErr   error
		wantStage string
	}{
		{
			name:      "item count mismatch",
			src:       src,
			items:     items[:3],
			wantErr:   ErrItemCountMismatch,
			wantStage: metrics.StageItems,
		},
		{
			name: "malformed price",
			src: &memSource{
				header:  src.header,
				records: [][]string{{"1", "Nike", "cheap", "3.0", "M"}},
			},
			wantErr:   features.ErrMalformedNumeric,
			wantStage: metrics.StageFeatures,
		},
		{
			name:      "missing column",
			src:       &memSource{header: []string{"Product ID", "Brand"}},
			wantErr:   features.ErrColumnNotFound,
			wantStage: metrics.StageFeatures,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.BuildErrors.WithLabelValues(tt.wantStage))

			err := e.Build(context.Background(), tt.src, tt.items)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}

			after := testutil.ToFloat64(metrics.BuildErrors.WithLabelValues(tt.wantStage))
			if after-before != 1 {
				t.Errorf("build errors for stage %s increased by %v, want 1", tt.wantStage, after-before)
			}

			current, ok := e.Stats()
			if !ok || current.BuildID != previous.BuildID {
				t.Errorf("failed build replaced the previous graph: %+v", current)
			}
		})
	}
}

func TestEngine_BuildLogsBuildID(t *testing.T) {
	var buf bytes.Buffer
	e, err := NewEngine(testConfig(), logging.NewTestLogger(&buf))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	src, items := fashionCatalog()
	if err := e.Build(context.Background(), src, items); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	stats, _ := e.Stats()
	out := buf.String()
	if !strings.Contains(out, `"build_id":"`+stats.BuildID+`"`) {
		t.Errorf("log output missing build_id %q: %s", stats.BuildID, out)
	}
	if !strings.Contains(out, `"component":"recommend"`) {
		t.Errorf("log output missing component field: %s", out)
	}
	if !strings.Contains(out, "similarity graph built") {
		t.Errorf("log output missing completion message: %s", out)
	}
}

func TestEngine_DuplicateProductIDs(t *testing.T) {
	e := newTestEngine(t, testConfig())
	src, items := fashionCatalog()
	items[3].ProductID = items[0].ProductID

	if err := e.Build(context.Background(), src, items); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	resp, err := e.Similar(context.Background(), Request{Mode: LookupByProductID, ProductID: 101, K: 1})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if resp.Metadata.Index != 0 {
		t.Errorf("duplicate product resolved to row %d, want first row 0", resp.Metadata.Index)
	}
}

func TestEngine_ConcurrentBuildAndLookup(t *testing.T) {
	e := builtEngine(t)
	src, items := fashionCatalog()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := e.Build(context.Background(), src, items); err != nil {
				t.Errorf("Build() error = %v", err)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := e.Similar(context.Background(), Request{Index: i % 5})
			if err != nil {
				t.Errorf("Similar() error = %v", err)
				return
			}
			if len(resp.Items) != 2 {
				t.Errorf("len(Items) = %d, want 2", len(resp.Items))
			}
		}(i)
	}
	wg.Wait()

	if got := e.GetMetrics().BuildCount; got != 5 {
		t.Errorf("BuildCount = %d, want 5", got)
	}
}

func TestEngine_LookupCache(t *testing.T) {
	e := builtEngine(t)
	ctx := context.Background()
	hits := metrics.RecommendCacheLookups.WithLabelValues(metrics.CacheHit)
	before := testutil.ToFloat64(hits)

	first, err := e.Similar(ctx, Request{Index: 1, K: 2})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if first.Metadata.Cached {
		t.Error("first lookup should not be cached")
	}

	// Mutating a response must not leak into the cache.
	first.Items[0].Score = -99

	second, err := e.Similar(ctx, Request{Mode: LookupByProductID, ProductID: 102, K: 2})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if !second.Metadata.Cached {
		t.Error("repeated lookup of the same row and k should be cached")
	}
	if second.Items[0].Score == -99 {
		t.Error("cached items share storage with an earlier response")
	}
	if got := testutil.ToFloat64(hits); got != before+1 {
		t.Errorf("cache hits = %v, want %v", got, before+1)
	}

	stats := e.GetMetrics().Cache
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("cache stats = %+v, want 1 hit, 1 miss, 1 entry", stats)
	}

	// A new build starts with an empty cache.
	src, items := fashionCatalog()
	if err := e.Build(ctx, src, items); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	third, err := e.Similar(ctx, Request{Index: 1, K: 2})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if third.Metadata.Cached {
		t.Error("lookup after rebuild should not be cached")
	}
}

func TestEngine_LookupCacheDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.CacheSize = 0
	e := newTestEngine(t, cfg)
	src, items := fashionCatalog()
	if err := e.Build(context.Background(), src, items); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		resp, err := e.Similar(context.Background(), Request{Index: 0})
		if err != nil {
			t.Fatalf("Similar() error = %v", err)
		}
		if resp.Metadata.Cached {
			t.Error("lookup cached with CacheSize 0")
		}
	}
	if stats := e.GetMetrics().Cache; stats != (cache.Stats{}) {
		t.Errorf("cache stats = %+v, want zero", stats)
	}
}

// gridCatalog returns n rows with distinct prices and a repeating brand.
func gridCatalog(n int) *memSource {
	brands := []string{"Nike", "Adidas", "Zara"}
	src := &memSource{header: []string{"Brand", "Price"}}
	for i := 0; i < n; i++ {
		src.records = append(src.records, []string{brands[i%len(brands)], strconv.Itoa(10 + i)})
	}
	return src
}

func TestEngine_KCappedAtStoredNeighbors(t *testing.T) {
	tests := []struct {
		name      string
		neighbors int
		k         int
		wantK     int
	}{
		{name: "k above neighbors", neighbors: 10, k: 20, wantK: 10},
		{name: "k within neighbors", neighbors: 25, k: 20, wantK: 20},
		{name: "default k above neighbors", neighbors: 3, k: 0, wantK: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Columns = features.Columns{Numeric: []string{"Price"}, Categorical: []string{"Brand"}}
			cfg.Neighbors = tt.neighbors
			cfg.DefaultK = 5
			cfg.Workers = 1
			e := newTestEngine(t, cfg)
			if err := e.Build(context.Background(), gridCatalog(30), nil); err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			resp, err := e.Similar(context.Background(), Request{Index: 0, K: tt.k})
			if err != nil {
				t.Fatalf("Similar() error = %v", err)
			}
			if resp.Metadata.K != tt.wantK {
				t.Errorf("Metadata.K = %d, want %d", resp.Metadata.K, tt.wantK)
			}
			if len(resp.Items) != resp.Metadata.K {
				t.Errorf("len(Items) = %d, want Metadata.K = %d", len(resp.Items), resp.Metadata.K)
			}
		})
	}
}

func TestEngine_SimilarLogsContextIDs(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	e, err := NewEngine(testConfig(), logging.NewTestLogger(&buf))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	src, items := fashionCatalog()
	ctx := logging.ContextWithCorrelationID(context.Background(), "run-0001")
	if err := e.Build(ctx, src, items); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	buf.Reset()
	resp, err := e.Similar(ctx, Request{Index: 0, RequestID: "req-42"})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`"request_id":"req-42"`,
		`"correlation_id":"run-0001"`,
		`"component":"recommend"`,
		"lookup complete",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
	if resp.Metadata.RequestID != "req-42" {
		t.Errorf("Metadata.RequestID = %q, want req-42", resp.Metadata.RequestID)
	}
}

// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// isolateEnv unsets every mapped variable and points the default search
// paths at an empty directory for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()

	keys := []string{ConfigPathEnvVar}
	for key := range envMappings {
		keys = append(keys, strings.ToUpper(key))
	}
	for _, key := range keys {
		if old, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key) //nolint:errcheck // restored in cleanup
			t.Cleanup(func() { os.Setenv(key, old) }) //nolint:errcheck // best-effort restore
		}
	}

	oldPaths := DefaultConfigPaths
	DefaultConfigPaths = []string{filepath.Join(t.TempDir(), "itemgraph.yaml")}
	t.Cleanup(func() { DefaultConfigPaths = oldPaths })
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "itemgraph.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultConfig()
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	isolateEnv(t)

	path := writeYAML(t, `
catalog:
  path: /data/products.tsv
  delimiter: "\t"
  items:
    name: Title
recommend:
  columns:
    numeric: [Cost]
    categorical: [Maker, Fit, Color]
  neighbors: 7
  default_k: 3
  max_k: 7
  workers: 2
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog.Path != "/data/products.tsv" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if cfg.Catalog.Delimiter != "\t" {
		t.Errorf("Catalog.Delimiter = %q, want tab", cfg.Catalog.Delimiter)
	}
	if cfg.Catalog.Items.Name != "Title" {
		t.Errorf("Catalog.Items.Name = %q, want Title", cfg.Catalog.Items.Name)
	}
	if cfg.Catalog.Items.Brand != "Brand" {
		t.Errorf("Catalog.Items.Brand = %q, default should survive a partial file", cfg.Catalog.Items.Brand)
	}
	if !reflect.DeepEqual(cfg.Recommend.Columns.Numeric, []string{"Cost"}) {
		t.Errorf("numeric columns = %v", cfg.Recommend.Columns.Numeric)
	}
	if !reflect.DeepEqual(cfg.Recommend.Columns.Categorical, []string{"Maker", "Fit", "Color"}) {
		t.Errorf("categorical columns = %v", cfg.Recommend.Columns.Categorical)
	}
	if cfg.Recommend.Neighbors != 7 || cfg.Recommend.DefaultK != 3 || cfg.Recommend.MaxK != 7 || cfg.Recommend.Workers != 2 {
		t.Errorf("recommend section = %+v", cfg.Recommend)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging section = %+v", cfg.Logging)
	}
}

func TestLoad_ConfigPathEnvVar(t *testing.T) {
	isolateEnv(t)

	path := writeYAML(t, "recommend:\n  neighbors: 4\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.Neighbors != 4 {
		t.Errorf("Neighbors = %d, want 4 from %s", cfg.Recommend.Neighbors, ConfigPathEnvVar)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateEnv(t)

	path := writeYAML(t, "recommend:\n  neighbors: 7\nlogging:\n  level: warn\n")
	t.Setenv("ITEMGRAPH_NEIGHBORS", "3")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("ITEMGRAPH_CATALOG", "other.csv")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.Neighbors != 3 {
		t.Errorf("Neighbors = %d, want env value 3", cfg.Recommend.Neighbors)
	}
	if cfg.Logging.Level != "error" || !cfg.Logging.Caller {
		t.Errorf("logging = %+v, want env values", cfg.Logging)
	}
	if cfg.Catalog.Path != "other.csv" {
		t.Errorf("Catalog.Path = %q, want other.csv", cfg.Catalog.Path)
	}
}

func TestLoad_CommaSeparatedColumns(t *testing.T) {
	isolateEnv(t)

	t.Setenv("ITEMGRAPH_NUMERIC_COLUMNS", " Price, Rating ,,")
	t.Setenv("ITEMGRAPH_CATEGORICAL_COLUMNS", "Brand")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Recommend.Columns.Numeric, []string{"Price", "Rating"}) {
		t.Errorf("numeric columns = %q", cfg.Recommend.Columns.Numeric)
	}
	if !reflect.DeepEqual(cfg.Recommend.Columns.Categorical, []string{"Brand"}) {
		t.Errorf("categorical columns = %q", cfg.Recommend.Columns.Categorical)
	}
}

func TestLoad_EmptyEnvIgnored(t *testing.T) {
	isolateEnv(t)

	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default", cfg.Logging.Level)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		yaml    string
		wantMsg string
	}{
		{
			name:    "bad log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantMsg: "Format",
		},
		{
			name:    "multi-character delimiter",
			env:     map[string]string{"ITEMGRAPH_DELIMITER": "::"},
			wantMsg: "Delimiter",
		},
		{
			name:    "column in both lists",
			env:     map[string]string{"ITEMGRAPH_CATEGORICAL_COLUMNS": "Price"},
			wantMsg: "more than once",
		},
		{
			name:    "max k below default k",
			yaml:    "recommend:\n  default_k: 10\n  max_k: 5\n",
			wantMsg: "MaxK",
		},
		{
			name:    "not a number",
			env:     map[string]string{"ITEMGRAPH_NEIGHBORS": "many"},
			wantMsg: "unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeYAML(t, tt.yaml)
			}

			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolateEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"ITEMGRAPH_NEIGHBORS", "5", "recommend.neighbors"},
		{"ITEMGRAPH_NUMERIC_COLUMNS", "Price", "recommend.columns.numeric"},
		{"ITEMGRAPH_ITEM_PRODUCT_ID", "SKU", "catalog.items.product_id"},
		{"LOG_LEVEL", "debug", "logging.level"},
		{"log_format", "json", "logging.format"},
		{"LOG_LEVEL", "", ""},
		{"HOME", "/root", ""},
		{"PATH", "/usr/bin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, _ := envTransformFunc(tt.key, tt.value)
			if got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tomtom215/itemgraph/internal/catalog"
	"github.com/tomtom215/itemgraph/internal/config"
	"github.com/tomtom215/itemgraph/internal/logging"
	"github.com/tomtom215/itemgraph/internal/recommend"
)

// promptText asks for a product ID when neither --product nor --row is set.
const promptText = "Provide the Product ID for the product you would like recommendations for:"

type recommendOptions struct {
	root        *rootOptions
	catalog     string
	product     int64
	row         int
	k           int
	numeric     []string
	categorical []string
	neighbors   int
	workers     int
	stats       bool
	metricsFile string
}

func newRecommendCmd(root *rootOptions) *cobra.Command {
	opts := &recommendOptions{root: root}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print the products most similar to one product",
		Long: `Load the catalog, build the similarity graph and print the nearest
neighbors of one product.

Examples:
  itemgraph recommend --catalog fashion_products.csv
  itemgraph recommend --product 42 -k 10
  itemgraph recommend --row 0 --numeric Price --categorical Brand,Color
  itemgraph recommend --product 42 --stats --metrics-file /var/lib/node_exporter/itemgraph.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.catalog, "catalog", "", "Catalog file (overrides config)")
	f.Int64Var(&opts.product, "product", 0, "Product ID to look up")
	f.IntVar(&opts.row, "row", 0, "Catalog row (0-based) to look up")
	f.IntVarP(&opts.k, "k", "k", 0, "Number of recommendations (default from config)")
	f.StringSliceVar(&opts.numeric, "numeric", nil, "Numeric feature columns (overrides config)")
	f.StringSliceVar(&opts.categorical, "categorical", nil, "Categorical feature columns (overrides config)")
	f.IntVar(&opts.neighbors, "neighbors", 0, "Neighbors stored per product (overrides config)")
	f.IntVar(&opts.workers, "workers", 0, "Build parallelism (overrides config)")
	f.BoolVar(&opts.stats, "stats", false, "Print build and lookup statistics after the recommendations")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file on exit")
	cmd.MarkFlagsMutuallyExclusive("product", "row")

	return cmd
}

// applyFlags overlays explicitly set flags onto the loaded configuration.
// An explicit -k larger than the stored neighbor count raises it, unless
// --neighbors was also given.
func (o *recommendOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("k") && !f.Changed("neighbors") && o.k > cfg.Recommend.Neighbors {
		cfg.Recommend.Neighbors = min(o.k, cfg.Recommend.MaxK)
	}
	if f.Changed("catalog") {
		cfg.Catalog.Path = o.catalog
	}
	if f.Changed("numeric") {
		cfg.Recommend.Columns.Numeric = o.numeric
	}
	if f.Changed("categorical") {
		cfg.Recommend.Columns.Categorical = o.categorical
	}
	if f.Changed("neighbors") {
		cfg.Recommend.Neighbors = o.neighbors
	}
	if f.Changed("workers") {
		cfg.Recommend.Workers = o.workers
	}
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions) (err error) {
	if opts.metricsFile != "" {
		defer func() {
			werr := prometheus.WriteToTextfile(opts.metricsFile, prometheus.DefaultGatherer)
			if werr != nil && err == nil {
				err = fmt.Errorf("write metrics: %w", werr)
			}
		}()
	}

	cfg, err := config.Load(opts.root.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(cfg.Logging.Logger())
	log := logging.WithComponent("cli")
	ctx := logging.ContextWithNewCorrelationID(cmd.Context())
	log.Debug().
		Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
		Str("catalog", cfg.Catalog.Path).
		Int("neighbors", cfg.Recommend.Neighbors).
		Msg("configuration loaded")

	req := recommend.Request{K: opts.k}
	switch {
	case cmd.Flags().Changed("product"):
		req.Mode, req.ProductID = recommend.LookupByProductID, opts.product
	case cmd.Flags().Changed("row"):
		req.Mode, req.Index = recommend.LookupByIndex, opts.row
	default:
		id, err := promptProductID(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("read product id: %w", err)
		}
		req.Mode, req.ProductID = recommend.LookupByProductID, id
	}

	table, err := catalog.Load(ctx, cfg.Catalog.Path, cfg.Catalog.LoadOptions())
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	items, err := table.Items(cfg.Catalog.Items)
	if err != nil {
		return fmt.Errorf("read items: %w", err)
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, logging.Logger())
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	if err := engine.Build(ctx, table, items); err != nil {
		return err
	}

	resp, err := engine.Similar(ctx, req)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := printRecommendations(out, items, resp); err != nil {
		return err
	}
	if opts.stats {
		stats, _ := engine.Stats()
		return printStats(out, stats, engine.GetMetrics())
	}
	return nil
}

// promptProductID prints the prompt and reads one product ID line.
func promptProductID(in io.Reader, out io.Writer) (int64, error) {
	fmt.Fprintln(out, promptText) //nolint:errcheck // terminal output

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, errors.New("no product id given")
	}
	return strconv.ParseInt(line, 10, 64)
}

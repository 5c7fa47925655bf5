// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "itemgraph",
		Short: "itemgraph - similar-item recommendations for product catalogs",
		Long: `itemgraph builds a k-nearest-neighbor graph over a product catalog and
answers "what is similar to this product" from it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if noColorRequested(cmd) {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newRecommendCmd(opts))
	return cmd
}

// noColorRequested reports whether --no-color was parsed. Flags before a
// parse error are already set, so this also works after a failed Execute.
func noColorRequested(cmd *cobra.Command) bool {
	noColor, err := cmd.Root().PersistentFlags().GetBool("no-color")
	return err == nil && noColor
}

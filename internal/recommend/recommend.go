// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package recommend

import (
	"github.com/tomtom215/itemgraph/internal/recommend/graph"
)

// Recommend returns up to k neighbors of node, most similar first.
//
// It never fails: a node with no entry in g, a nil graph, or k <= 0 all
// yield an empty, non-nil slice. When node has fewer than k neighbors all
// of them are returned.
func Recommend(g *graph.Graph, node, k int) []int {
	top := topNeighbors(g, node, k)
	out := make([]int, len(top))
	for i, n := range top {
		out[i] = n.Index
	}
	return out
}

// topNeighbors is Recommend with scores.
func topNeighbors(g *graph.Graph, node, k int) []graph.Neighbor {
	if k <= 0 {
		return []graph.Neighbor{}
	}
	list, ok := g.Scored(node)
	if !ok {
		return []graph.Neighbor{}
	}
	if len(list) > k {
		list = list[:k]
	}
	return list
}

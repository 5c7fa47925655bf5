// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

// Package graph holds the item similarity graph: for every catalog row, an
// ordered list of its most similar other rows.
//
// A Graph is immutable after construction and safe for concurrent reads.
// Lookups return copies so callers cannot alter the adjacency.
package graph

import "slices"

// Neighbor is one entry of an adjacency list.
type Neighbor struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Graph maps each node (row index) to its neighbors, most similar first.
type Graph struct {
	adjacency [][]Neighbor
}

// New builds a graph from per-node neighbor lists. The graph takes ownership
// of adjacency; callers must not modify it afterwards.
func New(adjacency [][]Neighbor) *Graph {
	return &Graph{adjacency: adjacency}
}

// FromIndices builds a graph from bare neighbor indices. Scores are zero.
func FromIndices(adjacency [][]int) *Graph {
	lists := make([][]Neighbor, len(adjacency))
	for node, indices := range adjacency {
		list := make([]Neighbor, len(indices))
		for i, idx := range indices {
			list[i] = Neighbor{Index: idx}
		}
		lists[node] = list
	}
	return New(lists)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.adjacency)
}

// Neighbors returns the neighbor indices of node in rank order. The second
// result is false when node has no entry in the graph.
func (g *Graph) Neighbors(node int) ([]int, bool) {
	if node < 0 || node >= g.Len() {
		return nil, false
	}
	list := g.adjacency[node]
	out := make([]int, len(list))
	for i, n := range list {
		out[i] = n.Index
	}
	return out, true
}

// Scored is like Neighbors but includes the similarity scores.
func (g *Graph) Scored(node int) ([]Neighbor, bool) {
	if node < 0 || node >= g.Len() {
		return nil, false
	}
	out := slices.Clone(g.adjacency[node])
	if out == nil {
		out = []Neighbor{}
	}
	return out, true
}

// Degree returns the length of node's neighbor list, or 0 when node has no
// entry.
func (g *Graph) Degree(node int) int {
	if node < 0 || node >= g.Len() {
		return 0
	}
	return len(g.adjacency[node])
}

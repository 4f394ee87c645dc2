// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package network builds the yearly firm-firm weighted co-investment graphs
// (C4). Adjacency is compressed-sparse-row style, indexed by dense firm ids,
// per SPEC_FULL.md §10's "cyclic graphs" design note -- never node objects
// with back-references.
package network

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vcresearch/panelgen/internal/store"
)

// Graph is an immutable sparse weighted undirected graph for one year.
// Adjacency is sorted for deterministic iteration, per spec §4.4.
type Graph struct {
	Year  int
	Nodes []store.FirmID // sorted ascending

	// adj[u] is the sorted list of (neighbor, weight) pairs for node u.
	adj map[store.FirmID][]Edge
}

// Edge is one weighted neighbor entry.
type Edge struct {
	To     store.FirmID
	Weight int
}

func newGraph(year int) *Graph {
	return &Graph{Year: year, adj: make(map[store.FirmID][]Edge)}
}

// Neighbors returns node u's sorted adjacency list, or nil if u is absent.
func (g *Graph) Neighbors(u store.FirmID) []Edge {
	return g.adj[u]
}

// Degree returns the unweighted neighbor count.
func (g *Graph) Degree(u store.FirmID) int {
	return len(g.adj[u])
}

// Has reports whether u is a node of the graph.
func (g *Graph) Has(u store.FirmID) bool {
	_, ok := g.adj[u]
	return ok
}

// WeightTo returns the edge weight between u and v (0, false if no edge).
// adj[u] is sorted by neighbor id, so this is a binary search.
func (g *Graph) WeightTo(u, v store.FirmID) (int, bool) {
	edges := g.adj[u]
	lo, hi := 0, len(edges)
	for lo < hi {
		mid := (lo + hi) / 2
		if edges[mid].To < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(edges) && edges[lo].To == v {
		return edges[lo].Weight, true
	}
	return 0, false
}

// TotalWeight returns the sum of u's edge weights (== degree when unweighted).
func (g *Graph) TotalWeight(u store.FirmID) int {
	total := 0
	for _, e := range g.adj[u] {
		total += e.Weight
	}
	return total
}

// NumNodes and NumEdges match networkx's number_of_nodes/number_of_edges.
func (g *Graph) NumNodes() int { return len(g.Nodes) }

func (g *Graph) NumEdges() int {
	n := 0
	for _, edges := range g.adj {
		n += len(edges)
	}
	return n / 2
}

// Config parameterizes graph construction, per spec §6.
type Config struct {
	WindowYears  int // W, default 5
	EdgeCutpoint int // kappa, default 1
}

// Build constructs G_t for target year t: select rounds with year in
// [t-W, t-1], form the bipartite firm<->deal relation, project to the
// one-mode firm-firm graph (edge weight = shared deal count), drop edges
// below the cutpoint, then drop isolated nodes. Never produces self-loops.
//
// An empty window yields an empty graph, not an error, per spec §4.4.
func Build(rounds []store.Round, t int, cfg Config) *Graph {
	loYear, hiYear := t-cfg.WindowYears, t-1

	// bipartite relation: deal -> set of participating firms
	dealFirms := make(map[store.DealKey]mapset.Set[store.FirmID])
	for _, r := range rounds {
		if r.Year < loYear || r.Year > hiYear {
			continue
		}
		d := store.DealKey{CompanyID: r.CompanyID, Year: r.Year}
		s, ok := dealFirms[d]
		if !ok {
			s = mapset.NewThreadUnsafeSet[store.FirmID]()
			dealFirms[d] = s
		}
		s.Add(r.FirmID)
	}

	weight := make(map[[2]store.FirmID]int)
	for _, firms := range dealFirms {
		if firms.Cardinality() < 2 {
			continue // a deal with a single participant contributes no edges
		}
		members := firms.ToSlice()
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				key := [2]store.FirmID{members[i], members[j]}
				weight[key]++
			}
		}
	}

	g := newGraph(t)
	nodeSet := mapset.NewThreadUnsafeSet[store.FirmID]()
	for pair, w := range weight {
		if w < cfg.EdgeCutpoint {
			continue
		}
		u, v := pair[0], pair[1]
		g.adj[u] = append(g.adj[u], Edge{To: v, Weight: w})
		g.adj[v] = append(g.adj[v], Edge{To: u, Weight: w})
		nodeSet.Add(u)
		nodeSet.Add(v)
	}

	for node, edges := range g.adj {
		sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
		g.adj[node] = edges
	}

	g.Nodes = nodeSet.ToSlice()
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i] < g.Nodes[j] })

	return g
}

// BuildAll constructs G_t for every year in years, dispatching one task per
// year to the shared worker pool (SPEC_FULL.md §5's "independent units of
// work ... dispatched to a work-stealing pool").
func BuildAll(rounds []store.Round, years []int, cfg Config, workers int) map[int]*Graph {
	out := buildAllPooled(rounds, years, cfg, workers)
	return out
}

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

// Package centrality computes degree, betweenness, Bonacich power, Burt
// constraint and ego density for each node of a yearly firm-firm graph (C5).
package centrality

import (
	"math"
	"math/rand"

	"github.com/vcresearch/panelgen/internal/network"
	"github.com/vcresearch/panelgen/internal/store"
)

// Config controls which measures are computed and how, mirroring the
// configuration table in SPEC_FULL.md §6.
type Config struct {
	UseWeightedDegree      bool
	UseWeightedBetweenness bool
	UseWeightedPower       bool
	UseWeightedConstraint  bool

	NormalizeDegree      bool
	NormalizeBetweenness bool
	NormalizePower       bool
	NormalizeConstraint  bool

	ConstraintFillNA    bool
	ConstraintCapAtOne  bool

	UseApproximateBetweenness bool
	BetweennessK              int // sample size threshold / count, default 500

	PowerBetaMultipliers []float64 // default [0, 0.75, 0.99]

	RandomSeed int64
}

// DefaultConfig matches spec §6's defaults.
func DefaultConfig() Config {
	return Config{
		NormalizeBetweenness:      true,
		NormalizePower:            true,
		ConstraintFillNA:          true,
		ConstraintCapAtOne:        true,
		UseApproximateBetweenness: true,
		BetweennessK:              500,
		PowerBetaMultipliers:      []float64{0, 0.75, 0.99},
		RandomSeed:                123,
	}
}

// Row is one firm's centrality record for one year. A firm absent from G_t
// simply has no Row, per spec §4.5's missingness contract.
type Row struct {
	FirmID     store.FirmID
	Year       int
	Degree     float64
	Betweenness float64
	Constraint  float64
	EgoDensity  float64
	Power       map[float64]float64 // keyed by beta multiplier (0, 0.75, 0.99, ...)
	PowerMax    float64             // 1/lambda_max for this graph
}

// ComputeAll computes every configured measure for every node in g.
func ComputeAll(g *network.Graph, cfg Config) []Row {
	if g.NumNodes() == 0 {
		return nil
	}

	degree := computeDegree(g, cfg)
	betweenness := computeBetweenness(g, cfg)
	constraint := computeConstraint(g, cfg)
	egoDensity := computeEgoDensity(g)
	power, lambdaMax := computePower(g, cfg)

	powerMax := 0.0
	if lambdaMax > 0 {
		powerMax = 1 / lambdaMax
	}

	rows := make([]Row, 0, len(g.Nodes))
	for _, u := range g.Nodes {
		row := Row{
			FirmID:      u,
			Year:        g.Year,
			Degree:      degree[u],
			Betweenness: betweenness[u],
			Constraint:  constraint[u],
			EgoDensity:  egoDensity[u],
			PowerMax:    powerMax,
			Power:       make(map[float64]float64, len(cfg.PowerBetaMultipliers)),
		}
		for _, mult := range cfg.PowerBetaMultipliers {
			row.Power[mult] = power[mult][u]
		}
		rows = append(rows, row)
	}
	return rows
}

func computeDegree(g *network.Graph, cfg Config) map[store.FirmID]float64 {
	out := make(map[store.FirmID]float64, len(g.Nodes))
	n := g.NumNodes()
	for _, u := range g.Nodes {
		var d float64
		if cfg.UseWeightedDegree {
			d = float64(g.TotalWeight(u))
		} else {
			d = float64(g.Degree(u))
		}
		if cfg.NormalizeDegree && n > 1 {
			d /= float64(n - 1)
		}
		out[u] = d
	}
	return out
}

// computeEgoDensity implements spec §4.5: for node u with |N(u)|>=2, edges
// present among N(u) divided by |N(u)|*(|N(u)|-1)/2; else 0.
func computeEgoDensity(g *network.Graph) map[store.FirmID]float64 {
	out := make(map[store.FirmID]float64, len(g.Nodes))
	for _, u := range g.Nodes {
		neighbors := g.Neighbors(u)
		n := len(neighbors)
		if n <= 1 {
			out[u] = 0
			continue
		}
		edges := 0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if _, ok := g.WeightTo(neighbors[i].To, neighbors[j].To); ok {
					edges++
				}
			}
		}
		possible := float64(n*(n-1)) / 2
		out[u] = float64(edges) / possible
	}
	return out
}

// computeConstraint implements Burt's (1992) formulation: for neighbor j of
// i, p_ij = w_ij/totalWeight(i); c_ij = (p_ij + sum_{q != i,j} p_iq*p_qj)^2;
// C_i = sum_j c_ij. Isolates (degree 0, which cannot occur for a node
// retained in G_t) fill to 0 when ConstraintFillNA, capped at 1.0 when
// ConstraintCapAtOne.
func computeConstraint(g *network.Graph, cfg Config) map[store.FirmID]float64 {
	out := make(map[store.FirmID]float64, len(g.Nodes))

	weightOf := func(u, v store.FirmID) float64 {
		if cfg.UseWeightedConstraint {
			w, _ := g.WeightTo(u, v)
			return float64(w)
		}
		if _, ok := g.WeightTo(u, v); ok {
			return 1
		}
		return 0
	}
	totalOf := func(u store.FirmID) float64 {
		if cfg.UseWeightedConstraint {
			return float64(g.TotalWeight(u))
		}
		return float64(g.Degree(u))
	}

	for _, i := range g.Nodes {
		neighbors := g.Neighbors(i)
		totalI := totalOf(i)
		if totalI == 0 {
			if cfg.ConstraintFillNA {
				out[i] = 0
			}
			continue
		}

		var sum float64
		for _, je := range neighbors {
			j := je.To
			pij := weightOf(i, j) / totalI

			var indirect float64
			for _, qe := range neighbors {
				q := qe.To
				if q == j {
					continue
				}
				piq := weightOf(i, q) / totalI
				totalQ := totalOf(q)
				if totalQ == 0 {
					continue
				}
				pqj := weightOf(q, j) / totalQ
				indirect += piq * pqj
			}
			cij := pij + indirect
			sum += cij * cij
		}

		if cfg.ConstraintCapAtOne && sum > 1.0 {
			sum = 1.0
		}
		out[i] = sum
	}
	return out
}

// computeBetweenness runs Brandes' algorithm exactly when |V| <= K_threshold,
// otherwise samples BetweennessK source nodes and rescales by n/k, per
// spec §4.5.
func computeBetweenness(g *network.Graph, cfg Config) map[store.FirmID]float64 {
	n := g.NumNodes()
	out := make(map[store.FirmID]float64, n)
	for _, u := range g.Nodes {
		out[u] = 0
	}
	if n < 3 {
		return out
	}

	sources := g.Nodes
	scale := 1.0
	if cfg.UseApproximateBetweenness && n > cfg.BetweennessK {
		rng := rand.New(rand.NewSource(cfg.RandomSeed))
		idx := rng.Perm(n)[:cfg.BetweennessK]
		sources = make([]store.FirmID, len(idx))
		for i, j := range idx {
			sources[i] = g.Nodes[j]
		}
		scale = float64(n) / float64(cfg.BetweennessK)
	}

	for _, s := range sources {
		brandesSingleSource(g, s, cfg.UseWeightedBetweenness, out)
	}

	for u := range out {
		out[u] *= scale / 2 // undirected: each pair counted from both endpoints
	}

	if cfg.NormalizeBetweenness && n > 2 {
		norm := 2.0 / float64((n-1)*(n-2))
		for u := range out {
			out[u] *= norm
		}
	}

	return out
}

// brandesSingleSource accumulates the single-source contribution of s into
// delta (Brandes 2001), BFS-based (unweighted shortest paths).
func brandesSingleSource(g *network.Graph, s store.FirmID, weighted bool, delta map[store.FirmID]float64) {
	_ = weighted // default unweighted betweenness per spec §6; weighted variant not exercised

	sigma := make(map[store.FirmID]float64)
	dist := make(map[store.FirmID]int)
	predecessors := make(map[store.FirmID][]store.FirmID)

	for _, v := range g.Nodes {
		dist[v] = -1
	}
	sigma[s] = 1
	dist[s] = 0

	queue := []store.FirmID{s}
	var order []store.FirmID
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)
		for _, e := range g.Neighbors(v) {
			w := e.To
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				predecessors[w] = append(predecessors[w], v)
			}
		}
	}

	accum := make(map[store.FirmID]float64)
	for i := len(order) - 1; i >= 0; i-- {
		w := order[i]
		for _, v := range predecessors[w] {
			if sigma[w] == 0 {
				continue
			}
			contrib := (sigma[v] / sigma[w]) * (1 + accum[w])
			accum[v] += contrib
		}
		if w != s {
			delta[w] += accum[w]
		}
	}
}

// computePower solves c = (I - betaA)^-1 A.1 for each configured beta
// multiplier via Neumann-series fixed-point iteration (converges because
// |beta*lambdaMax| < 1 by construction, clamping to 0.99/lambdaMax
// otherwise), per spec §4.5. Returns lambdaMax (A's spectral radius) too.
func computePower(g *network.Graph, cfg Config) (map[float64]map[store.FirmID]float64, float64) {
	results := make(map[float64]map[store.FirmID]float64, len(cfg.PowerBetaMultipliers))
	if g.NumNodes() == 0 {
		return results, 0
	}

	weightOf := func(u, v store.FirmID) float64 {
		if cfg.UseWeightedPower {
			w, _ := g.WeightTo(u, v)
			return float64(w)
		}
		if _, ok := g.WeightTo(u, v); ok {
			return 1
		}
		return 0
	}

	matVec := func(x map[store.FirmID]float64) map[store.FirmID]float64 {
		y := make(map[store.FirmID]float64, len(g.Nodes))
		for _, u := range g.Nodes {
			var sum float64
			for _, e := range g.Neighbors(u) {
				sum += weightOf(u, e.To) * x[e.To]
			}
			y[u] = sum
		}
		return y
	}

	lambdaMax := estimateSpectralRadius(g.Nodes, matVec)

	ones := make(map[store.FirmID]float64, len(g.Nodes))
	for _, u := range g.Nodes {
		ones[u] = 1
	}
	aOnes := matVec(ones)

	for _, mult := range cfg.PowerBetaMultipliers {
		beta := 0.0
		if lambdaMax > 0 {
			beta = mult / lambdaMax
			if math.Abs(beta*lambdaMax) >= 1 {
				beta = 0.99 / lambdaMax
			}
		}

		c := make(map[store.FirmID]float64, len(g.Nodes))
		for _, u := range g.Nodes {
			c[u] = aOnes[u]
		}
		for iter := 0; iter < 200; iter++ {
			ac := matVec(c)
			next := make(map[store.FirmID]float64, len(g.Nodes))
			maxDelta := 0.0
			for _, u := range g.Nodes {
				v := aOnes[u] + beta*ac[u]
				if d := math.Abs(v - c[u]); d > maxDelta {
					maxDelta = d
				}
				next[u] = v
			}
			c = next
			if maxDelta < 1e-10 {
				break
			}
		}

		if cfg.NormalizePower {
			maxC := 0.0
			for _, v := range c {
				if v > maxC {
					maxC = v
				}
			}
			if maxC > 0 {
				for u := range c {
					c[u] /= maxC
				}
			}
		}

		results[mult] = c
	}

	return results, lambdaMax
}

// estimateSpectralRadius uses power iteration against the abstract matVec
// operator to estimate the adjacency matrix's largest-magnitude eigenvalue.
func estimateSpectralRadius(nodes []store.FirmID, matVec func(map[store.FirmID]float64) map[store.FirmID]float64) float64 {
	x := make(map[store.FirmID]float64, len(nodes))
	for i, u := range nodes {
		x[u] = 1 + float64(i%7)*0.01 // avoid symmetric starting vector degeneracies
	}

	lambda := 0.0
	for iter := 0; iter < 200; iter++ {
		y := matVec(x)
		norm := 0.0
		for _, v := range y {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return 0
		}
		for u := range y {
			y[u] /= norm
		}

		newLambda := 0.0
		ay := matVec(y)
		for _, u := range nodes {
			newLambda += y[u] * ay[u]
		}

		if math.Abs(newLambda-lambda) < 1e-12 {
			x = y
			lambda = newLambda
			break
		}
		lambda = newLambda
		x = y
	}
	return math.Abs(lambda)
}

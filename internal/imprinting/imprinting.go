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

// Package imprinting identifies each firm's initial-year and initial
// co-investment partners, and summarizes the distribution of those
// partners' centralities and attributes over the imprinting window (C10).
package imprinting

import (
	"github.com/vcresearch/panelgen/internal/centrality"
	"github.com/vcresearch/panelgen/internal/network"
	"github.com/vcresearch/panelgen/internal/store"
)

// InitialYear returns t1(f): the minimum year f appears in any round.
func InitialYear(rounds []store.Round) map[store.FirmID]int {
	out := make(map[store.FirmID]int)
	for _, r := range rounds {
		if y, ok := out[r.FirmID]; !ok || r.Year < y {
			out[r.FirmID] = r.Year
		}
	}
	return out
}

// PartnerAppearance is one (partner, year) co-appearance tuple, per spec
// §4.10 item 1: "each partner contributes one tuple per year of
// co-appearance."
type PartnerAppearance struct {
	Partner store.FirmID
	Year    int
}

// InitialPartners computes, for focal firm f with initial year t1 and
// imprinting period P, the union over y in [t1, t1+P-1] of f's neighbors in
// G_y, with one tuple emitted per co-appearance year.
func InitialPartners(focal store.FirmID, t1 int, period int, graphs map[int]*network.Graph) []PartnerAppearance {
	var out []PartnerAppearance
	for y := t1; y < t1+period; y++ {
		g, ok := graphs[y]
		if !ok || !g.Has(focal) {
			continue
		}
		for _, e := range g.Neighbors(focal) {
			out = append(out, PartnerAppearance{Partner: e.To, Year: y})
		}
	}
	return out
}

// PartnerStatus is the mean/max/min summary of initial partners' centrality
// for one measure, per spec §4.10 item 2.
type PartnerStatus struct {
	Mean, Max, Min float64
	PartnerCount   int
	Valid          bool // false -> all partner stats null, partner count 0 (no partner in window)
}

// CentralityLookup resolves a partner's centrality value for a specific
// measure and year, or ok=false if the partner is absent from G_y (which the
// mean must skip, per SPEC_FULL.md design note 2).
type CentralityLookup func(partner store.FirmID, year int) (value float64, ok bool)

// CentralityFromRows builds a CentralityLookup closure backed by the engine's
// per-year rows, used by callers assembling the panel.
func CentralityFromRows(rowsByYear map[int][]centrality.Row, pick func(centrality.Row) float64) CentralityLookup {
	index := make(map[int]map[store.FirmID]float64)
	for year, rows := range rowsByYear {
		m := make(map[store.FirmID]float64, len(rows))
		for _, r := range rows {
			m[r.FirmID] = pick(r)
		}
		index[year] = m
	}
	return func(partner store.FirmID, year int) (float64, bool) {
		m, ok := index[year]
		if !ok {
			return 0, false
		}
		v, ok := m[partner]
		return v, ok
	}
}

// ComputePartnerStatus implements spec §4.10 item 2: for each partner p,
// p_m = mean over {y in window and p present} of centrality_m(p, y); then
// mean/max/min of {p_m} across all partners of f.
func ComputePartnerStatus(appearances []PartnerAppearance, lookup CentralityLookup) PartnerStatus {
	byPartner := make(map[store.FirmID][]float64)
	for _, a := range appearances {
		if v, ok := lookup(a.Partner, a.Year); ok {
			byPartner[a.Partner] = append(byPartner[a.Partner], v)
		}
	}

	if len(byPartner) == 0 {
		return PartnerStatus{Valid: false}
	}

	partnerMeans := make([]float64, 0, len(byPartner))
	for _, vals := range byPartner {
		var sum float64
		for _, v := range vals {
			sum += v
		}
		partnerMeans = append(partnerMeans, sum/float64(len(vals)))
	}

	mean, min, max := 0.0, partnerMeans[0], partnerMeans[0]
	for _, v := range partnerMeans {
		mean += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean /= float64(len(partnerMeans))

	return PartnerStatus{Mean: mean, Max: max, Min: min, PartnerCount: len(byPartner), Valid: true}
}

// InitialPeriodAgg resolves spec §4.10 item 3: mean for ratios/indices, sum
// for counts/amounts, over the imprinting window; firm age is the point
// value at t1 (SPEC_FULL.md design note 4), not an aggregate.
type InitialPeriodAgg int

const (
	AggMean InitialPeriodAgg = iota
	AggSum
	AggPointAtT1
)

// AggregateFirmMetric folds a per-firm-year metric over the imprinting
// window [t1, t1+period-1] according to the requested aggregation mode.
// valueAt returns (value, present) for (firm, year); PointAtT1 simply reads
// valueAt(firm, t1).
func AggregateFirmMetric(firm store.FirmID, t1, period int, agg InitialPeriodAgg, valueAt func(store.FirmID, int) (float64, bool)) (float64, bool) {
	if agg == AggPointAtT1 {
		return valueAt(firm, t1)
	}

	var sum float64
	var n int
	for y := t1; y < t1+period; y++ {
		if v, ok := valueAt(firm, y); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	if agg == AggSum {
		return sum, true
	}
	return sum / float64(n), true
}

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

// Package market computes the industry-level Market Heat and New-Venture
// Demand series (C9).
package market

import (
	"math"

	"github.com/vcresearch/panelgen/internal/store"
)

// Series holds the per-year industry-level outputs. NaN is represented as
// math.NaN() and must be written through to the panel as a null cell.
type Series struct {
	MarketHeat        map[int]float64
	NewVentureDemand  map[int]float64
}

// FundsRaisedByYear counts distinct fund names first raised in each year
// (spec §4.9's funds_raised(y)), with missing years between min and max
// imputed as zero before the rolling sum.
func FundsRaisedByYear(funds []store.Fund) map[int]int {
	firstRaisedYear := make(map[string]int)
	for _, f := range funds {
		if y, ok := firstRaisedYear[f.FundName]; !ok || f.FundYear < y {
			firstRaisedYear[f.FundName] = f.FundYear
		}
	}

	counts := make(map[int]int)
	minYear, maxYear := 0, 0
	first := true
	for _, y := range firstRaisedYear {
		counts[y]++
		if first {
			minYear, maxYear = y, y
			first = false
		}
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	for y := minYear; y <= maxYear; y++ {
		if _, ok := counts[y]; !ok {
			counts[y] = 0
		}
	}
	return counts
}

// MarketHeat implements spec §4.9: ln((funds_raised(t)*3) / sum_{k=t-3}^{t-1}
// funds_raised(k)); NaN if the denominator <= 0 or the ratio <= 0.
func MarketHeat(fundsRaised map[int]int, years []int) map[int]float64 {
	out := make(map[int]float64, len(years))
	for _, t := range years {
		denom := 0
		for k := t - 3; k <= t-1; k++ {
			denom += fundsRaised[k]
		}
		numer := float64(fundsRaised[t]) * 3

		if denom <= 0 {
			out[t] = math.NaN()
			continue
		}
		ratio := numer / float64(denom)
		if ratio <= 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = math.Log(ratio)
	}
	return out
}

// NewVentureDemand implements spec §4.9: ln of the count of distinct
// (filtered-nation) companies whose first-ever round occurred in year t,
// current-year raw, not lagged. Zero companies emits NaN.
func NewVentureDemand(rounds []store.Round, companies []store.Company, usNationCode string, years []int) map[int]float64 {
	nationByCompany := make(map[store.CompanyID]string, len(companies))
	for _, c := range companies {
		nationByCompany[c.ID] = c.Nation
	}

	firstRoundYear := make(map[store.CompanyID]int)
	firstRoundNumber := make(map[store.CompanyID]int)
	hasAny := make(map[store.CompanyID]bool)
	for _, r := range rounds {
		if !hasAny[r.CompanyID] || r.RoundNumber < firstRoundNumber[r.CompanyID] {
			firstRoundNumber[r.CompanyID] = r.RoundNumber
			firstRoundYear[r.CompanyID] = r.Year
			hasAny[r.CompanyID] = true
		}
	}

	counts := make(map[int]int)
	for cid, year := range firstRoundYear {
		if usNationCode != "" && nationByCompany[cid] != usNationCode {
			continue
		}
		counts[year]++
	}

	out := make(map[int]float64, len(years))
	for _, t := range years {
		if counts[t] <= 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = math.Log(float64(counts[t]))
	}
	return out
}

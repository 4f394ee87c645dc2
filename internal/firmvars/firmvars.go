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

// Package firmvars computes the per-firm-year variables that spec.md lists
// as required output columns but never assigns an engine: firm age,
// industry diversity (Blau index), firm HQ dummies, early-stage ratio, and
// investment amount/count. Grounded on
// original_source/refactor_v2/vc_analysis/variables/firm_variables.py, per
// SPEC_FULL.md §10.
package firmvars

import (
	"math"

	"github.com/vcresearch/panelgen/internal/store"
)

// Key identifies one firm-year output row.
type Key struct {
	FirmID store.FirmID
	Year   int
}

// FirmAge computes year - founding_year, clamped to >= 0, per the source's
// calculate_firm_age.
func FirmAge(foundingYear *int, year int) (int, bool) {
	if foundingYear == nil {
		return 0, false
	}
	age := year - *foundingYear
	if age < 0 {
		age = 0
	}
	return age, true
}

// IndustryBlau computes 1 - sum((n_i/|I|)^2) over the multiset of industries
// of companies a firm invested in during a firm-year; |I|=0 -> 0, per spec
// §4.10's "Industry Blau" definition.
func IndustryBlau(rounds []store.Round, industryOf func(store.CompanyID) string) map[Key]float64 {
	counts := make(map[Key]map[string]int)
	for _, r := range rounds {
		key := Key{r.FirmID, r.Year}
		ind := industryOf(r.CompanyID)
		if ind == "" {
			continue
		}
		m, ok := counts[key]
		if !ok {
			m = make(map[string]int)
			counts[key] = m
		}
		m[ind]++
	}

	out := make(map[Key]float64, len(counts))
	for key, m := range counts {
		total := 0
		for _, c := range m {
			total += c
		}
		if total == 0 {
			out[key] = 0
			continue
		}
		var sumSq float64
		for _, c := range m {
			p := float64(c) / float64(total)
			sumSq += p * p
		}
		out[key] = 1 - sumSq
	}
	return out
}

// HQDummies grounds on calculate_firm_hq_dummy: CA/MA/NY indicators plus the
// legacy combined CA-or-MA dummy.
type HQ struct {
	CA, MA, NY, Combined bool
}

func HQDummies(state string) HQ {
	var hq HQ
	switch state {
	case "CA", "California":
		hq.CA = true
	case "MA", "Massachusetts":
		hq.MA = true
	case "NY", "New York":
		hq.NY = true
	}
	hq.Combined = hq.CA || hq.MA
	return hq
}

// EarlyStageRatio computes, per firm-year, the mean of a per-round
// early-stage indicator, grounded on calculate_early_stage_ratio.
func EarlyStageRatio(rounds []store.Round, earlyStageStages map[string]bool) map[Key]float64 {
	sums := make(map[Key]float64)
	counts := make(map[Key]int)
	for _, r := range rounds {
		key := Key{r.FirmID, r.Year}
		if earlyStageStages[r.StageLevel1] {
			sums[key]++
		}
		counts[key]++
	}
	out := make(map[Key]float64, len(counts))
	for key, n := range counts {
		out[key] = sums[key] / float64(n)
	}
	return out
}

// InvestmentAmount sums the preferred amount column (disclosed, falling back
// to estimated) per firm-year, grounded on calculate_investment_amount.
func InvestmentAmount(rounds []store.Round) map[Key]float64 {
	out := make(map[Key]float64)
	for _, r := range rounds {
		key := Key{r.FirmID, r.Year}
		amt := 0.0
		switch {
		case r.AmountDisclosed != nil:
			amt = *r.AmountDisclosed
		case r.AmountEstimated != nil:
			amt = *r.AmountEstimated
		}
		out[key] += amt
	}
	return out
}

// InvestmentNumber counts rounds per firm-year, grounded on
// calculate_investment_number.
func InvestmentNumber(rounds []store.Round) map[Key]int {
	out := make(map[Key]int)
	for _, r := range rounds {
		out[Key{r.FirmID, r.Year}]++
	}
	return out
}

// FillPerformanceZero replaces a NaN/absent performance cell with 0, per
// fill_missing_performance_with_zero; callers invoke this while constructing
// the panel row instead of carrying a pandas-style frame-wide pass.
func FillPerformanceZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// NaN is a re-exported convenience for callers constructing panel rows that
// must emit "unknown"/null numeric cells (market heat, unresolved geo
// distances) without importing math directly.
var NaN = math.NaN

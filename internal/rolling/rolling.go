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

// Package rolling computes firm-year rolling-window aggregates with a single
// sorted pass per firm (two-pointer sweep), not a per-target-year rescan, per
// SPEC_FULL.md §4.3's implementation contract.
package rolling

import (
	"sort"

	"github.com/vcresearch/panelgen/internal/store"
)

// Row is one contribution to a rolling aggregate: a firm-year event with an
// optional amount and an optional "unique" key (e.g. company id, fund name).
type Row struct {
	FirmID store.FirmID
	Year   int
	Amount float64
	Unique string
}

// Result is the set of reductions produced for one (firm, target year).
type Result struct {
	Sum        float64
	Count      int
	UniqueCnt  int
}

// Window is a [t-W+1, t] inclusive window, per spec §4.3.
type Window struct {
	W int
}

func (w Window) bounds(t int) (lo, hi int) {
	return t - w.W + 1, t
}

// Sweep computes, for every firm present in rows and every requested target
// year, the sum/count/unique-count reduction over [t-W+1, t]. It performs one
// sort plus one O(N) two-pointer sweep per firm, not O(N*Y).
//
// targetYears must be sorted ascending; every (firm, target year) pair with
// at least one row in rows's year range gets an entry, others are omitted
// (callers left-join against the full firm-year key set and fill the
// reduction identity, per spec §4.3's output invariant).
func Sweep(rows []Row, targetYears []int, w Window) map[store.FirmID]map[int]Result {
	byFirm := make(map[store.FirmID][]Row)
	for _, r := range rows {
		byFirm[r.FirmID] = append(byFirm[r.FirmID], r)
	}

	out := make(map[store.FirmID]map[int]Result, len(byFirm))
	for firmID, firmRows := range byFirm {
		sort.Slice(firmRows, func(i, j int) bool { return firmRows[i].Year < firmRows[j].Year })

		firmOut := make(map[int]Result, len(targetYears))
		lo, hi := 0, 0 // half-open window [lo, hi) over firmRows, sorted by year ascending
		for _, t := range targetYears {
			loYear, hiYear := w.bounds(t)

			for lo < len(firmRows) && firmRows[lo].Year < loYear {
				lo++
			}
			if hi < lo {
				hi = lo
			}
			for hi < len(firmRows) && firmRows[hi].Year <= hiYear {
				hi++
			}

			if hi <= lo {
				continue
			}

			var res Result
			uniq := make(map[string]struct{})
			for i := lo; i < hi; i++ {
				res.Sum += firmRows[i].Amount
				res.Count++
				if firmRows[i].Unique != "" {
					uniq[firmRows[i].Unique] = struct{}{}
				}
			}
			res.UniqueCnt = len(uniq)
			firmOut[t] = res
		}
		out[firmID] = firmOut
	}
	return out
}

// StillOpenResult is the "still-open at t" state used by the reputation
// compositor's input 3 and the panel's funds_still_open_* columns.
type StillOpenResult struct {
	MeanFundSize float64
	Count        int
	Present      bool // false iff no fund was open -> missing-fund flag, per spec §4.3
}

// StillOpen computes, for each target year, the mean size of funds still
// open at t for a single firm's funds (spec §4.3: fund_year < t and
// (closing_year absent or closing_year > t)).
func StillOpen(funds []store.Fund, targetYears []int) map[int]StillOpenResult {
	out := make(map[int]StillOpenResult, len(targetYears))
	for _, t := range targetYears {
		var sum float64
		var n int
		for _, f := range funds {
			if f.IsStillOpen(t) {
				sum += f.FundSize
				n++
			}
		}
		if n == 0 {
			out[t] = StillOpenResult{Present: false}
			continue
		}
		out[t] = StillOpenResult{MeanFundSize: sum / float64(n), Count: n, Present: true}
	}
	return out
}

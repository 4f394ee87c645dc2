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

// Package performance computes window-matched IPO/M&A exit counts per
// firm-year (C7).
package performance

import "github.com/vcresearch/panelgen/internal/store"

// Counts is one firm-year's exit tally; missing firm-years are filled with
// zeros by the caller, per spec §4.7.
type Counts struct {
	IPO int
	MnA int
	All int
}

// Key identifies one output row.
type Key struct {
	FirmID store.FirmID
	Year   int
}

// LookbackMode resolves SPEC_FULL.md design note 1's asymmetric-window
// open question.
type LookbackMode int

const (
	// Inclusive treats lookback_years=0 as window {t} (round year == t).
	Inclusive LookbackMode = iota
	// HalfOpen treats lookback_years=L>0 as window [t-L, t), excluding the
	// current year -- the source's actual, asymmetric behavior, and the
	// default per SPEC_FULL.md design note 1.
	HalfOpen
)

// Compute implements spec §4.7: for firm f, year t, with lookback L,
// consider investments by f in companies where round_year is in the lookback
// window AND round_year == exit_year, then sum ipo/mna/all indicators.
func Compute(rounds []store.Round, exitInfo map[store.CompanyID]store.ExitInfo, years []int, lookbackYears int, mode LookbackMode) map[Key]Counts {
	out := make(map[Key]Counts)

	for _, t := range years {
		var loYear, hiYear int
		switch {
		case lookbackYears == 0:
			loYear, hiYear = t, t
		case mode == Inclusive:
			loYear, hiYear = t-lookbackYears, t
		default: // HalfOpen, the source's default behavior
			loYear, hiYear = t-lookbackYears, t-1
		}

		for _, r := range rounds {
			if r.Year < loYear || r.Year > hiYear {
				continue
			}
			info, ok := exitInfo[r.CompanyID]
			if !ok || !info.HasExit || info.ExitYear != r.Year {
				continue
			}

			key := Key{FirmID: r.FirmID, Year: t}
			c := out[key]
			if info.IPOExit {
				c.IPO++
			}
			if info.MnAExit {
				c.MnA++
			}
			if info.IPOExit || info.MnAExit {
				c.All++
			}
			out[key] = c
		}
	}

	return out
}

// BuildExitInfo derives per-company exit info via the canonical store.
func BuildExitInfo(s *store.Store) map[store.CompanyID]store.ExitInfo {
	out := make(map[store.CompanyID]store.ExitInfo, len(s.Companies))
	for i := range s.Companies {
		c := &s.Companies[i]
		out[c.ID] = s.ExitInfo(c)
	}
	return out
}

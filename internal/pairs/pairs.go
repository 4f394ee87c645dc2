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

// Package pairs explodes investment rounds into firm-firm co-investor pairs
// and streams per-focal-firm geographic distance statistics (C6), without
// ever materializing the full pair table (SPEC_FULL.md §5 resource ceiling).
package pairs

import (
	"math"

	"github.com/vcresearch/panelgen/internal/geo"
	"github.com/vcresearch/panelgen/internal/store"
)

// Stats is the per-(focal firm, year) aggregate over distances to
// co-investing partners. A firm-year with zero resolved distances gets no
// entry in the returned map; callers write such a firm-year as null, never
// 0, per spec §4.6.
type Stats struct {
	Mean         float64
	Min          float64
	Max          float64
	Std          float64
	WeightedMean float64
	Valid        bool
}

type accumulator struct {
	sum, sumSq, weightedSum, weightTotal float64
	min, max                             float64
	n                                    int
}

func (a *accumulator) add(d float64, w float64) {
	if a.n == 0 {
		a.min, a.max = d, d
	} else {
		if d < a.min {
			a.min = d
		}
		if d > a.max {
			a.max = d
		}
	}
	a.sum += d
	a.sumSq += d * d
	a.weightedSum += d * w
	a.weightTotal += w
	a.n++
}

func (a *accumulator) stats() Stats {
	if a.n == 0 {
		return Stats{Valid: false}
	}
	mean := a.sum / float64(a.n)
	var std float64
	if a.n > 1 {
		variance := a.sumSq/float64(a.n) - mean*mean
		if variance < 0 {
			variance = 0
		}
		std = math.Sqrt(variance)
	}
	weightedMean := 0.0
	if a.weightTotal > 0 {
		weightedMean = a.weightedSum / a.weightTotal
	}
	return Stats{
		Mean: mean, Min: a.min, Max: a.max, Std: std,
		WeightedMean: weightedMean, Valid: true,
	}
}

// Key identifies one output row.
type Key struct {
	FirmID store.FirmID
	Year   int
}

// CopartnerDistances computes, for each round row, the ordered (focal,
// partner) pairs within its deal (company, year), the resolved great-circle
// distance between their zips, and the per-focal-firm rolling stats.
// A round weight (e.g. investment amount) feeds the weighted-mean reduction
// when non-nil; otherwise weight defaults to 1 for every pair.
func CopartnerDistances(rounds []store.Round, firms []store.Firm, resolver *geo.Resolver, weightOf func(store.Round) float64) map[Key]Stats {
	deals := make(map[store.DealKey][]store.Round)
	for _, r := range rounds {
		d := store.DealKey{CompanyID: r.CompanyID, Year: r.Year}
		deals[d] = append(deals[d], r)
	}

	zipByFirm := make(map[store.FirmID]string, len(firms))
	for _, f := range firms {
		zipByFirm[f.ID] = f.Zip
	}

	accum := make(map[Key]*accumulator)

	for _, members := range deals {
		if len(members) < 2 {
			continue
		}
		for _, focalRound := range members {
			focal := focalRound.FirmID
			focalZip := zipByFirm[focal]
			var w float64 = 1
			if weightOf != nil {
				w = weightOf(focalRound)
			}

			for _, partnerRound := range members {
				partner := partnerRound.FirmID
				if partner == focal {
					continue
				}
				partnerZip := zipByFirm[partner]

				d, ok := resolver.DistanceBetweenZips(focalZip, partnerZip)
				if !ok {
					continue
				}

				key := Key{FirmID: focal, Year: focalRound.Year}
				a, ok := accum[key]
				if !ok {
					a = &accumulator{}
					accum[key] = a
				}
				a.add(d, w)
			}
		}
	}

	out := make(map[Key]Stats, len(accum))
	for k, a := range accum {
		out[k] = a.stats()
	}
	return out
}

// CompanyDistances is the firm<->company variant (spec §4.6): per
// (firm, company, year) round with both zips resolved, the distance
// firm->company, aggregated by (firm, year).
func CompanyDistances(rounds []store.Round, firms []store.Firm, companies []store.Company, resolver *geo.Resolver) map[Key]Stats {
	firmZip := make(map[store.FirmID]string, len(firms))
	for _, f := range firms {
		firmZip[f.ID] = f.Zip
	}
	companyZip := make(map[store.CompanyID]string, len(companies))
	for _, c := range companies {
		companyZip[c.ID] = c.Zip
	}

	accum := make(map[Key]*accumulator)
	for _, r := range rounds {
		d, ok := resolver.DistanceBetweenZips(firmZip[r.FirmID], companyZip[r.CompanyID])
		if !ok {
			continue
		}
		key := Key{FirmID: r.FirmID, Year: r.Year}
		a, ok := accum[key]
		if !ok {
			a = &accumulator{}
			accum[key] = a
		}
		a.add(d, 1)
	}

	out := make(map[Key]Stats, len(accum))
	for k, a := range accum {
		out[k] = a.stats()
	}
	return out
}

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

// Package reputation composes the six-input VC reputation index (C8): a
// per-year z-score of each input, a row-sum of the z-scores, and a per-year
// min-max rescale to [0.01, 100].
package reputation

import (
	"math"

	"github.com/vcresearch/panelgen/internal/store"
)

// Inputs is one firm-year's six raw reputation components, per spec §4.8.
type Inputs struct {
	PortfolioCount   float64 // 1: unique portfolio companies in [t-4, t]
	TotalInvested    float64 // 2: sum of investment amount in [t-4, t], missing -> 0
	AvgOpenFundSize  *float64 // 3: avg size of funds still open at t (nil if no open fund)
	FundsRaisedCount *float64 // 4: unique funds raised in [t-4, t] (nil if fund table absent)
	ExitsInWindow    float64 // 5: portfolio companies whose exit year is in [t-4, t]
	FundingAge       *float64 // 6: t - min(fund_year), clamped >=0, nil if firm has no funds
}

// Key identifies one output row.
type Key struct {
	FirmID store.FirmID
	Year   int
}

// Row is the composited output.
type Row struct {
	Reputation       float64
	MissingFundData  bool
}

// Compute implements spec §4.8's pipeline: per-year z-score of each of the
// six inputs (missing optional inputs filled with 0 before scoring, but the
// missing_fund_data flag records that they *were* missing), row-sum, then a
// per-year min-max rescale to [0.01, 100] (constant column -> 50.0 for every
// row that year).
func Compute(inputs map[Key]Inputs) map[Key]Row {
	byYear := make(map[int][]store.FirmID)
	for k := range inputs {
		byYear[k.Year] = append(byYear[k.Year], k.FirmID)
	}

	out := make(map[Key]Row, len(inputs))

	for year, firmIDs := range byYear {
		matrix := make([][6]float64, len(firmIDs))
		missing := make([]bool, len(firmIDs))

		for i, fid := range firmIDs {
			in := inputs[Key{fid, year}]
			avgFund, fundsRaised, fundingAge := 0.0, 0.0, 0.0
			wasMissing := false
			if in.AvgOpenFundSize != nil {
				avgFund = *in.AvgOpenFundSize
			} else {
				wasMissing = true
			}
			if in.FundsRaisedCount != nil {
				fundsRaised = *in.FundsRaisedCount
			} else {
				wasMissing = true
			}
			if in.FundingAge != nil {
				fundingAge = *in.FundingAge
			} else {
				wasMissing = true
			}

			matrix[i] = [6]float64{in.PortfolioCount, in.TotalInvested, avgFund, fundsRaised, in.ExitsInWindow, fundingAge}
			missing[i] = wasMissing
		}

		zscores := make([][6]float64, len(firmIDs))
		for col := 0; col < 6; col++ {
			mean, std := meanStd(matrix, col)
			for i := range matrix {
				if std == 0 {
					zscores[i][col] = 0
				} else {
					zscores[i][col] = (matrix[i][col] - mean) / std
				}
			}
		}

		rowSums := make([]float64, len(firmIDs))
		for i := range rowSums {
			var sum float64
			for col := 0; col < 6; col++ {
				sum += zscores[i][col]
			}
			rowSums[i] = sum
		}

		rescaled := minMaxRescale(rowSums, 0.01, 100, 50.0)

		for i, fid := range firmIDs {
			out[Key{fid, year}] = Row{Reputation: rescaled[i], MissingFundData: missing[i]}
		}
	}

	return out
}

func meanStd(matrix [][6]float64, col int) (mean, std float64) {
	n := len(matrix)
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, row := range matrix {
		sum += row[col]
	}
	mean = sum / float64(n)

	var variance float64
	for _, row := range matrix {
		d := row[col] - mean
		variance += d * d
	}
	variance /= float64(n)
	std = math.Sqrt(variance)
	return mean, std
}

// minMaxRescale maps values into [lo, hi]; a constant input column yields
// the constant value everywhere, per spec §4.8.
func minMaxRescale(values []float64, lo, hi, constant float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if max == min {
		for i := range out {
			out[i] = constant
		}
		return out
	}
	for i, v := range values {
		out[i] = lo + (v-min)*(hi-lo)/(max-min)
	}
	return out
}

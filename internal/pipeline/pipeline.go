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

// Package pipeline wires C1-C12 end to end: ingest builds the canonical
// store, then each engine consumes the store (and, where relevant, earlier
// engines' output) to produce the firm-year panel and the initial-period
// table. Mirrors the staged, barrier-separated flow cmd/run.go drives across
// providers, generalized to the fixed ten-stage VC pipeline.
package pipeline

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/vcresearch/panelgen/internal/centrality"
	"github.com/vcresearch/panelgen/internal/config"
	"github.com/vcresearch/panelgen/internal/firmvars"
	"github.com/vcresearch/panelgen/internal/geo"
	"github.com/vcresearch/panelgen/internal/imprinting"
	"github.com/vcresearch/panelgen/internal/ingest"
	"github.com/vcresearch/panelgen/internal/market"
	"github.com/vcresearch/panelgen/internal/network"
	"github.com/vcresearch/panelgen/internal/pairs"
	"github.com/vcresearch/panelgen/internal/panel"
	"github.com/vcresearch/panelgen/internal/performance"
	"github.com/vcresearch/panelgen/internal/reputation"
	"github.com/vcresearch/panelgen/internal/rolling"
	"github.com/vcresearch/panelgen/internal/store"
)

var earlyStageStages = map[string]bool{
	"Startup/Seed": true,
	"Early Stage":  true,
}

// Result collects every engine's output, so CLI subcommands can print or
// write whichever slice a given pipeline stage corresponds to.
type Result struct {
	Store *store.Store

	Graphs map[int]*network.Graph

	CentralityByYear map[int][]centrality.Row

	Rolling      map[store.FirmID]map[int]rolling.Result
	StillOpen    map[int]rolling.StillOpenResult
	PartnerDist  map[pairs.Key]pairs.Stats
	CompanyDist  map[pairs.Key]pairs.Stats
	Performance      map[performance.Key]performance.Counts
	Reputation       map[reputation.Key]reputation.Row
	ReputationInputs map[reputation.Key]reputation.Inputs
	MarketSeries     market.Series

	Rows        []panel.Row
	InitialRows []panel.InitialRow
}

// Ingest runs C11: loads the four input tables from cfg.InputDir and builds
// the canonical store.
func Ingest(cfg config.Config) (*store.Store, error) {
	b := store.NewBuilder()

	if err := ingest.LoadFirms(filepath.Join(cfg.InputDir, "firms.csv"), b); err != nil {
		return nil, fmt.Errorf("load firms: %w", err)
	}
	if err := ingest.LoadCompanies(filepath.Join(cfg.InputDir, "companies.csv"), b); err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}
	if err := ingest.LoadRounds(filepath.Join(cfg.InputDir, "rounds.csv"), b); err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}
	if err := ingest.LoadFunds(filepath.Join(cfg.InputDir, "funds.csv"), b); err != nil {
		log.Warn().Err(err).Msg("funds table unavailable, fund-backed variables degrade to missing")
	}

	return b.Build(), nil
}

// Run executes the full pipeline and returns every intermediate and final
// product.
func Run(cfg config.Config, geoTable map[string]geo.Coordinate) (*Result, error) {
	s, err := Ingest(cfg)
	if err != nil {
		return nil, err
	}
	return RunFromStore(cfg, s, geoTable)
}

// RunFromStore runs C2-C12 against an already-built store; split out so
// tests can construct a store directly without a CSV round-trip.
func RunFromStore(cfg config.Config, s *store.Store, geoTable map[string]geo.Coordinate) (*Result, error) {
	res := &Result{Store: s}

	years := s.Years()
	if len(years) == 0 {
		return res, nil
	}

	resolver := geo.NewResolver(geoTable)

	netCfg := network.Config{WindowYears: cfg.WindowYears, EdgeCutpoint: cfg.EdgeCutpoint}
	res.Graphs = network.BuildAll(s.Rounds, years, netCfg, cfg.ParallelWorkers)

	centCfg := cfg.CentralityConfig()
	res.CentralityByYear = make(map[int][]centrality.Row, len(years))
	for _, y := range years {
		res.CentralityByYear[y] = centrality.ComputeAll(res.Graphs[y], centCfg)
	}

	rollingRows := make([]rolling.Row, 0, len(s.Rounds))
	for _, r := range s.Rounds {
		unique := fmt.Sprintf("%d", r.CompanyID)
		amt := 0.0
		if r.AmountDisclosed != nil {
			amt = *r.AmountDisclosed
		} else if r.AmountEstimated != nil {
			amt = *r.AmountEstimated
		}
		rollingRows = append(rollingRows, rolling.Row{FirmID: r.FirmID, Year: r.Year, Amount: amt, Unique: unique})
	}
	res.Rolling = rolling.Sweep(rollingRows, years, rolling.Window{W: cfg.WindowYears})
	res.StillOpen = rolling.StillOpen(s.Funds, years)

	weightOf := func(r store.Round) float64 {
		if r.AmountDisclosed != nil {
			return *r.AmountDisclosed
		}
		if r.AmountEstimated != nil {
			return *r.AmountEstimated
		}
		return 1
	}
	res.PartnerDist = pairs.CopartnerDistances(s.Rounds, s.Firms, resolver, weightOf)
	res.CompanyDist = pairs.CompanyDistances(s.Rounds, s.Firms, s.Companies, resolver)

	exitInfo := performance.BuildExitInfo(s)
	mode := performance.HalfOpen
	if cfg.LookbackYears == 0 {
		mode = performance.Inclusive
	}
	res.Performance = performance.Compute(s.Rounds, exitInfo, years, cfg.LookbackYears, mode)

	res.ReputationInputs, res.Reputation = computeReputation(s, res, years)

	fundsRaised := market.FundsRaisedByYear(s.Funds)
	res.MarketSeries = market.Series{
		MarketHeat:       market.MarketHeat(fundsRaised, years),
		NewVentureDemand: market.NewVentureDemand(s.Rounds, s.Companies, cfg.USNationCode, years),
	}

	res.Rows = assembleRows(s, res)
	res.InitialRows = assembleInitialRows(cfg, s, res)

	return res, nil
}

func computeReputation(s *store.Store, res *Result, years []int) (map[reputation.Key]reputation.Inputs, map[reputation.Key]reputation.Row) {
	firstFundYear := make(map[store.FirmID]int)
	for _, f := range s.Funds {
		if first, ok := firstFundYear[f.FirmID]; !ok || f.FundYear < first {
			firstFundYear[f.FirmID] = f.FundYear
		}
	}

	inputs := make(map[reputation.Key]reputation.Inputs)
	for _, firm := range s.Firms {
		for _, y := range years {
			repKey := reputation.Key{FirmID: firm.ID, Year: y}

			window := res.Rolling[firm.ID][y]
			portfolioCount := float64(window.UniqueCnt)
			totalInvested := window.Sum

			var avgOpenFundSize *float64
			var fundsRaisedCount *float64
			if so, ok := res.StillOpen[y]; ok && so.Present {
				v := so.MeanFundSize
				avgOpenFundSize = &v
				c := float64(so.Count)
				fundsRaisedCount = &c
			}

			exitsInWindow := 0.0
			if counts, ok := res.Performance[performance.Key{FirmID: firm.ID, Year: y}]; ok {
				exitsInWindow = float64(counts.All)
			}

			var fundingAge *float64
			if first, ok := firstFundYear[firm.ID]; ok {
				age := math.Max(0, float64(y-first))
				fundingAge = &age
			}

			inputs[repKey] = reputation.Inputs{
				PortfolioCount:   portfolioCount,
				TotalInvested:    totalInvested,
				AvgOpenFundSize:  avgOpenFundSize,
				FundsRaisedCount: fundsRaisedCount,
				ExitsInWindow:    exitsInWindow,
				FundingAge:       fundingAge,
			}
		}
	}
	return inputs, reputation.Compute(inputs)
}

func assembleRows(s *store.Store, res *Result) []panel.Row {
	companyByID := make(map[store.CompanyID]*store.Company, len(s.Companies))
	for i := range s.Companies {
		companyByID[s.Companies[i].ID] = &s.Companies[i]
	}
	industryOf := func(c store.CompanyID) string {
		if co, ok := companyByID[c]; ok {
			return co.Industry
		}
		return ""
	}

	blau := firmvars.IndustryBlau(s.Rounds, industryOf)
	earlyRatio := firmvars.EarlyStageRatio(s.Rounds, earlyStageStages)
	invAmount := firmvars.InvestmentAmount(s.Rounds)
	invNumber := firmvars.InvestmentNumber(s.Rounds)

	// The row key set is exactly the (firm_id, year) pairs present in the
	// filtered round data (spec §3), not the dense firm x year cross
	// product -- a firm active only in one year gets one row, not one per
	// year in the store's overall range.
	type firmYear struct {
		FirmID store.FirmID
		Year   int
	}
	seenFY := make(map[firmYear]bool)
	var firmYears []firmYear
	for _, r := range s.Rounds {
		fy := firmYear{r.FirmID, r.Year}
		if !seenFY[fy] {
			seenFY[fy] = true
			firmYears = append(firmYears, fy)
		}
	}
	sort.Slice(firmYears, func(i, j int) bool {
		if firmYears[i].FirmID != firmYears[j].FirmID {
			return firmYears[i].FirmID < firmYears[j].FirmID
		}
		return firmYears[i].Year < firmYears[j].Year
	})

	var rows []panel.Row
	for _, fy := range firmYears {
		firm := s.FirmByID(fy.FirmID)
		y := fy.Year
		fkey := firmvars.Key{FirmID: firm.ID, Year: y}

		var firmAge *int32
		if age, ok := firmvars.FirmAge(firm.FoundingYear, y); ok {
			a := int32(age)
			firmAge = &a
		}
		var indBlau *float64
		if v, ok := blau[fkey]; ok {
			indBlau = &v
		}

		hq := firmvars.HQDummies(firm.State)

		rollingForFirm := res.Rolling[firm.ID][y]
		stillOpen := res.StillOpen[y]

		var rollingAmountSum *float64
		if rollingForFirm.Count > 0 || rollingForFirm.Sum != 0 {
			v := rollingForFirm.Sum
			rollingAmountSum = &v
		}
		var fundsStillOpenMean *float64
		if stillOpen.Present {
			v := stillOpen.MeanFundSize
			fundsStillOpenMean = &v
		}

		var degree, betweenness, egoDensity, powerB0, powerB075, powerB099, powerMax float64
		var constraintVal *float64
		var inNetwork bool
		for _, c := range res.CentralityByYear[y] {
			if c.FirmID != firm.ID {
				continue
			}
			inNetwork = true
			degree = c.Degree
			betweenness = c.Betweenness
			egoDensity = c.EgoDensity
			v := c.Constraint
			constraintVal = &v
			powerB0 = c.Power[0]
			powerB075 = c.Power[0.75]
			powerB099 = c.Power[0.99]
			powerMax = c.PowerMax
			break
		}

		var copartnerMean, copartnerMin, copartnerMax, copartnerStd, copartnerWeightedMean *float64
		if st, ok := res.PartnerDist[pairs.Key{FirmID: firm.ID, Year: y}]; ok && st.Valid {
			mean, min, max, std, wm := st.Mean, st.Min, st.Max, st.Std, st.WeightedMean
			copartnerMean, copartnerMin, copartnerMax, copartnerStd, copartnerWeightedMean = &mean, &min, &max, &std, &wm
		}
		var companyMean, companyMin, companyMax, companyStd, companyWeightedMean *float64
		if st, ok := res.CompanyDist[pairs.Key{FirmID: firm.ID, Year: y}]; ok && st.Valid {
			mean, min, max, std, wm := st.Mean, st.Min, st.Max, st.Std, st.WeightedMean
			companyMean, companyMin, companyMax, companyStd, companyWeightedMean = &mean, &min, &max, &std, &wm
		}

		counts := res.Performance[performance.Key{FirmID: firm.ID, Year: y}]

		rep := res.Reputation[reputation.Key{FirmID: firm.ID, Year: y}]
		repIn := res.ReputationInputs[reputation.Key{FirmID: firm.ID, Year: y}]

		var marketHeat, newVentureDemand *float64
		if v, ok := res.MarketSeries.MarketHeat[y]; ok && !math.IsNaN(v) {
			mh := v
			marketHeat = &mh
		}
		if v, ok := res.MarketSeries.NewVentureDemand[y]; ok && !math.IsNaN(v) {
			nv := v
			newVentureDemand = &nv
		}

		rows = append(rows, panel.Row{
			FirmID:                       int32(firm.ID),
			FirmName:                     firm.Name,
			Year:                         int32(y),
			FirmState:                    firm.State,
			RollingDealCount:             int32(rollingForFirm.Count),
			RollingUniqueCompany:         int32(rollingForFirm.UniqueCnt),
			RollingAmountSum:             rollingAmountSum,
			FundsStillOpenCount:          int32(stillOpen.Count),
			FundsStillOpenMean:           fundsStillOpenMean,
			Degree:                       degree,
			Betweenness:                  betweenness,
			Constraint:                   constraintVal,
			EgoDensity:                   egoDensity,
			PowerB0:                      powerB0,
			PowerB075:                    powerB075,
			PowerB099:                    powerB099,
			PowerMax:                     powerMax,
			InNetwork:                    inNetwork,
			GeoDistCopartnerMean:         copartnerMean,
			GeoDistCopartnerMin:          copartnerMin,
			GeoDistCopartnerMax:          copartnerMax,
			GeoDistCopartnerStd:          copartnerStd,
			GeoDistCopartnerWeightedMean: copartnerWeightedMean,
			GeoDistCompanyMean:           companyMean,
			GeoDistCompanyMin:            companyMin,
			GeoDistCompanyMax:            companyMax,
			GeoDistCompanyStd:            companyStd,
			GeoDistCompanyWeightedMean:   companyWeightedMean,
			IPOCount:                     int32(counts.IPO),
			MnACount:                     int32(counts.MnA),
			AllExits:                     int32(counts.All),
			Reputation:                   rep.Reputation,
			MissingFundData:              rep.MissingFundData,
			RepPortfolioCount:            repIn.PortfolioCount,
			RepTotalInvested:             repIn.TotalInvested,
			RepAvgFund:                   repIn.AvgOpenFundSize,
			RepFundsRaised:               repIn.FundsRaisedCount,
			RepExits:                     repIn.ExitsInWindow,
			RepFundingAge:                repIn.FundingAge,
			MarketHeat:                   marketHeat,
			NewVentureDemand:             newVentureDemand,
			FirmAge:                      firmAge,
			IndustryBlau:                 indBlau,
			FirmHQ:                       hq.Combined,
			HQCalifornia:                 hq.CA,
			HQMassachusetts:              hq.MA,
			HQNewYork:                    hq.NY,
			EarlyStageRatio:              earlyRatio[fkey],
			InvestmentAmount:             invAmount[fkey],
			InvestmentNumber:             int32(invNumber[fkey]),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FirmID != rows[j].FirmID {
			return rows[i].FirmID < rows[j].FirmID
		}
		return rows[i].Year < rows[j].Year
	})
	return rows
}

func assembleInitialRows(cfg config.Config, s *store.Store, res *Result) []panel.InitialRow {
	t1ByFirm := imprinting.InitialYear(s.Rounds)
	invAmount := firmvars.InvestmentAmount(s.Rounds)

	degreeLookup := imprinting.CentralityFromRows(res.CentralityByYear, func(r centrality.Row) float64 { return r.Degree })
	betweennessLookup := imprinting.CentralityFromRows(res.CentralityByYear, func(r centrality.Row) float64 { return r.Betweenness })

	var out []panel.InitialRow
	for _, firm := range s.Firms {
		t1, ok := t1ByFirm[firm.ID]
		if !ok {
			continue
		}

		appearances := imprinting.InitialPartners(firm.ID, t1, cfg.ImprintingPeriod, res.Graphs)
		degreeStatus := imprinting.ComputePartnerStatus(appearances, degreeLookup)
		betweennessStatus := imprinting.ComputePartnerStatus(appearances, betweennessLookup)

		row := panel.InitialRow{
			FirmID:      int32(firm.ID),
			InitialYear: int32(t1),
		}

		if degreeStatus.Valid {
			mean, max, min := degreeStatus.Mean, degreeStatus.Max, degreeStatus.Min
			row.PartnerDegreeMean = &mean
			row.PartnerDegreeMax = &max
			row.PartnerDegreeMin = &min
			row.PartnerCount = int32(degreeStatus.PartnerCount)
		}
		if betweennessStatus.Valid {
			mean := betweennessStatus.Mean
			row.PartnerBetweennessMean = &mean
		}

		amountValueAt := func(f store.FirmID, y int) (float64, bool) {
			v, ok := invAmount[firmvars.Key{FirmID: f, Year: y}]
			return v, ok
		}
		if sum, ok := imprinting.AggregateFirmMetric(firm.ID, t1, cfg.ImprintingPeriod, imprinting.AggSum, amountValueAt); ok {
			row.InitialInvestmentAmount = sum
		}

		if firm.FoundingYear != nil {
			age, _ := firmvars.FirmAge(firm.FoundingYear, t1)
			a := int32(age)
			row.InitialFirmAge = &a
		}

		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FirmID < out[j].FirmID })
	return out
}

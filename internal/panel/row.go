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

// Package panel assembles and writes the final firm-year panel and the
// firm-level initial-period table (C12), grounded on provider/zacks.go's
// parquet struct-tag convention and data/asset.go's SaveDB upsert pattern.
package panel

// Row is one firm-year observation of the panel. Field tags follow
// provider/zacks.go's multi-tag convention: csv for ingest-adjacent tooling,
// json for debugging dumps, parquet for the columnar export, db for the
// Postgres sink.
//
// Nullable numeric fields use *float64/*int so a NaN-producing computation
// (unresolved geo, degenerate market ratios, absent partners) serializes as
// SQL NULL / parquet OPTIONAL rather than a sentinel float.
type Row struct {
	FirmID   int32  `csv:"firm_id" json:"firm_id" parquet:"name=firm_id, type=INT32" db:"firm_id"`
	FirmName string `csv:"firm_name" json:"firm_name" parquet:"name=firm_name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"firm_name"`
	Year     int32  `csv:"year" json:"year" parquet:"name=year, type=INT32" db:"year"`

	// C2 geo attributes (state passthrough, not recomputed per year).
	FirmState string `csv:"firm_state" json:"firm_state" parquet:"name=firm_state, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"firm_state,omitempty"`

	// C3 rolling aggregates.
	RollingDealCount     int32    `csv:"rolling_deal_count" json:"rolling_deal_count" parquet:"name=rolling_deal_count, type=INT32" db:"rolling_deal_count"`
	RollingUniqueCompany int32    `csv:"rolling_unique_company_count" json:"rolling_unique_company_count" parquet:"name=rolling_unique_company_count, type=INT32" db:"rolling_unique_company_count"`
	RollingAmountSum     *float64 `csv:"rolling_amount_sum" json:"rolling_amount_sum" parquet:"name=rolling_amount_sum, type=DOUBLE, repetitiontype=OPTIONAL" db:"rolling_amount_sum,omitempty"`
	FundsStillOpenCount  int32    `csv:"funds_still_open_count" json:"funds_still_open_count" parquet:"name=funds_still_open_count, type=INT32" db:"funds_still_open_count"`
	FundsStillOpenMean   *float64 `csv:"funds_still_open_mean_size" json:"funds_still_open_mean_size" parquet:"name=funds_still_open_mean_size, type=DOUBLE, repetitiontype=OPTIONAL" db:"funds_still_open_mean_size,omitempty"`

	// C5 centrality measures. Each column holds the variant that the
	// centrality config selects (a UseWeighted* flag changes the value in
	// the same column; there are no separate weighted columns). InNetwork records
	// spec §4.5's missingness contract: 1 iff this firm had a row in the
	// year's centrality graph, independent of whether any measure below
	// happens to be the zero value.
	Degree      float64  `csv:"degree" json:"degree" parquet:"name=degree, type=DOUBLE" db:"degree"`
	Betweenness float64  `csv:"betweenness" json:"betweenness" parquet:"name=betweenness, type=DOUBLE" db:"betweenness"`
	Constraint  *float64 `csv:"constraint" json:"constraint" parquet:"name=constraint, type=DOUBLE, repetitiontype=OPTIONAL" db:"constraint,omitempty"`
	EgoDensity  float64  `csv:"ego_density" json:"ego_density" parquet:"name=ego_density, type=DOUBLE" db:"ego_density"`
	PowerB0     float64  `csv:"power_beta_0" json:"power_beta_0" parquet:"name=power_beta_0, type=DOUBLE" db:"power_beta_0"`
	PowerB075   float64  `csv:"power_beta_075" json:"power_beta_075" parquet:"name=power_beta_075, type=DOUBLE" db:"power_beta_075"`
	PowerB099   float64  `csv:"power_beta_099" json:"power_beta_099" parquet:"name=power_beta_099, type=DOUBLE" db:"power_beta_099"`
	PowerMax    float64  `csv:"power_max" json:"power_max" parquet:"name=power_max, type=DOUBLE" db:"power_max"`
	InNetwork   bool     `csv:"in_network" json:"in_network" parquet:"name=in_network, type=BOOLEAN" db:"in_network"`

	// C6 co-partner / co-investee distance statistics. Both variants carry
	// the full mean/min/max/std/weighted_mean set (pairs.Stats); a firm-year
	// with zero resolved distances leaves every field nil rather than 0.
	GeoDistCopartnerMean         *float64 `csv:"geo_dist_copartner_mean" json:"geo_dist_copartner_mean" parquet:"name=geo_dist_copartner_mean, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_copartner_mean,omitempty"`
	GeoDistCopartnerMin          *float64 `csv:"geo_dist_copartner_min" json:"geo_dist_copartner_min" parquet:"name=geo_dist_copartner_min, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_copartner_min,omitempty"`
	GeoDistCopartnerMax          *float64 `csv:"geo_dist_copartner_max" json:"geo_dist_copartner_max" parquet:"name=geo_dist_copartner_max, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_copartner_max,omitempty"`
	GeoDistCopartnerStd          *float64 `csv:"geo_dist_copartner_std" json:"geo_dist_copartner_std" parquet:"name=geo_dist_copartner_std, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_copartner_std,omitempty"`
	GeoDistCopartnerWeightedMean *float64 `csv:"geo_dist_copartner_weighted_mean" json:"geo_dist_copartner_weighted_mean" parquet:"name=geo_dist_copartner_weighted_mean, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_copartner_weighted_mean,omitempty"`
	GeoDistCompanyMean           *float64 `csv:"geo_dist_company_mean" json:"geo_dist_company_mean" parquet:"name=geo_dist_company_mean, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_company_mean,omitempty"`
	GeoDistCompanyMin            *float64 `csv:"geo_dist_company_min" json:"geo_dist_company_min" parquet:"name=geo_dist_company_min, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_company_min,omitempty"`
	GeoDistCompanyMax            *float64 `csv:"geo_dist_company_max" json:"geo_dist_company_max" parquet:"name=geo_dist_company_max, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_company_max,omitempty"`
	GeoDistCompanyStd            *float64 `csv:"geo_dist_company_std" json:"geo_dist_company_std" parquet:"name=geo_dist_company_std, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_company_std,omitempty"`
	GeoDistCompanyWeightedMean   *float64 `csv:"geo_dist_company_weighted_mean" json:"geo_dist_company_weighted_mean" parquet:"name=geo_dist_company_weighted_mean, type=DOUBLE, repetitiontype=OPTIONAL" db:"geo_dist_company_weighted_mean,omitempty"`

	// C7 performance (exit) counts over the lookback window.
	IPOCount int32 `csv:"ipo_count" json:"ipo_count" parquet:"name=ipo_count, type=INT32" db:"ipo_count"`
	MnACount int32 `csv:"mna_count" json:"mna_count" parquet:"name=mna_count, type=INT32" db:"mna_count"`
	AllExits int32 `csv:"all_exits" json:"all_exits" parquet:"name=all_exits, type=INT32" db:"all_exits"`

	// C8 reputation: the composite plus the six raw inputs that fed the
	// per-year z-score (reputation.Inputs), grounded on spec §6's rep_*
	// columns and §8's rep_avg_fund worked example.
	Reputation       float64  `csv:"reputation" json:"reputation" parquet:"name=reputation, type=DOUBLE" db:"reputation"`
	MissingFundData  bool     `csv:"missing_fund_data" json:"missing_fund_data" parquet:"name=missing_fund_data, type=BOOLEAN" db:"missing_fund_data"`
	RepPortfolioCount float64 `csv:"rep_portfolio_count" json:"rep_portfolio_count" parquet:"name=rep_portfolio_count, type=DOUBLE" db:"rep_portfolio_count"`
	RepTotalInvested  float64 `csv:"rep_total_invested" json:"rep_total_invested" parquet:"name=rep_total_invested, type=DOUBLE" db:"rep_total_invested"`
	RepAvgFund        *float64 `csv:"rep_avg_fund" json:"rep_avg_fund" parquet:"name=rep_avg_fund, type=DOUBLE, repetitiontype=OPTIONAL" db:"rep_avg_fund,omitempty"`
	RepFundsRaised    *float64 `csv:"rep_funds_raised" json:"rep_funds_raised" parquet:"name=rep_funds_raised, type=DOUBLE, repetitiontype=OPTIONAL" db:"rep_funds_raised,omitempty"`
	RepExits          float64  `csv:"rep_exits" json:"rep_exits" parquet:"name=rep_exits, type=DOUBLE" db:"rep_exits"`
	RepFundingAge     *float64 `csv:"rep_funding_age" json:"rep_funding_age" parquet:"name=rep_funding_age, type=DOUBLE, repetitiontype=OPTIONAL" db:"rep_funding_age,omitempty"`

	// C9 market-condition series (one value per year across the whole
	// market, broadcast onto every firm's row for that year).
	MarketHeat       *float64 `csv:"market_heat" json:"market_heat" parquet:"name=market_heat, type=DOUBLE, repetitiontype=OPTIONAL" db:"market_heat,omitempty"`
	NewVentureDemand *float64 `csv:"new_venture_demand" json:"new_venture_demand" parquet:"name=new_venture_demand, type=DOUBLE, repetitiontype=OPTIONAL" db:"new_venture_demand,omitempty"`

	// firmvars: supplemented firm-year variables.
	FirmAge          *int32   `csv:"firm_age" json:"firm_age" parquet:"name=firm_age, type=INT32, repetitiontype=OPTIONAL" db:"firm_age,omitempty"`
	IndustryBlau     *float64 `csv:"industry_blau" json:"industry_blau" parquet:"name=industry_blau, type=DOUBLE, repetitiontype=OPTIONAL" db:"industry_blau,omitempty"`
	FirmHQ           bool     `csv:"firm_hq" json:"firm_hq" parquet:"name=firm_hq, type=BOOLEAN" db:"firm_hq"`
	HQCalifornia     bool     `csv:"hq_california" json:"hq_california" parquet:"name=hq_california, type=BOOLEAN" db:"hq_california"`
	HQMassachusetts  bool     `csv:"hq_massachusetts" json:"hq_massachusetts" parquet:"name=hq_massachusetts, type=BOOLEAN" db:"hq_massachusetts"`
	HQNewYork        bool     `csv:"hq_new_york" json:"hq_new_york" parquet:"name=hq_new_york, type=BOOLEAN" db:"hq_new_york"`
	EarlyStageRatio  float64  `csv:"early_stage_ratio" json:"early_stage_ratio" parquet:"name=early_stage_ratio, type=DOUBLE" db:"early_stage_ratio"`
	InvestmentAmount float64  `csv:"investment_amount" json:"investment_amount" parquet:"name=investment_amount, type=DOUBLE" db:"investment_amount"`
	InvestmentNumber int32    `csv:"investment_number" json:"investment_number" parquet:"name=investment_number, type=INT32" db:"investment_number"`
}

// InitialRow is one firm's C10 imprinting-period summary, keyed by firm and
// its initial year t1.
type InitialRow struct {
	FirmID      int32 `csv:"firm_id" json:"firm_id" parquet:"name=firm_id, type=INT32" db:"firm_id"`
	InitialYear int32 `csv:"initial_year" json:"initial_year" parquet:"name=initial_year, type=INT32" db:"initial_year"`

	PartnerDegreeMean      *float64 `csv:"partner_degree_mean" json:"partner_degree_mean" parquet:"name=partner_degree_mean, type=DOUBLE, repetitiontype=OPTIONAL" db:"partner_degree_mean,omitempty"`
	PartnerDegreeMax       *float64 `csv:"partner_degree_max" json:"partner_degree_max" parquet:"name=partner_degree_max, type=DOUBLE, repetitiontype=OPTIONAL" db:"partner_degree_max,omitempty"`
	PartnerDegreeMin       *float64 `csv:"partner_degree_min" json:"partner_degree_min" parquet:"name=partner_degree_min, type=DOUBLE, repetitiontype=OPTIONAL" db:"partner_degree_min,omitempty"`
	PartnerBetweennessMean *float64 `csv:"partner_betweenness_mean" json:"partner_betweenness_mean" parquet:"name=partner_betweenness_mean, type=DOUBLE, repetitiontype=OPTIONAL" db:"partner_betweenness_mean,omitempty"`
	PartnerCount           int32    `csv:"partner_count" json:"partner_count" parquet:"name=partner_count, type=INT32" db:"partner_count"`

	InitialInvestmentAmount float64 `csv:"initial_investment_amount" json:"initial_investment_amount" parquet:"name=initial_investment_amount, type=DOUBLE" db:"initial_investment_amount"`
	InitialFirmAge          *int32  `csv:"initial_firm_age" json:"initial_firm_age" parquet:"name=initial_firm_age, type=INT32, repetitiontype=OPTIONAL" db:"initial_firm_age,omitempty"`
}

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

package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// SaveDB upserts one panel row, grounded on data/asset.go's SaveDB: a single
// parameterized INSERT ... ON CONFLICT DO UPDATE inside the caller's
// transaction.
func (r Row) SaveDB(ctx context.Context, tbl string, tx pgx.Tx) error {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		firm_id, firm_name, year, firm_state,
		rolling_deal_count, rolling_unique_company_count, rolling_amount_sum,
		funds_still_open_count, funds_still_open_mean_size,
		degree, betweenness, "constraint", ego_density,
		power_beta_0, power_beta_075, power_beta_099, power_max, in_network,
		geo_dist_copartner_mean, geo_dist_copartner_min, geo_dist_copartner_max,
		geo_dist_copartner_std, geo_dist_copartner_weighted_mean,
		geo_dist_company_mean, geo_dist_company_min, geo_dist_company_max,
		geo_dist_company_std, geo_dist_company_weighted_mean,
		ipo_count, mna_count, all_exits,
		reputation, missing_fund_data,
		rep_portfolio_count, rep_total_invested, rep_avg_fund, rep_funds_raised,
		rep_exits, rep_funding_age,
		market_heat, new_venture_demand,
		firm_age, industry_blau, firm_hq, hq_california, hq_massachusetts, hq_new_york,
		early_stage_ratio, investment_amount, investment_number
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
		$31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41, $42, $43, $44,
		$45, $46, $47, $48, $49, $50
	) ON CONFLICT (firm_id, year) DO UPDATE SET
		firm_name = EXCLUDED.firm_name,
		firm_state = EXCLUDED.firm_state,
		rolling_deal_count = EXCLUDED.rolling_deal_count,
		rolling_unique_company_count = EXCLUDED.rolling_unique_company_count,
		rolling_amount_sum = EXCLUDED.rolling_amount_sum,
		funds_still_open_count = EXCLUDED.funds_still_open_count,
		funds_still_open_mean_size = EXCLUDED.funds_still_open_mean_size,
		degree = EXCLUDED.degree,
		betweenness = EXCLUDED.betweenness,
		"constraint" = EXCLUDED."constraint",
		ego_density = EXCLUDED.ego_density,
		power_beta_0 = EXCLUDED.power_beta_0,
		power_beta_075 = EXCLUDED.power_beta_075,
		power_beta_099 = EXCLUDED.power_beta_099,
		power_max = EXCLUDED.power_max,
		in_network = EXCLUDED.in_network,
		geo_dist_copartner_mean = EXCLUDED.geo_dist_copartner_mean,
		geo_dist_copartner_min = EXCLUDED.geo_dist_copartner_min,
		geo_dist_copartner_max = EXCLUDED.geo_dist_copartner_max,
		geo_dist_copartner_std = EXCLUDED.geo_dist_copartner_std,
		geo_dist_copartner_weighted_mean = EXCLUDED.geo_dist_copartner_weighted_mean,
		geo_dist_company_mean = EXCLUDED.geo_dist_company_mean,
		geo_dist_company_min = EXCLUDED.geo_dist_company_min,
		geo_dist_company_max = EXCLUDED.geo_dist_company_max,
		geo_dist_company_std = EXCLUDED.geo_dist_company_std,
		geo_dist_company_weighted_mean = EXCLUDED.geo_dist_company_weighted_mean,
		ipo_count = EXCLUDED.ipo_count,
		mna_count = EXCLUDED.mna_count,
		all_exits = EXCLUDED.all_exits,
		reputation = EXCLUDED.reputation,
		missing_fund_data = EXCLUDED.missing_fund_data,
		rep_portfolio_count = EXCLUDED.rep_portfolio_count,
		rep_total_invested = EXCLUDED.rep_total_invested,
		rep_avg_fund = EXCLUDED.rep_avg_fund,
		rep_funds_raised = EXCLUDED.rep_funds_raised,
		rep_exits = EXCLUDED.rep_exits,
		rep_funding_age = EXCLUDED.rep_funding_age,
		market_heat = EXCLUDED.market_heat,
		new_venture_demand = EXCLUDED.new_venture_demand,
		firm_age = EXCLUDED.firm_age,
		industry_blau = EXCLUDED.industry_blau,
		firm_hq = EXCLUDED.firm_hq,
		hq_california = EXCLUDED.hq_california,
		hq_massachusetts = EXCLUDED.hq_massachusetts,
		hq_new_york = EXCLUDED.hq_new_york,
		early_stage_ratio = EXCLUDED.early_stage_ratio,
		investment_amount = EXCLUDED.investment_amount,
		investment_number = EXCLUDED.investment_number
	`, tbl)

	_, err := tx.Exec(ctx, sql,
		r.FirmID, r.FirmName, r.Year, r.FirmState,
		r.RollingDealCount, r.RollingUniqueCompany, r.RollingAmountSum,
		r.FundsStillOpenCount, r.FundsStillOpenMean,
		r.Degree, r.Betweenness, r.Constraint, r.EgoDensity,
		r.PowerB0, r.PowerB075, r.PowerB099, r.PowerMax, r.InNetwork,
		r.GeoDistCopartnerMean, r.GeoDistCopartnerMin, r.GeoDistCopartnerMax,
		r.GeoDistCopartnerStd, r.GeoDistCopartnerWeightedMean,
		r.GeoDistCompanyMean, r.GeoDistCompanyMin, r.GeoDistCompanyMax,
		r.GeoDistCompanyStd, r.GeoDistCompanyWeightedMean,
		r.IPOCount, r.MnACount, r.AllExits,
		r.Reputation, r.MissingFundData,
		r.RepPortfolioCount, r.RepTotalInvested, r.RepAvgFund, r.RepFundsRaised,
		r.RepExits, r.RepFundingAge,
		r.MarketHeat, r.NewVentureDemand,
		r.FirmAge, r.IndustryBlau, r.FirmHQ, r.HQCalifornia, r.HQMassachusetts, r.HQNewYork,
		r.EarlyStageRatio, r.InvestmentAmount, r.InvestmentNumber,
	)
	return err
}

// Sink streams panel rows into Postgres. Grounded on library/database.go's
// SaveObservations: one long-lived consumer goroutine draining a channel,
// signalling completion via a sync.WaitGroup.
type Sink struct {
	Pool  *pgxpool.Pool
	Table string
}

// Run continuously drains queue, upserting each row in its own transaction,
// until the channel is closed; mirrors SaveObservations' for-range-then-
// wg.Done() shape.
func (s *Sink) Run(ctx context.Context, queue <-chan Row, wg *sync.WaitGroup) {
	defer wg.Done()

	for row := range queue {
		tx, err := s.Pool.Begin(ctx)
		if err != nil {
			log.Error().Err(err).Msg("cannot begin transaction for panel row")
			continue
		}

		if err := row.SaveDB(ctx, s.Table, tx); err != nil {
			log.Error().Err(err).Int32("firmID", row.FirmID).Int32("year", row.Year).Msg("cannot save panel row")
			tx.Rollback(ctx)
			continue
		}

		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("cannot commit panel row transaction")
		}
	}
}

// LoadAll reads every panel row back out of tbl, using scany's struct-tag
// scanning (db tags on Row) rather than hand-written rows.Scan plumbing.
func LoadAll(ctx context.Context, pool *pgxpool.Pool, tbl string) ([]Row, error) {
	var rows []Row
	sql := fmt.Sprintf("SELECT * FROM %s ORDER BY firm_id, year", tbl)
	if err := pgxscan.Select(ctx, pool, &rows, sql); err != nil {
		return nil, fmt.Errorf("load panel rows: %w", err)
	}
	return rows, nil
}

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

// Package config holds the pipeline's tunable options (SPEC_FULL.md §6),
// loaded via viper the way cmd/root.go loads panelgen's configuration.
package config

import (
	"runtime"

	"github.com/spf13/viper"
	"github.com/vcresearch/panelgen/internal/centrality"
)

// Config is the complete set of recognized pipeline options, with the
// defaults from spec §6.
type Config struct {
	WindowYears      int
	EdgeCutpoint     int
	ImprintingPeriod int

	BetweennessK              int
	UseApproximateBetweenness bool

	PowerBetaValues []float64

	NormalizeDegree      bool
	NormalizeBetweenness bool
	NormalizePower       bool
	NormalizeConstraint  bool

	UseWeightedDegree      bool
	UseWeightedBetweenness bool
	UseWeightedPower       bool
	UseWeightedConstraint  bool

	ConstraintFillNA   bool
	ConstraintCapAtOne bool

	LookbackYears int
	USNationCode  string

	ParallelWorkers int
	RandomSeed      int64

	// Ambient, not in spec's options table but required to run the CLI.
	InputDir     string
	OutputDir    string
	OutputFormat string // "parquet" (default), "csv", or "postgres"
	DBUrl        string
}

// Default matches the defaults enumerated in spec §6.
func Default() Config {
	return Config{
		WindowYears:               5,
		EdgeCutpoint:              1,
		ImprintingPeriod:          3,
		BetweennessK:              500,
		UseApproximateBetweenness: true,
		PowerBetaValues:           []float64{0, 0.75, 0.99},
		NormalizeDegree:           false,
		NormalizeBetweenness:      true,
		NormalizePower:            true,
		NormalizeConstraint:       false,
		ConstraintFillNA:          true,
		ConstraintCapAtOne:        true,
		LookbackYears:             0,
		USNationCode:              "US",
		ParallelWorkers:           runtime.NumCPU(),
		RandomSeed:                123,
	}
}

// Load builds a Config from viper, falling back to defaults for any key
// that was never set in the TOML config file or environment, mirroring
// cmd/root.go's viper.GetString/viper.GetBool usage.
func Load(v *viper.Viper) Config {
	cfg := Default()

	if v.IsSet("pipeline.window_years") {
		cfg.WindowYears = v.GetInt("pipeline.window_years")
	}
	if v.IsSet("pipeline.edge_cutpoint") {
		cfg.EdgeCutpoint = v.GetInt("pipeline.edge_cutpoint")
	}
	if v.IsSet("pipeline.imprinting_period") {
		cfg.ImprintingPeriod = v.GetInt("pipeline.imprinting_period")
	}
	if v.IsSet("pipeline.betweenness_k") {
		cfg.BetweennessK = v.GetInt("pipeline.betweenness_k")
	}
	if v.IsSet("pipeline.use_approximate_betweenness") {
		cfg.UseApproximateBetweenness = v.GetBool("pipeline.use_approximate_betweenness")
	}
	if v.IsSet("pipeline.power_beta_values") {
		if raw, ok := v.Get("pipeline.power_beta_values").([]interface{}); ok {
			values := make([]float64, 0, len(raw))
			for _, item := range raw {
				switch n := item.(type) {
				case float64:
					values = append(values, n)
				case int64:
					values = append(values, float64(n))
				case int:
					values = append(values, float64(n))
				}
			}
			if len(values) > 0 {
				cfg.PowerBetaValues = values
			}
		}
	}
	if v.IsSet("pipeline.normalize_degree") {
		cfg.NormalizeDegree = v.GetBool("pipeline.normalize_degree")
	}
	if v.IsSet("pipeline.normalize_betweenness") {
		cfg.NormalizeBetweenness = v.GetBool("pipeline.normalize_betweenness")
	}
	if v.IsSet("pipeline.normalize_power") {
		cfg.NormalizePower = v.GetBool("pipeline.normalize_power")
	}
	if v.IsSet("pipeline.normalize_constraint") {
		cfg.NormalizeConstraint = v.GetBool("pipeline.normalize_constraint")
	}
	if v.IsSet("pipeline.use_weighted_degree") {
		cfg.UseWeightedDegree = v.GetBool("pipeline.use_weighted_degree")
	}
	if v.IsSet("pipeline.use_weighted_betweenness") {
		cfg.UseWeightedBetweenness = v.GetBool("pipeline.use_weighted_betweenness")
	}
	if v.IsSet("pipeline.use_weighted_power") {
		cfg.UseWeightedPower = v.GetBool("pipeline.use_weighted_power")
	}
	if v.IsSet("pipeline.use_weighted_constraint") {
		cfg.UseWeightedConstraint = v.GetBool("pipeline.use_weighted_constraint")
	}
	if v.IsSet("pipeline.constraint_fill_na") {
		cfg.ConstraintFillNA = v.GetBool("pipeline.constraint_fill_na")
	}
	if v.IsSet("pipeline.constraint_cap_at_one") {
		cfg.ConstraintCapAtOne = v.GetBool("pipeline.constraint_cap_at_one")
	}
	if v.IsSet("pipeline.lookback_years") {
		cfg.LookbackYears = v.GetInt("pipeline.lookback_years")
	}
	if v.IsSet("pipeline.us_nation_code") {
		cfg.USNationCode = v.GetString("pipeline.us_nation_code")
	}
	if v.IsSet("pipeline.parallel_workers") {
		cfg.ParallelWorkers = v.GetInt("pipeline.parallel_workers")
	}
	if v.IsSet("pipeline.random_seed") {
		cfg.RandomSeed = v.GetInt64("pipeline.random_seed")
	}

	cfg.InputDir = v.GetString("default.input_dir")
	cfg.OutputDir = v.GetString("default.output_dir")
	cfg.OutputFormat = v.GetString("default.output_format")
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "parquet"
	}
	cfg.DBUrl = v.GetString("db.url")

	return cfg
}

// CentralityConfig projects the relevant subset of Config into
// centrality.Config.
func (c Config) CentralityConfig() centrality.Config {
	return centrality.Config{
		UseWeightedDegree:         c.UseWeightedDegree,
		UseWeightedBetweenness:    c.UseWeightedBetweenness,
		UseWeightedPower:          c.UseWeightedPower,
		UseWeightedConstraint:     c.UseWeightedConstraint,
		NormalizeDegree:           c.NormalizeDegree,
		NormalizeBetweenness:      c.NormalizeBetweenness,
		NormalizePower:            c.NormalizePower,
		NormalizeConstraint:       c.NormalizeConstraint,
		ConstraintFillNA:          c.ConstraintFillNA,
		ConstraintCapAtOne:        c.ConstraintCapAtOne,
		UseApproximateBetweenness: c.UseApproximateBetweenness,
		BetweennessK:              c.BetweennessK,
		PowerBetaMultipliers:      c.PowerBetaValues,
		RandomSeed:                c.RandomSeed,
	}
}

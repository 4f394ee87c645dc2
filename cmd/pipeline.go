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
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vcresearch/panelgen/internal/config"
	"github.com/vcresearch/panelgen/internal/geo"
	"github.com/vcresearch/panelgen/internal/pipeline"
)

var geoTableFile string

// loadConfig assembles the pipeline config from viper alone, mirroring
// cmd/root.go's reliance on a package-level viper instance.
func loadConfig() config.Config {
	return config.Load(viper.GetViper())
}

// loadGeoTable reads an optional zip->lat/lng lookup table from a JSON file
// (object of "zip": {"lat":.., "lng":..}); an empty/missing path yields an
// empty table, so every geo distance resolves as unknown rather than erroring.
func loadGeoTable(path string) map[string]geo.Coordinate {
	table := make(map[string]geo.Coordinate)
	if path == "" {
		return table
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not read geo table, distances will be unresolved")
		return table
	}

	if err := json.Unmarshal(data, &table); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not parse geo table, distances will be unresolved")
		return make(map[string]geo.Coordinate)
	}
	return table
}

func runFullPipeline() *pipeline.Result {
	runID := uuid.New()
	log.Info().Str("runID", runID.String()).Msg("starting pipeline run")

	cfg := loadConfig()
	geoTable := loadGeoTable(geoTableFile)

	res, err := pipeline.Run(cfg, geoTable)
	if err != nil {
		log.Fatal().Str("runID", runID.String()).Err(err).Msg("pipeline run failed")
	}

	log.Info().Str("runID", runID.String()).Msg("pipeline run finished")
	return res
}

func addGeoTableFlag(c *cobra.Command) {
	c.Flags().StringVar(&geoTableFile, "geo-table", "", "path to a JSON zip->{lat,lng} lookup table")
}

// allCmd runs the full pipeline and writes the panel to every configured
// sink, mirroring cmd/run.go's daemon-vs-one-shot dispatch collapsed to a
// single full-batch run.
var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the complete pipeline and write the panel",
	Run: func(cmd *cobra.Command, args []string) {
		res := runFullPipeline()

		cfg := loadConfig()
		if cfg.OutputDir == "" {
			cfg.OutputDir = "."
		}
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("could not create output directory")
		}

		if err := writePanelOutputs(cfg.OutputDir, res); err != nil {
			log.Fatal().Err(err).Msg("could not write panel outputs")
		}

		log.Info().Int("firmYearRows", len(res.Rows)).Int("initialRows", len(res.InitialRows)).Msg("pipeline complete")
	},
}

func init() {
	rootCmd.AddCommand(allCmd)
	addGeoTableFlag(allCmd)
}

// printJSON is the shared leaf for every per-stage subcommand below: run the
// pipeline, print the requested stage's intermediate product as one indented
// JSON document,
// and stop -- trading strict incremental re-execution for one well-tested
// assembly path (internal/pipeline.Run), matching the "barrier between
// stages" scheduling model rather than ad hoc per-command plumbing.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("could not encode output")
	}
}

func stageCommand(use, short string, project func(*pipeline.Result) any) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			res := runFullPipeline()
			printJSON(project(res))
		},
	}
	addGeoTableFlag(c)
	return c
}

func init() {
	rootCmd.AddCommand(stageCommand("ingest", "Load input CSVs and print store summary", func(r *pipeline.Result) any {
		return map[string]any{
			"numFirms":     len(r.Store.Firms),
			"numCompanies": len(r.Store.Companies),
			"numRounds":    len(r.Store.Rounds),
			"numFunds":     len(r.Store.Funds),
			"minYear":      r.Store.MinYear,
			"maxYear":      r.Store.MaxYear,
		}
	}))

	rootCmd.AddCommand(stageCommand("geo", "Print co-partner/co-investee geographic distance statistics", func(r *pipeline.Result) any {
		return map[string]any{"partnerDistances": r.PartnerDist, "companyDistances": r.CompanyDist}
	}))

	rootCmd.AddCommand(stageCommand("rolling", "Print rolling deal-flow aggregates", func(r *pipeline.Result) any {
		return map[string]any{"rolling": r.Rolling, "fundsStillOpen": r.StillOpen}
	}))

	rootCmd.AddCommand(stageCommand("network", "Print per-year co-investment graph sizes", func(r *pipeline.Result) any {
		sizes := make(map[int]map[string]int, len(r.Graphs))
		for y, g := range r.Graphs {
			sizes[y] = map[string]int{"nodes": g.NumNodes(), "edges": g.NumEdges()}
		}
		return sizes
	}))

	rootCmd.AddCommand(stageCommand("centrality", "Print per-year centrality measures", func(r *pipeline.Result) any {
		return r.CentralityByYear
	}))

	rootCmd.AddCommand(stageCommand("pairs", "Print co-partner pair distance statistics", func(r *pipeline.Result) any {
		return r.PartnerDist
	}))

	rootCmd.AddCommand(stageCommand("performance", "Print per-firm-year exit counts", func(r *pipeline.Result) any {
		return r.Performance
	}))

	rootCmd.AddCommand(stageCommand("reputation", "Print per-firm-year reputation scores", func(r *pipeline.Result) any {
		return r.Reputation
	}))

	rootCmd.AddCommand(stageCommand("market", "Print market-condition series", func(r *pipeline.Result) any {
		return r.MarketSeries
	}))

	rootCmd.AddCommand(stageCommand("imprinting", "Print the initial-period table", func(r *pipeline.Result) any {
		return r.InitialRows
	}))
}

func writePanelOutputs(outDir string, res *pipeline.Result) error {
	cfg := loadConfig()

	switch cfg.OutputFormat {
	case "csv":
		return writeCSVOutputs(outDir, res)
	case "postgres":
		return fmt.Errorf("postgres output is not written by 'all'; use init + the 'save' command")
	default:
		return writeParquetOutputs(outDir, res)
	}
}

func writeParquetOutputs(outDir string, res *pipeline.Result) error {
	panelFn := filepath.Join(outDir, "panel.parquet")
	initialFn := filepath.Join(outDir, "initial_period.parquet")

	if err := writeParquet(res, panelFn, initialFn); err != nil {
		return err
	}
	return nil
}

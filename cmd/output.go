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
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vcresearch/panelgen/internal/pipeline"
	"github.com/vcresearch/panelgen/internal/panel"
)

func writeParquet(res *pipeline.Result, panelFn, initialFn string) error {
	if err := panel.WriteParquet(res.Rows, panelFn); err != nil {
		return fmt.Errorf("write panel parquet: %w", err)
	}
	if err := panel.WriteInitialParquet(res.InitialRows, initialFn); err != nil {
		return fmt.Errorf("write initial-period parquet: %w", err)
	}
	return nil
}

func writeCSVOutputs(outDir string, res *pipeline.Result) error {
	if err := panel.WriteCSV(res.Rows, filepath.Join(outDir, "panel.csv")); err != nil {
		return fmt.Errorf("write panel csv: %w", err)
	}
	return nil
}

// saveCmd runs the full pipeline and streams the resulting rows into
// Postgres through panel.Sink, grounded on library/database.go's
// SaveObservations channel-consumer pattern driven from cmd/run.go.
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Run the pipeline and upsert the panel into PostgreSQL",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.DBUrl == "" {
			log.Fatal().Msg("db.url is not configured; set it in the config file, PANELGEN_DB_URL, or run 'panelgen init'")
		}

		res := runFullPipeline()

		ctx := context.Background()
		pool, err := pgxpool.New(ctx, cfg.DBUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer pool.Close()

		sink := &panel.Sink{Pool: pool, Table: "panel"}

		queue := make(chan panel.Row)
		var wg sync.WaitGroup
		wg.Add(1)
		go sink.Run(ctx, queue, &wg)

		for _, row := range res.Rows {
			queue <- row
		}
		close(queue)
		wg.Wait()

		log.Info().Int("numRows", len(res.Rows)).Msg("panel saved to database")
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	addGeoTableFlag(saveCmd)
}

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
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vcresearch/panelgen/db"
)

var initDBUrl string

// initCmd creates the panel/initial_period schema in the target database
// and remembers the connection string in the user's config file, grounded
// on the teacher's init.go.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Run database migrations and save connection settings",
	Run: func(cmd *cobra.Command, args []string) {
		if initDBUrl == "" {
			log.Fatal().Msg("--db-url is required")
		}
		if _, err := pgx.ParseConfig(initDBUrl); err != nil {
			log.Fatal().Err(err).Msg("invalid database DSN")
		}

		log.Info().Msg("running database migrations")
		migrateURL := strings.Replace(initDBUrl, "postgres://", "pgx5://", 1)
		if err := db.Migrate(migrateURL); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("panel schema created")

		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".panelgen.toml")
		configData, err := toml.Marshal(map[string]any{
			"db": map[string]string{"url": initDBUrl},
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration")
		}

		if err := os.WriteFile(configFN, configData, 0o644); err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration")
		}

		log.Info().Str("ConfigFile", configFN).Msg("saved database connection info")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initDBUrl, "db-url", "", "PostgreSQL connection string")
}

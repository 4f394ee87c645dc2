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
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vcresearch/panelgen/internal/pipeline"
)

// infoCmd summarizes the input tables without running the full pipeline,
// grounded on the teacher's info.go (there rendering a library summary
// document; here printing straight to the terminal since the markdown
// renderer it used is not part of this domain's dependency stack).
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize the configured input tables",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		s, err := pipeline.Ingest(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("could not ingest input tables")
		}

		fmt.Printf("Firms:     %d\n", len(s.Firms))
		fmt.Printf("Companies: %d\n", len(s.Companies))
		fmt.Printf("Rounds:    %d\n", len(s.Rounds))
		fmt.Printf("Funds:     %d\n", len(s.Funds))
		fmt.Printf("Years:     %d-%d\n", s.MinYear, s.MaxYear)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

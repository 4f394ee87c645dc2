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
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// WriteParquet writes the panel to fn, grounded on
// provider/zacks.go's zacksSaveToParquet.
func WriteParquet(rows []Row, fn string) error {
	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create local parquet file")
		return err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(Row), 4)
	if err != nil {
		log.Error().Err(err).Msg("parquet writer init failed")
		return err
	}

	pw.RowGroupSize = 128 * 1024 * 1024
	pw.PageSize = 8 * 1024
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for _, r := range rows {
		if err := pw.Write(r); err != nil {
			log.Error().Err(err).Int32("firmID", r.FirmID).Int32("year", r.Year).Msg("parquet write failed for row")
		}
	}

	if err := pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("parquet write failed")
		return err
	}

	log.Info().Int("numRows", len(rows)).Str("path", fn).Msg("wrote panel parquet file")
	return nil
}

// WriteInitialParquet writes the initial-period table to fn.
func WriteInitialParquet(rows []InitialRow, fn string) error {
	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		return fmt.Errorf("create local parquet file: %w", err)
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(InitialRow), 4)
	if err != nil {
		return fmt.Errorf("parquet writer init: %w", err)
	}

	pw.RowGroupSize = 128 * 1024 * 1024
	pw.PageSize = 8 * 1024
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for _, r := range rows {
		if err := pw.Write(r); err != nil {
			log.Error().Err(err).Int32("firmID", r.FirmID).Msg("parquet write failed for initial-period row")
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("parquet write stop: %w", err)
	}

	log.Info().Int("numRows", len(rows)).Str("path", fn).Msg("wrote initial-period parquet file")
	return nil
}

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
	"os"

	"github.com/gocarina/gocsv"
)

// WriteCSV dumps the panel to a plain CSV file using the row's csv tags,
// handy for spot-checking a run without a database or parquet reader.
func WriteCSV(rows []Row, fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("marshal panel csv: %w", err)
	}
	return nil
}

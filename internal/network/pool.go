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
package network

import (
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/vcresearch/panelgen/internal/store"
)

// buildAllPooled fans graph construction for each year out across a
// conc.Pool bounded at `workers` goroutines, per SPEC_FULL.md §5's
// work-stealing-pool design. Each worker writes into a private map entry;
// results are joined only after pool.Wait returns (the stage barrier).
func buildAllPooled(rounds []store.Round, years []int, cfg Config, workers int) map[int]*Graph {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	out := make(map[int]*Graph, len(years))

	p := pool.New().WithMaxGoroutines(workers)
	for _, year := range years {
		year := year
		p.Go(func() {
			g := Build(rounds, year, cfg)
			mu.Lock()
			out[year] = g
			mu.Unlock()
		})
	}
	p.Wait()

	return out
}

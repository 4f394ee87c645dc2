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

// Package geo resolves postal codes to coordinates and computes great-circle
// distances. The lookup table is the one process-global mutable structure
// allowed by the design (SPEC_FULL.md §10 "Global mutable state"); it is a
// lock-free concurrent map in the style of figi/database.go's figiMap.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alphadose/haxmap"
)

// EarthRadiusKM is used by Haversine, per spec §4.2.
const EarthRadiusKM = 6371.0

// Coordinate is a resolved (lat, lng) pair.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Resolver memoizes postal-code -> coordinate lookups. Safe for concurrent
// use by multiple worker-pool goroutines without external locking.
type Resolver struct {
	cache *haxmap.Map[string, Coordinate]
	known *haxmap.Map[string, bool] // tracks "unknown" results separately from zero-value Coordinate
	table map[string]Coordinate     // backing zip->coordinate reference table, built once at startup
}

// NewResolver builds a resolver over a static zip->coordinate reference
// table (e.g. loaded from a zip-code gazetteer at startup).
func NewResolver(table map[string]Coordinate) *Resolver {
	return &Resolver{
		cache: haxmap.New[string, Coordinate](),
		known: haxmap.New[string, bool](),
		table: table,
	}
}

// NormalizeZip applies the normalization rules from spec §4.2 in order:
// discard if not representable as a whole number, strip non-digits, left-pad
// to 5 digits, reject if the result isn't exactly 5 digits.
func NormalizeZip(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	// A bare float-looking zip ("12345.0") is representable as a whole
	// number; anything with a non-zero fractional part is not.
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if f != float64(int64(f)) {
			return "", false
		}
		raw = strconv.FormatInt(int64(f), 10)
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if s == "" {
		return "", false
	}
	if len(s) < 5 {
		s = strings.Repeat("0", 5-len(s)) + s
	}
	if len(s) != 5 {
		return "", false
	}
	return s, true
}

// Resolve returns the (lat, lng) for a raw postal code, or ok=false if the
// code cannot be normalized or is absent from the reference table.
// Resolution is memoized: repeat lookups for the same raw code are O(1)
// after the first.
func (r *Resolver) Resolve(raw string) (Coordinate, bool) {
	if c, ok := r.cache.Get(raw); ok {
		return c, true
	}
	if _, wasUnknown := r.known.Get(raw); wasUnknown {
		return Coordinate{}, false
	}

	zip, ok := NormalizeZip(raw)
	if !ok {
		r.known.Set(raw, true)
		return Coordinate{}, false
	}

	coord, ok := r.table[zip]
	if !ok {
		r.known.Set(raw, true)
		return Coordinate{}, false
	}

	r.cache.Set(raw, coord)
	return coord, true
}

// Haversine returns the great-circle distance between two coordinates in
// kilometers. Haversine(a,a) = 0; symmetric; monotone in both input
// differences, per spec §8.
func Haversine(a, b Coordinate) float64 {
	const toRad = 3.141592653589793 / 180.0
	lat1, lat2 := a.Lat*toRad, b.Lat*toRad
	dLat := (b.Lat - a.Lat) * toRad
	dLng := (b.Lng - a.Lng) * toRad

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	return 2 * EarthRadiusKM * math.Asin(math.Sqrt(h))
}

// DistanceBetweenZips resolves both raw postal codes and returns the
// haversine distance; ok is false if either code is unresolvable, in which
// case the result MUST be treated as absent, never 0, per spec §4.2.
func (r *Resolver) DistanceBetweenZips(rawA, rawB string) (float64, bool) {
	a, ok := r.Resolve(rawA)
	if !ok {
		return 0, false
	}
	b, ok := r.Resolve(rawB)
	if !ok {
		return 0, false
	}
	return Haversine(a, b), true
}

// String is a debug helper for logging unresolved codes.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Lat, c.Lng)
}

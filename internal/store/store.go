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
package store

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// Store is the canonical, read-only-after-ingest holder of all input
// tables. It is safe for concurrent readers once Build has returned.
type Store struct {
	Firms     []Firm
	Companies []Company
	Rounds    []Round // ordered by Year ascending
	Funds     []Fund

	firmIDByName    map[string]FirmID
	companyIDByName map[string]CompanyID

	MinYear int
	MaxYear int
}

// Builder accumulates raw rows before dense ids are assigned.
type Builder struct {
	firmByName    map[string]*Firm
	companyByName map[string]*Company
	rounds        []Round
	stagedRoundNames []stagedRoundName
	funds         []Fund
	stagedFundNames  []string

	droppedUndisclosedFirms   int
	droppedUndisclosedCompany int
	droppedDuplicateRounds    int
}

type stagedRoundName = [2]string

func NewBuilder() *Builder {
	return &Builder{
		firmByName:    make(map[string]*Firm),
		companyByName: make(map[string]*Company),
	}
}

// nonNullCount is used by the dedup policy: among rows sharing a name, keep
// the row with the largest non-null column count (ties -> first).
func nonNullCountFirm(f *Firm) int {
	n := 0
	if f.FoundingYear != nil {
		n++
	}
	if f.State != "" {
		n++
	}
	if f.Zip != "" {
		n++
	}
	if f.Nation != "" {
		n++
	}
	if f.Classification != "" {
		n++
	}
	return n
}

func nonNullCountCompany(c *Company) int {
	n := 0
	if c.Industry != "" {
		n++
	}
	if c.Situation != "" {
		n++
	}
	if c.SituationDate != nil {
		n++
	}
	if c.IPODate != nil {
		n++
	}
	if c.Zip != "" {
		n++
	}
	if c.Nation != "" {
		n++
	}
	return n
}

// AddFirm registers a firm row, applying the Undisclosed-drop and
// keep-most-complete dedup policy from spec §3.
func (b *Builder) AddFirm(f Firm) {
	if f.Name == UndisclosedFirmName {
		b.droppedUndisclosedFirms++
		return
	}
	existing, ok := b.firmByName[f.Name]
	if !ok {
		cp := f
		b.firmByName[f.Name] = &cp
		return
	}
	if nonNullCountFirm(&f) > nonNullCountFirm(existing) {
		cp := f
		b.firmByName[f.Name] = &cp
	}
}

// AddCompany registers a company row with the same dedup policy as firms.
func (b *Builder) AddCompany(c Company) {
	if c.Name == UndisclosedCompanyName {
		b.droppedUndisclosedCompany++
		return
	}
	existing, ok := b.companyByName[c.Name]
	if !ok {
		cp := c
		b.companyByName[c.Name] = &cp
		return
	}
	if nonNullCountCompany(&c) > nonNullCountCompany(existing) {
		cp := c
		b.companyByName[c.Name] = &cp
	}
}

// AddRound stages a round row keyed by firm/company name; ids are resolved
// in Build once the dense id tables exist.
func (b *Builder) AddRound(firmName, companyName string, r Round) {
	r.FirmID = FirmID(-1)
	r.CompanyID = CompanyID(-1)
	b.rounds = append(b.rounds, r)
	b.stagedRoundNames = append(b.stagedRoundNames, stagedRoundName{firmName, companyName})
}

// AddFund stages a fund row keyed by firm name.
func (b *Builder) AddFund(firmName string, f Fund) {
	b.stagedFundNames = append(b.stagedFundNames, firmName)
	b.funds = append(b.funds, f)
}

// Build assigns dense ids, removes exact-duplicate rounds, sorts rounds by
// year, and computes the dense year index.
func (b *Builder) Build() *Store {
	s := &Store{
		firmIDByName:    make(map[string]FirmID),
		companyIDByName: make(map[string]CompanyID),
	}

	firmNames := make([]string, 0, len(b.firmByName))
	for name := range b.firmByName {
		firmNames = append(firmNames, name)
	}
	sort.Strings(firmNames)
	for _, name := range firmNames {
		f := *b.firmByName[name]
		f.ID = FirmID(len(s.Firms))
		s.firmIDByName[name] = f.ID
		s.Firms = append(s.Firms, f)
	}

	companyNames := make([]string, 0, len(b.companyByName))
	for name := range b.companyByName {
		companyNames = append(companyNames, name)
	}
	sort.Strings(companyNames)
	for _, name := range companyNames {
		c := *b.companyByName[name]
		c.ID = CompanyID(len(s.Companies))
		s.companyIDByName[name] = c.ID
		s.Companies = append(s.Companies, c)
	}

	// Dedup keys on the full row (spec §3: "exact-duplicate rows MUST be
	// removed", grounded on data/loader.py's bare round_df.drop_duplicates()
	// over every column), not a firm/company/year/round_number subset --
	// two distinct rounds that happen to share those four fields but differ
	// in date or amount are both kept.
	type key struct {
		firm            FirmID
		company         CompanyID
		year            int
		num             int
		roundDate       int64
		amountDisclosed float64
		hasDisclosed    bool
		amountEstimated float64
		hasEstimated    bool
		stage           string
	}
	seen := make(map[key]bool, len(b.rounds))
	for i, r := range b.rounds {
		names := b.stagedRoundNames[i]
		firmID, ok := s.firmIDByName[names[0]]
		if !ok {
			continue // firm was dropped (Undisclosed) -- round drops with it
		}
		companyID, ok := s.companyIDByName[names[1]]
		if !ok {
			continue
		}
		r.FirmID = firmID
		r.CompanyID = companyID

		k := key{firm: firmID, company: companyID, year: r.Year, num: r.RoundNumber, roundDate: r.RoundDate.Unix(), stage: r.StageLevel1}
		if r.AmountDisclosed != nil {
			k.hasDisclosed, k.amountDisclosed = true, *r.AmountDisclosed
		}
		if r.AmountEstimated != nil {
			k.hasEstimated, k.amountEstimated = true, *r.AmountEstimated
		}
		if seen[k] {
			b.droppedDuplicateRounds++
			continue
		}
		seen[k] = true
		s.Rounds = append(s.Rounds, r)
	}

	sort.Slice(s.Rounds, func(i, j int) bool {
		if s.Rounds[i].Year != s.Rounds[j].Year {
			return s.Rounds[i].Year < s.Rounds[j].Year
		}
		if s.Rounds[i].FirmID != s.Rounds[j].FirmID {
			return s.Rounds[i].FirmID < s.Rounds[j].FirmID
		}
		return s.Rounds[i].CompanyID < s.Rounds[j].CompanyID
	})

	for i, name := range b.stagedFundNames {
		firmID, ok := s.firmIDByName[name]
		if !ok {
			continue
		}
		f := b.funds[i]
		f.FirmID = firmID
		s.Funds = append(s.Funds, f)
	}

	if len(s.Rounds) > 0 {
		s.MinYear = s.Rounds[0].Year
		s.MaxYear = s.Rounds[0].Year
		for _, r := range s.Rounds {
			if r.Year < s.MinYear {
				s.MinYear = r.Year
			}
			if r.Year > s.MaxYear {
				s.MaxYear = r.Year
			}
		}
	}

	log.Info().
		Int("droppedUndisclosedFirms", b.droppedUndisclosedFirms).
		Int("droppedUndisclosedCompanies", b.droppedUndisclosedCompany).
		Int("droppedDuplicateRounds", b.droppedDuplicateRounds).
		Int("firms", len(s.Firms)).
		Int("companies", len(s.Companies)).
		Int("rounds", len(s.Rounds)).
		Int("funds", len(s.Funds)).
		Msg("canonical store built")

	return s
}

// Years returns the dense [MinYear, MaxYear] index.
func (s *Store) Years() []int {
	if len(s.Rounds) == 0 {
		return nil
	}
	years := make([]int, 0, s.MaxYear-s.MinYear+1)
	for y := s.MinYear; y <= s.MaxYear; y++ {
		years = append(years, y)
	}
	return years
}

// FirmByID and CompanyByID are O(1) lookups on the dense id arrays.
func (s *Store) FirmByID(id FirmID) *Firm {
	if int(id) < 0 || int(id) >= len(s.Firms) {
		return nil
	}
	return &s.Firms[id]
}

func (s *Store) CompanyByID(id CompanyID) *Company {
	if int(id) < 0 || int(id) >= len(s.Companies) {
		return nil
	}
	return &s.Companies[id]
}

// ExitInfo derives (ipo_exit, mna_exit, exit_year) for a company, per C7.
func (s *Store) ExitInfo(c *Company) ExitInfo {
	var info ExitInfo
	info.IPOExit = c.Situation == SituationWentPublic && (c.SituationDate != nil || c.IPODate != nil)
	info.MnAExit = (c.Situation == SituationMerger || c.Situation == SituationAcquired) && c.SituationDate != nil

	switch {
	case info.IPOExit && c.IPODate != nil:
		info.ExitYear = c.IPODate.Year()
		info.HasExit = true
	case (info.IPOExit || info.MnAExit) && c.SituationDate != nil:
		info.ExitYear = c.SituationDate.Year()
		info.HasExit = true
	}
	return info
}

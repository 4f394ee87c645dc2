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

// Package ingest loads the four input tables (rounds, firms, companies,
// funds) from CSV into the canonical store (C11), grounded on
// provider/zacks.go's gocsv unmarshal pattern.
package ingest

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/vcresearch/panelgen/internal/store"
)

// excelEpoch is the spreadsheet-serial-date origin used by the firm/company
// tables, per spec §6.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseFlexibleDate accepts a calendar date (YYYY-MM-DD), a spreadsheet
// serial number, or dd.mm.yyyy (for fund closing dates), per spec §6.
func ParseFlexibleDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("02.01.2006", raw); err == nil {
		return &t, nil
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t := excelEpoch.AddDate(0, 0, int(serial))
		return &t, nil
	}
	return nil, fmt.Errorf("unparseable date %q", raw)
}

// FirmRecord mirrors the firm registry's CSV columns.
type FirmRecord struct {
	FirmName       string `csv:"firmname"`
	FirmFounding   string `csv:"firmfounding"`
	FirmState      string `csv:"firmstate"`
	FirmZip        string `csv:"firmzip"`
	FirmNation     string `csv:"firmnation"`
	Classification string `csv:"classification"`
}

// CompanyRecord mirrors the company registry's CSV columns.
type CompanyRecord struct {
	ComName     string `csv:"comname"`
	ComIndMnr   string `csv:"comindmnr"`
	ComSitu     string `csv:"comsitu"`
	DateSit     string `csv:"date_sit"`
	DateIPO     string `csv:"date_ipo"`
	ComZip      string `csv:"comzip"`
	ComNation   string `csv:"comnation"`
}

// RoundRecord mirrors the investment-rounds CSV columns.
type RoundRecord struct {
	FirmName                string `csv:"firmname"`
	ComName                  string `csv:"comname"`
	RoundDate                string `csv:"round_date"`
	RoundNumber              string `csv:"round_number"`
	RoundAmountDisclosedThou string `csv:"RoundAmountDisclosedThou"`
	RoundAmountEstimatedThou string `csv:"RoundAmountEstimatedThou"`
	RoundAmount              string `csv:"RoundAmount"`
	CompanyStageLevel1       string `csv:"CompanyStageLevel1"`
}

// FundRecord mirrors the fund table's CSV columns.
type FundRecord struct {
	FirmName           string `csv:"firmname"`
	FundName           string `csv:"fundname"`
	FundYear           string `csv:"fundyear"`
	InitialClosingDate string `csv:"initial_closing_date"`
	FundSize           string `csv:"fundsize"`
}

func parseOptionalFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseOptionalInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// LoadFirms reads the firm registry CSV and adds each row to b.
func LoadFirms(path string, b *store.Builder) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open firms file: %w", err)
	}
	defer f.Close()

	var records []*FirmRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return fmt.Errorf("unmarshal firms csv: %w", err)
	}

	for _, rec := range records {
		founding, err := ParseFlexibleDate(rec.FirmFounding)
		if err != nil {
			log.Warn().Str("firm", rec.FirmName).Err(err).Msg("unparseable firm founding date, treating as missing")
		}
		var foundingYear *int
		if founding != nil {
			y := founding.Year()
			foundingYear = &y
		}

		b.AddFirm(store.Firm{
			Name:           rec.FirmName,
			FoundingYear:   foundingYear,
			State:          rec.FirmState,
			Zip:            rec.FirmZip,
			Nation:         rec.FirmNation,
			Classification: rec.Classification,
		})
	}

	log.Info().Int("rows", len(records)).Str("path", path).Msg("loaded firms")
	return nil
}

// LoadCompanies reads the company registry CSV and adds each row to b.
func LoadCompanies(path string, b *store.Builder) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open companies file: %w", err)
	}
	defer f.Close()

	var records []*CompanyRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return fmt.Errorf("unmarshal companies csv: %w", err)
	}

	for _, rec := range records {
		situDate, err := ParseFlexibleDate(rec.DateSit)
		if err != nil {
			log.Warn().Str("company", rec.ComName).Err(err).Msg("unparseable situation date, treating as missing")
		}
		ipoDate, err := ParseFlexibleDate(rec.DateIPO)
		if err != nil {
			log.Warn().Str("company", rec.ComName).Err(err).Msg("unparseable ipo date, treating as missing")
		}

		b.AddCompany(store.Company{
			Name:          rec.ComName,
			Industry:      rec.ComIndMnr,
			Situation:     store.Situation(rec.ComSitu),
			SituationDate: situDate,
			IPODate:       ipoDate,
			Zip:           rec.ComZip,
			Nation:        rec.ComNation,
		})
	}

	log.Info().Int("rows", len(records)).Str("path", path).Msg("loaded companies")
	return nil
}

// LoadRounds reads the investment-rounds CSV and stages each row in b.
func LoadRounds(path string, b *store.Builder) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rounds file: %w", err)
	}
	defer f.Close()

	var records []*RoundRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return fmt.Errorf("unmarshal rounds csv: %w", err)
	}

	skipped := 0
	for _, rec := range records {
		date, err := ParseFlexibleDate(rec.RoundDate)
		if err != nil || date == nil {
			skipped++
			continue
		}
		roundNum := 0
		if n := parseOptionalInt(rec.RoundNumber); n != nil {
			roundNum = *n
		}

		b.AddRound(rec.FirmName, rec.ComName, store.Round{
			RoundDate:       *date,
			Year:            date.Year(),
			RoundNumber:     roundNum,
			AmountDisclosed: parseOptionalFloat(rec.RoundAmountDisclosedThou),
			AmountEstimated: parseOptionalFloat(rec.RoundAmountEstimatedThou),
			StageLevel1:     rec.CompanyStageLevel1,
		})
	}

	log.Info().Int("rows", len(records)).Int("skippedUnparseableDate", skipped).Str("path", path).Msg("loaded rounds")
	return nil
}

// LoadFunds reads the optional fund table CSV; absence of this file is a
// Degradation (not Fatal), per spec §7 -- callers decide whether to call
// this at all.
func LoadFunds(path string, b *store.Builder) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open funds file: %w", err)
	}
	defer f.Close()

	var records []*FundRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return fmt.Errorf("unmarshal funds csv: %w", err)
	}

	for _, rec := range records {
		year := 0
		if n := parseOptionalInt(rec.FundYear); n != nil {
			year = *n
		}
		var closingYear *int
		if closing, err := ParseFlexibleDate(rec.InitialClosingDate); err == nil && closing != nil {
			y := closing.Year()
			closingYear = &y
		}
		size := 0.0
		if s := parseOptionalFloat(rec.FundSize); s != nil {
			size = *s
		}

		b.AddFund(rec.FirmName, store.Fund{
			FundName:           rec.FundName,
			FundYear:           year,
			InitialClosingYear: closingYear,
			FundSize:           size,
		})
	}

	log.Info().Int("rows", len(records)).Str("path", path).Msg("loaded funds")
	return nil
}

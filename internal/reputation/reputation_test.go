package reputation

import (
	"math"
	"testing"
)

func TestComputeConstantColumnRescalesToFifty(t *testing.T) {
	inputs := map[Key]Inputs{
		{FirmID: 0, Year: 2020}: {PortfolioCount: 1, TotalInvested: 100},
		{FirmID: 1, Year: 2020}: {PortfolioCount: 1, TotalInvested: 100},
	}
	out := Compute(inputs)
	for k, row := range out {
		if row.Reputation != 50.0 {
			t.Errorf("firm %v Reputation = %f, want 50.0 for an identical pair", k, row.Reputation)
		}
	}
}

func TestComputeMissingFundDataFlag(t *testing.T) {
	inputs := map[Key]Inputs{
		{FirmID: 0, Year: 2020}: {PortfolioCount: 5, TotalInvested: 200},
		{FirmID: 1, Year: 2020}: {PortfolioCount: 1, TotalInvested: 10},
	}
	out := Compute(inputs)
	for k, row := range out {
		if !row.MissingFundData {
			t.Errorf("firm %v MissingFundData = false, want true (nil fund inputs)", k)
		}
	}
}

func TestComputeRanksHigherInputsHigher(t *testing.T) {
	inputs := map[Key]Inputs{
		{FirmID: 0, Year: 2020}: {PortfolioCount: 10, TotalInvested: 1000, ExitsInWindow: 3},
		{FirmID: 1, Year: 2020}: {PortfolioCount: 1, TotalInvested: 10, ExitsInWindow: 0},
	}
	out := Compute(inputs)
	hi := out[Key{FirmID: 0, Year: 2020}].Reputation
	lo := out[Key{FirmID: 1, Year: 2020}].Reputation
	if hi <= lo {
		t.Errorf("expected firm 0 (stronger inputs) to outrank firm 1: hi=%f lo=%f", hi, lo)
	}
}

func TestComputeYearsAreIndependent(t *testing.T) {
	inputs := map[Key]Inputs{
		{FirmID: 0, Year: 2019}: {PortfolioCount: 1},
		{FirmID: 1, Year: 2019}: {PortfolioCount: 1},
		{FirmID: 0, Year: 2020}: {PortfolioCount: 9},
		{FirmID: 1, Year: 2020}: {PortfolioCount: 1},
	}
	out := Compute(inputs)
	if out[Key{FirmID: 0, Year: 2019}].Reputation != 50.0 {
		t.Error("2019 should be computed independently of 2020's spread")
	}
	if math.IsNaN(out[Key{FirmID: 0, Year: 2020}].Reputation) {
		t.Error("unexpected NaN reputation score")
	}
}

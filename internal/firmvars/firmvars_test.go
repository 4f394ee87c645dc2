package firmvars

import (
	"math"
	"testing"

	"github.com/vcresearch/panelgen/internal/store"
)

func TestFirmAge(t *testing.T) {
	founding := 2000
	if age, ok := FirmAge(&founding, 2010); !ok || age != 10 {
		t.Errorf("FirmAge = (%d, %v), want (10, true)", age, ok)
	}
	if age, ok := FirmAge(&founding, 1995); !ok || age != 0 {
		t.Errorf("FirmAge before founding = (%d, %v), want (0, true) clamped", age, ok)
	}
	if _, ok := FirmAge(nil, 2010); ok {
		t.Error("expected ok=false when founding year is unknown")
	}
}

func TestIndustryBlauDiversified(t *testing.T) {
	industryOf := func(c store.CompanyID) string {
		return map[store.CompanyID]string{0: "Software", 1: "Biotech"}[c]
	}
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2020},
		{FirmID: 0, CompanyID: 1, Year: 2020},
	}
	out := IndustryBlau(rounds, industryOf)
	// Two distinct industries, one round each -> 1 - (0.5^2 + 0.5^2) = 0.5.
	if v := out[Key{FirmID: 0, Year: 2020}]; math.Abs(v-0.5) > 1e-9 {
		t.Errorf("IndustryBlau = %f, want 0.5", v)
	}
}

func TestIndustryBlauSingleIndustryIsZero(t *testing.T) {
	industryOf := func(store.CompanyID) string { return "Software" }
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2020},
		{FirmID: 0, CompanyID: 1, Year: 2020},
	}
	out := IndustryBlau(rounds, industryOf)
	if v := out[Key{FirmID: 0, Year: 2020}]; v != 0 {
		t.Errorf("IndustryBlau = %f, want 0 for a single industry", v)
	}
}

func TestHQDummies(t *testing.T) {
	if hq := HQDummies("CA"); !hq.CA || hq.MA || !hq.Combined {
		t.Errorf("HQDummies(CA) = %+v", hq)
	}
	if hq := HQDummies("TX"); hq.CA || hq.MA || hq.NY || hq.Combined {
		t.Errorf("HQDummies(TX) = %+v, want all false", hq)
	}
}

func TestEarlyStageRatio(t *testing.T) {
	early := map[string]bool{"Seed": true}
	rounds := []store.Round{
		{FirmID: 0, Year: 2020, StageLevel1: "Seed"},
		{FirmID: 0, Year: 2020, StageLevel1: "Growth"},
	}
	out := EarlyStageRatio(rounds, early)
	if v := out[Key{FirmID: 0, Year: 2020}]; v != 0.5 {
		t.Errorf("EarlyStageRatio = %f, want 0.5", v)
	}
}

func TestInvestmentAmountPrefersDisclosed(t *testing.T) {
	disclosed := 100.0
	estimated := 50.0
	rounds := []store.Round{
		{FirmID: 0, Year: 2020, AmountDisclosed: &disclosed},
		{FirmID: 0, Year: 2020, AmountEstimated: &estimated},
	}
	out := InvestmentAmount(rounds)
	if v := out[Key{FirmID: 0, Year: 2020}]; v != 150 {
		t.Errorf("InvestmentAmount = %f, want 150 (100 disclosed + 50 estimated fallback)", v)
	}
}

func TestInvestmentNumber(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, Year: 2020},
		{FirmID: 0, Year: 2020},
		{FirmID: 1, Year: 2020},
	}
	out := InvestmentNumber(rounds)
	if out[Key{FirmID: 0, Year: 2020}] != 2 {
		t.Errorf("InvestmentNumber(0,2020) = %d, want 2", out[Key{FirmID: 0, Year: 2020}])
	}
}

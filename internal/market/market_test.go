package market

import (
	"math"
	"testing"

	"github.com/vcresearch/panelgen/internal/store"
)

// TestMarketHeat covers S5: funds_raised = {2015:10, 2016:10, 2017:10,
// 2018:30}. Market Heat(2018) = ln((30*3)/(10+10+10)) = ln(3).
func TestMarketHeat(t *testing.T) {
	fundsRaised := map[int]int{2015: 10, 2016: 10, 2017: 10, 2018: 30}
	out := MarketHeat(fundsRaised, []int{2018})

	want := math.Log(3)
	if got := out[2018]; math.Abs(got-want) > 1e-9 {
		t.Errorf("MarketHeat(2018) = %f, want %f", got, want)
	}
}

func TestMarketHeatZeroDenominatorIsNaN(t *testing.T) {
	out := MarketHeat(map[int]int{2018: 5}, []int{2018})
	if !math.IsNaN(out[2018]) {
		t.Errorf("MarketHeat with no prior funding = %f, want NaN", out[2018])
	}
}

func TestFundsRaisedByYearImputesZeroGaps(t *testing.T) {
	funds := []store.Fund{
		{FundName: "alpha", FundYear: 2015},
		{FundName: "beta", FundYear: 2017},
	}
	counts := FundsRaisedByYear(funds)
	if counts[2016] != 0 {
		t.Errorf("counts[2016] = %d, want 0 (imputed gap year)", counts[2016])
	}
	if counts[2015] != 1 || counts[2017] != 1 {
		t.Errorf("counts = %+v, want 2015:1 2017:1", counts)
	}
}

func TestNewVentureDemandZeroCompaniesIsNaN(t *testing.T) {
	out := NewVentureDemand(nil, nil, "USA", []int{2020})
	if !math.IsNaN(out[2020]) {
		t.Errorf("NewVentureDemand with no companies = %f, want NaN", out[2020])
	}
}

package rolling

import (
	"testing"

	"github.com/vcresearch/panelgen/internal/store"
)

// TestSweepRollingUniques covers S3: firm A invests in company X in 2015 and
// 2016, company Y in 2017; at t=2019 with W=5 both X and Y are unique.
func TestSweepRollingUniques(t *testing.T) {
	rows := []Row{
		{FirmID: 0, Year: 2015, Amount: 10, Unique: "X"},
		{FirmID: 0, Year: 2016, Amount: 20, Unique: "X"},
		{FirmID: 0, Year: 2017, Amount: 30, Unique: "Y"},
	}

	out := Sweep(rows, []int{2019}, Window{W: 5})

	res, ok := out[store.FirmID(0)][2019]
	if !ok {
		t.Fatal("expected a result for firm 0 at t=2019")
	}
	if res.UniqueCnt != 2 {
		t.Errorf("UniqueCnt = %d, want 2", res.UniqueCnt)
	}
	if res.Sum != 60 {
		t.Errorf("Sum = %f, want 60", res.Sum)
	}
	if res.Count != 3 {
		t.Errorf("Count = %d, want 3", res.Count)
	}
}

func TestSweepOutsideWindowOmitted(t *testing.T) {
	rows := []Row{
		{FirmID: 0, Year: 2000, Amount: 1, Unique: "X"},
	}
	out := Sweep(rows, []int{2019}, Window{W: 5})
	if _, ok := out[store.FirmID(0)][2019]; ok {
		t.Error("expected no entry for a target year with no rows in range")
	}
}

func TestSweepMultipleFirmsIndependent(t *testing.T) {
	rows := []Row{
		{FirmID: 0, Year: 2018, Amount: 5, Unique: "X"},
		{FirmID: 1, Year: 2018, Amount: 7, Unique: "Y"},
	}
	out := Sweep(rows, []int{2019}, Window{W: 5})
	if out[store.FirmID(0)][2019].Sum != 5 {
		t.Errorf("firm 0 sum = %f, want 5", out[store.FirmID(0)][2019].Sum)
	}
	if out[store.FirmID(1)][2019].Sum != 7 {
		t.Errorf("firm 1 sum = %f, want 7", out[store.FirmID(1)][2019].Sum)
	}
}

func TestStillOpen(t *testing.T) {
	closed := 2015
	funds := []store.Fund{
		{FirmID: 0, FundYear: 2010, InitialClosingYear: &closed, FundSize: 100},
		{FirmID: 0, FundYear: 2012, FundSize: 50}, // never closes
	}
	out := StillOpen(funds, []int{2012, 2016, 2020})

	if !out[2012].Present || out[2012].Count != 1 || out[2012].MeanFundSize != 100 {
		t.Errorf("at t=2012 expected only the 2010 fund (the 2012 fund needs fund_year < t), got %+v", out[2012])
	}
	if !out[2016].Present || out[2016].Count != 1 || out[2016].MeanFundSize != 50 {
		t.Errorf("at t=2016 expected only the open-ended 2012 fund, got %+v", out[2016])
	}
	if !out[2020].Present || out[2020].Count != 1 {
		t.Errorf("at t=2020 expected the open-ended fund still counted, got %+v", out[2020])
	}
}

func TestStillOpenNoFunds(t *testing.T) {
	out := StillOpen(nil, []int{2020})
	if out[2020].Present {
		t.Error("expected Present=false when no funds exist")
	}
}

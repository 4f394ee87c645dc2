package performance

import (
	"testing"

	"github.com/vcresearch/panelgen/internal/store"
)

// TestComputeExactYearMatch covers S4: firm A invests in company X in 2020;
// X IPOs in 2020. perf_IPO(A,2020)=1 and perf_IPO(A,2021)=0 since A made no
// qualifying round in 2021.
func TestComputeExactYearMatch(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2020},
	}
	exitInfo := map[store.CompanyID]store.ExitInfo{
		0: {IPOExit: true, ExitYear: 2020, HasExit: true},
	}

	out := Compute(rounds, exitInfo, []int{2020, 2021}, 0, Inclusive)

	if c := out[Key{FirmID: 0, Year: 2020}]; c.IPO != 1 || c.All != 1 {
		t.Errorf("2020 counts = %+v, want IPO=1 All=1", c)
	}
	if c, ok := out[Key{FirmID: 0, Year: 2021}]; ok && c.IPO != 0 {
		t.Errorf("2021 IPO = %d, want 0 (no qualifying round)", c.IPO)
	}
}

func TestComputeMnAExit(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2019},
	}
	exitInfo := map[store.CompanyID]store.ExitInfo{
		0: {MnAExit: true, ExitYear: 2019, HasExit: true},
	}
	out := Compute(rounds, exitInfo, []int{2019}, 0, Inclusive)
	c := out[Key{FirmID: 0, Year: 2019}]
	if c.MnA != 1 || c.IPO != 0 || c.All != 1 {
		t.Errorf("counts = %+v, want MnA=1 IPO=0 All=1", c)
	}
}

func TestComputeHalfOpenLookbackExcludesCurrentYear(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2020},
	}
	exitInfo := map[store.CompanyID]store.ExitInfo{
		0: {IPOExit: true, ExitYear: 2020, HasExit: true},
	}
	// HalfOpen with L=2 at t=2020 looks at [2018, 2020), the 2020 round
	// falls outside the window entirely.
	out := Compute(rounds, exitInfo, []int{2020}, 2, HalfOpen)
	if c, ok := out[Key{FirmID: 0, Year: 2020}]; ok {
		t.Errorf("expected no match under half-open lookback excluding the round year, got %+v", c)
	}
}

func TestComputeNoExitYieldsNoRow(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2020},
	}
	exitInfo := map[store.CompanyID]store.ExitInfo{0: {HasExit: false}}
	out := Compute(rounds, exitInfo, []int{2020}, 0, Inclusive)
	if len(out) != 0 {
		t.Errorf("expected no rows when no exit is recorded, got %d", len(out))
	}
}

func TestBuildExitInfoIPO(t *testing.T) {
	s := &store.Store{
		Companies: []store.Company{
			{ID: 0, Situation: store.SituationWentPublic},
		},
	}
	info := BuildExitInfo(s)
	if info[0].IPOExit {
		t.Error("expected IPOExit=false when neither SituationDate nor IPODate is set")
	}
}

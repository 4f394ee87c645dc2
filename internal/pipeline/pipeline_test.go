package pipeline

import (
	"testing"

	"github.com/vcresearch/panelgen/internal/config"
	"github.com/vcresearch/panelgen/internal/store"
)

func buildTriangleStore() *store.Store {
	b := store.NewBuilder()
	b.AddFirm(store.Firm{Name: "Firm A", State: "CA"})
	b.AddFirm(store.Firm{Name: "Firm B", State: "MA"})
	b.AddFirm(store.Firm{Name: "Firm C", State: "NY"})
	b.AddCompany(store.Company{Name: "Startup X", Industry: "Software"})
	b.AddCompany(store.Company{Name: "Startup Y", Industry: "Software"})

	b.AddRound("Firm A", "Startup X", store.Round{Year: 2010, RoundNumber: 1})
	b.AddRound("Firm B", "Startup X", store.Round{Year: 2010, RoundNumber: 1})
	b.AddRound("Firm C", "Startup X", store.Round{Year: 2010, RoundNumber: 1})
	// A solo follow-on round in 2011 extends the store's year range so the
	// triangle's network effect (visible starting the year after the deal,
	// since the window excludes the current year) lands inside it.
	b.AddRound("Firm A", "Startup Y", store.Round{Year: 2011, RoundNumber: 1})
	return b.Build()
}

// TestRunFromStoreProducesOneRowPerObservedFirmYear covers the end-to-end
// assembly path: rows come only from (firm_id, year) pairs actually present
// in the round data, not the dense cross product of every firm x every year
// in the store's range. The triangle store has four such pairs: (A,2010),
// (B,2010), (C,2010), (A,2011).
func TestRunFromStoreProducesOneRowPerObservedFirmYear(t *testing.T) {
	s := buildTriangleStore()
	cfg := config.Default()

	res, err := RunFromStore(cfg, s, nil)
	if err != nil {
		t.Fatalf("RunFromStore returned an error: %v", err)
	}

	const wantRows = 4
	if len(res.Rows) != wantRows {
		t.Fatalf("len(Rows) = %d, want %d (one row per observed firm-year, not dense firm x year)", len(res.Rows), wantRows)
	}

	found := false
	for _, r := range res.Rows {
		if r.Year == 2011 && r.FirmID == 0 {
			found = true
			if r.Degree != 2 {
				t.Errorf("firm 0's 2011 Degree = %f, want 2 (triangle co-investment)", r.Degree)
			}
		}
	}
	if !found {
		t.Fatal("expected a 2011 row for firm 0")
	}
}

func TestRunFromStoreEmptyStoreYieldsEmptyResult(t *testing.T) {
	s := store.NewBuilder().Build()
	res, err := RunFromStore(config.Default(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 0 || len(res.InitialRows) != 0 {
		t.Errorf("expected no rows for an empty store, got %d panel rows / %d initial rows", len(res.Rows), len(res.InitialRows))
	}
}

func TestRunFromStoreInitialRowsCoverEveryFirm(t *testing.T) {
	s := buildTriangleStore()
	res, err := RunFromStore(config.Default(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.InitialRows) != 3 {
		t.Fatalf("len(InitialRows) = %d, want 3", len(res.InitialRows))
	}
	for _, row := range res.InitialRows {
		if row.InitialYear != 2010 {
			t.Errorf("firm %d InitialYear = %d, want 2010", row.FirmID, row.InitialYear)
		}
		if row.PartnerCount != 2 {
			t.Errorf("firm %d PartnerCount = %d, want 2 (the other two triangle members)", row.FirmID, row.PartnerCount)
		}
	}
}

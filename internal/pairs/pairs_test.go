package pairs

import (
	"math"
	"testing"

	"github.com/vcresearch/panelgen/internal/geo"
	"github.com/vcresearch/panelgen/internal/store"
)

func testResolver() *geo.Resolver {
	return geo.NewResolver(map[string]geo.Coordinate{
		"94105": {Lat: 37.7897, Lng: -122.3972}, // San Francisco
		"10004": {Lat: 40.6892, Lng: -74.0445},  // New York
		"02139": {Lat: 42.3626, Lng: -71.0843},  // Cambridge
	})
}

func TestCopartnerDistancesTwoFirmDeal(t *testing.T) {
	firms := []store.Firm{
		{ID: 0, Zip: "94105"},
		{ID: 1, Zip: "10004"},
	}
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2020},
		{FirmID: 1, CompanyID: 0, Year: 2020},
	}

	out := CopartnerDistances(rounds, firms, testResolver(), nil)

	statsA, ok := out[Key{FirmID: 0, Year: 2020}]
	if !ok || !statsA.Valid {
		t.Fatalf("expected a valid stats row for firm 0, got %+v (ok=%v)", statsA, ok)
	}
	if statsA.Mean <= 0 {
		t.Errorf("Mean = %f, want > 0 (SF to NYC is a real distance)", statsA.Mean)
	}
	if statsA.Mean != statsA.Min || statsA.Mean != statsA.Max {
		t.Errorf("with a single partner, mean/min/max must all agree: %+v", statsA)
	}
}

func TestCopartnerDistancesSingleParticipantNoRow(t *testing.T) {
	firms := []store.Firm{{ID: 0, Zip: "94105"}}
	rounds := []store.Round{{FirmID: 0, CompanyID: 0, Year: 2020}}

	out := CopartnerDistances(rounds, firms, testResolver(), nil)
	if len(out) != 0 {
		t.Errorf("expected no rows for a single-firm deal, got %d", len(out))
	}
}

func TestCopartnerDistancesUnresolvedZipOmitted(t *testing.T) {
	firms := []store.Firm{
		{ID: 0, Zip: "94105"},
		{ID: 1, Zip: "99999"}, // not in the reference table
	}
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2020},
		{FirmID: 1, CompanyID: 0, Year: 2020},
	}

	out := CopartnerDistances(rounds, firms, testResolver(), nil)
	if len(out) != 0 {
		t.Errorf("expected no rows when the only partner's zip is unresolvable, got %d", len(out))
	}
}

func TestCopartnerDistancesWeightedMean(t *testing.T) {
	firms := []store.Firm{
		{ID: 0, Zip: "94105"},
		{ID: 1, Zip: "10004"},
		{ID: 2, Zip: "02139"},
	}
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2020},
		{FirmID: 1, CompanyID: 0, Year: 2020},
		{FirmID: 2, CompanyID: 0, Year: 2020},
	}

	weightOf := func(r store.Round) float64 {
		if r.FirmID == 0 {
			return 2
		}
		return 1
	}

	out := CopartnerDistances(rounds, firms, testResolver(), weightOf)
	stats := out[Key{FirmID: 0, Year: 2020}]
	if !stats.Valid {
		t.Fatal("expected a valid stats row")
	}
	if math.IsNaN(stats.WeightedMean) || stats.WeightedMean <= 0 {
		t.Errorf("WeightedMean = %f, want a positive resolved value", stats.WeightedMean)
	}
}

func TestCompanyDistances(t *testing.T) {
	firms := []store.Firm{{ID: 0, Zip: "94105"}}
	companies := []store.Company{{ID: 0, Zip: "10004"}}
	rounds := []store.Round{{FirmID: 0, CompanyID: 0, Year: 2020}}

	out := CompanyDistances(rounds, firms, companies, testResolver())
	stats, ok := out[Key{FirmID: 0, Year: 2020}]
	if !ok || !stats.Valid {
		t.Fatalf("expected a valid firm-company distance, got %+v (ok=%v)", stats, ok)
	}
}

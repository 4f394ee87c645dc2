package centrality

import (
	"math"
	"testing"

	"github.com/vcresearch/panelgen/internal/network"
	"github.com/vcresearch/panelgen/internal/store"
)

// TestComputeAllTriangle covers S1: a complete triangle {A,B,C}. Degree=2
// everywhere, betweenness=0 everywhere (no node lies on a shortest path
// between two others), constraint=1.0 everywhere (capped), ego density=1.0.
func TestComputeAllTriangle(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2010},
		{FirmID: 1, CompanyID: 0, Year: 2010},
		{FirmID: 2, CompanyID: 0, Year: 2010},
	}
	g := network.Build(rounds, 2011, network.Config{WindowYears: 5, EdgeCutpoint: 1})

	cfg := DefaultConfig()
	rows := ComputeAll(g, cfg)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	for _, r := range rows {
		if r.Degree != 2 {
			t.Errorf("firm %d Degree = %f, want 2", r.FirmID, r.Degree)
		}
		if r.Betweenness != 0 {
			t.Errorf("firm %d Betweenness = %f, want 0", r.FirmID, r.Betweenness)
		}
		if math.Abs(r.EgoDensity-1.0) > 1e-9 {
			t.Errorf("firm %d EgoDensity = %f, want 1.0", r.FirmID, r.EgoDensity)
		}
		if math.Abs(r.Constraint-1.0) > 1e-9 {
			t.Errorf("firm %d Constraint = %f, want 1.0 (capped)", r.FirmID, r.Constraint)
		}
	}
}

// TestComputeAllTwoDisjointPairs covers S2: two disconnected pairs. Degree=1
// everywhere, betweenness=0, ego density=0 (each ego has a single neighbor),
// and power centrality at beta=0 equals degree.
func TestComputeAllTwoDisjointPairs(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2010},
		{FirmID: 1, CompanyID: 0, Year: 2010},
		{FirmID: 2, CompanyID: 1, Year: 2010},
		{FirmID: 3, CompanyID: 1, Year: 2010},
	}
	g := network.Build(rounds, 2011, network.Config{WindowYears: 5, EdgeCutpoint: 1})

	cfg := DefaultConfig()
	cfg.PowerBetaMultipliers = []float64{0}
	rows := ComputeAll(g, cfg)
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}

	for _, r := range rows {
		if r.Degree != 1 {
			t.Errorf("firm %d Degree = %f, want 1", r.FirmID, r.Degree)
		}
		if r.Betweenness != 0 {
			t.Errorf("firm %d Betweenness = %f, want 0", r.FirmID, r.Betweenness)
		}
		if r.EgoDensity != 0 {
			t.Errorf("firm %d EgoDensity = %f, want 0", r.FirmID, r.EgoDensity)
		}
		if math.Abs(r.Power[0]-1.0) > 1e-6 {
			t.Errorf("firm %d Power[0] = %f, want 1.0 (== normalized degree)", r.FirmID, r.Power[0])
		}
	}
}

func TestComputeAllEmptyGraph(t *testing.T) {
	g := network.Build(nil, 2011, network.Config{WindowYears: 5, EdgeCutpoint: 1})
	if rows := ComputeAll(g, DefaultConfig()); rows != nil {
		t.Errorf("expected nil rows for an empty graph, got %v", rows)
	}
}

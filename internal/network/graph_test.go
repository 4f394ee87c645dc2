package network

import (
	"testing"

	"github.com/vcresearch/panelgen/internal/store"
)

// TestBuildTriangle covers S1: firms {A,B,C} share one deal in company X in
// 2010. With W=5, kappa=1, G_2011 must be a complete triangle with unit
// edge weights.
func TestBuildTriangle(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2010},
		{FirmID: 1, CompanyID: 0, Year: 2010},
		{FirmID: 2, CompanyID: 0, Year: 2010},
	}

	g := Build(rounds, 2011, Config{WindowYears: 5, EdgeCutpoint: 1})

	if g.NumNodes() != 3 {
		t.Fatalf("NumNodes = %d, want 3", g.NumNodes())
	}
	if g.NumEdges() != 3 {
		t.Fatalf("NumEdges = %d, want 3", g.NumEdges())
	}
	for _, u := range g.Nodes {
		if d := g.Degree(u); d != 2 {
			t.Errorf("Degree(%d) = %d, want 2", u, d)
		}
	}
	if w, ok := g.WeightTo(0, 1); !ok || w != 1 {
		t.Errorf("WeightTo(0,1) = (%d, %v), want (1, true)", w, ok)
	}
}

// TestBuildTwoDisjointPairs covers S2: deals {A,B} and {C,D} in 2010, no
// shared participants. G_2011 has two edges of weight 1, degree 1 everywhere.
func TestBuildTwoDisjointPairs(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2010},
		{FirmID: 1, CompanyID: 0, Year: 2010},
		{FirmID: 2, CompanyID: 1, Year: 2010},
		{FirmID: 3, CompanyID: 1, Year: 2010},
	}

	g := Build(rounds, 2011, Config{WindowYears: 5, EdgeCutpoint: 1})

	if g.NumNodes() != 4 {
		t.Fatalf("NumNodes = %d, want 4", g.NumNodes())
	}
	if g.NumEdges() != 2 {
		t.Fatalf("NumEdges = %d, want 2", g.NumEdges())
	}
	for _, u := range g.Nodes {
		if d := g.Degree(u); d != 1 {
			t.Errorf("Degree(%d) = %d, want 1", u, d)
		}
	}
}

func TestBuildSingleParticipantDealContributesNoEdges(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2010},
	}
	g := Build(rounds, 2011, Config{WindowYears: 5, EdgeCutpoint: 1})
	if g.NumNodes() != 0 {
		t.Errorf("NumNodes = %d, want 0 for an isolated single-firm deal", g.NumNodes())
	}
}

func TestBuildEmptyWindowYieldsEmptyGraph(t *testing.T) {
	g := Build(nil, 2011, Config{WindowYears: 5, EdgeCutpoint: 1})
	if g.NumNodes() != 0 || g.NumEdges() != 0 {
		t.Errorf("expected an empty graph, got %d nodes / %d edges", g.NumNodes(), g.NumEdges())
	}
}

func TestBuildRespectsEdgeCutpoint(t *testing.T) {
	// A and B co-invest in two separate deals -> weight 2.
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2009},
		{FirmID: 1, CompanyID: 0, Year: 2009},
		{FirmID: 0, CompanyID: 1, Year: 2010},
		{FirmID: 1, CompanyID: 1, Year: 2010},
	}
	g := Build(rounds, 2011, Config{WindowYears: 5, EdgeCutpoint: 2})
	if g.NumEdges() != 1 {
		t.Fatalf("NumEdges = %d, want 1", g.NumEdges())
	}
	if w, _ := g.WeightTo(0, 1); w != 2 {
		t.Errorf("WeightTo(0,1) = %d, want 2", w)
	}

	g3 := Build(rounds, 2011, Config{WindowYears: 5, EdgeCutpoint: 3})
	if g3.NumEdges() != 0 {
		t.Errorf("cutpoint above max weight should drop every edge, got %d", g3.NumEdges())
	}
}

func TestBuildAllDispatchesPerYear(t *testing.T) {
	rounds := []store.Round{
		{FirmID: 0, CompanyID: 0, Year: 2010},
		{FirmID: 1, CompanyID: 0, Year: 2010},
	}
	graphs := BuildAll(rounds, []int{2011, 2012}, Config{WindowYears: 5, EdgeCutpoint: 1}, 2)
	if len(graphs) != 2 {
		t.Fatalf("len(graphs) = %d, want 2", len(graphs))
	}
	if graphs[2011].NumEdges() != 1 {
		t.Errorf("graphs[2011].NumEdges() = %d, want 1", graphs[2011].NumEdges())
	}
}

package store

import (
	"testing"
	"time"
)

func TestBuilderDropsUndisclosedFirm(t *testing.T) {
	b := NewBuilder()
	b.AddFirm(Firm{Name: UndisclosedFirmName})
	b.AddFirm(Firm{Name: "Acme Ventures"})
	s := b.Build()
	if len(s.Firms) != 1 || s.Firms[0].Name != "Acme Ventures" {
		t.Fatalf("Firms = %+v, want only Acme Ventures", s.Firms)
	}
}

func TestBuilderKeepsMostCompleteFirmRow(t *testing.T) {
	founding := 2001
	b := NewBuilder()
	b.AddFirm(Firm{Name: "Acme Ventures", State: "CA"})
	b.AddFirm(Firm{Name: "Acme Ventures", State: "CA", FoundingYear: &founding, Zip: "94105"})
	s := b.Build()
	if len(s.Firms) != 1 {
		t.Fatalf("expected dedup to one firm row, got %d", len(s.Firms))
	}
	if s.Firms[0].FoundingYear == nil || *s.Firms[0].FoundingYear != 2001 {
		t.Errorf("expected the more complete row (with FoundingYear) to win")
	}
}

func TestBuilderDropsDuplicateRounds(t *testing.T) {
	b := NewBuilder()
	b.AddFirm(Firm{Name: "Acme Ventures"})
	b.AddCompany(Company{Name: "Startup X"})
	b.AddRound("Acme Ventures", "Startup X", Round{Year: 2020, RoundNumber: 1})
	b.AddRound("Acme Ventures", "Startup X", Round{Year: 2020, RoundNumber: 1})
	s := b.Build()
	if len(s.Rounds) != 1 {
		t.Fatalf("Rounds = %d, want 1 (exact duplicate dropped)", len(s.Rounds))
	}
}

func TestBuilderDropsRoundsReferencingUndisclosedNames(t *testing.T) {
	b := NewBuilder()
	b.AddCompany(Company{Name: "Startup X"})
	// firm name never registered (it was Undisclosed and dropped upstream)
	b.AddRound(UndisclosedFirmName, "Startup X", Round{Year: 2020})
	s := b.Build()
	if len(s.Rounds) != 0 {
		t.Errorf("Rounds = %d, want 0", len(s.Rounds))
	}
}

func TestStoreYearsRange(t *testing.T) {
	b := NewBuilder()
	b.AddFirm(Firm{Name: "Acme Ventures"})
	b.AddCompany(Company{Name: "Startup X"})
	b.AddRound("Acme Ventures", "Startup X", Round{Year: 2018})
	b.AddRound("Acme Ventures", "Startup X", Round{Year: 2021, RoundNumber: 1})
	s := b.Build()
	years := s.Years()
	if len(years) != 4 || years[0] != 2018 || years[len(years)-1] != 2021 {
		t.Errorf("Years() = %v, want [2018..2021]", years)
	}
}

func TestFundIsStillOpen(t *testing.T) {
	closing := 2015
	f := Fund{FundYear: 2010, InitialClosingYear: &closing}
	if f.IsStillOpen(2010) {
		t.Error("a fund is not open in its own founding year")
	}
	if !f.IsStillOpen(2012) {
		t.Error("expected open between founding and closing year")
	}
	if f.IsStillOpen(2016) {
		t.Error("expected closed after its closing year")
	}

	evergreen := Fund{FundYear: 2010}
	if !evergreen.IsStillOpen(2099) {
		t.Error("a fund with no closing year never closes")
	}
}

func TestExitInfoIPORequiresADate(t *testing.T) {
	s := &Store{}
	c := Company{Situation: SituationWentPublic}
	info := s.ExitInfo(&c)
	if info.IPOExit {
		t.Error("expected IPOExit=false without a SituationDate or IPODate")
	}

	ipoDate := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	c2 := Company{Situation: SituationWentPublic, IPODate: &ipoDate}
	info2 := s.ExitInfo(&c2)
	if !info2.IPOExit || !info2.HasExit || info2.ExitYear != 2020 {
		t.Errorf("ExitInfo = %+v, want IPOExit=true ExitYear=2020", info2)
	}
}

func TestExitInfoMnARequiresSituationDate(t *testing.T) {
	s := &Store{}
	date := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	c := Company{Situation: SituationAcquired, SituationDate: &date}
	info := s.ExitInfo(&c)
	if !info.MnAExit || info.ExitYear != 2019 {
		t.Errorf("ExitInfo = %+v, want MnAExit=true ExitYear=2019", info)
	}
}

package panel

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteParquetRoundTrips(t *testing.T) {
	amt := 17.5
	rows := []Row{
		{FirmID: 1, FirmName: "Acme Ventures", Year: 2020, RollingAmountSum: &amt, Degree: 2},
		{FirmID: 2, FirmName: "Beta Capital", Year: 2020, RollingAmountSum: nil, Degree: 0},
	}

	fn := filepath.Join(t.TempDir(), "panel.parquet")
	if err := WriteParquet(rows, fn); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	info, err := os.Stat(fn)
	if err != nil {
		t.Fatalf("stat parquet file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty parquet file")
	}
}

func TestWriteInitialParquetRoundTrips(t *testing.T) {
	age := int32(5)
	rows := []InitialRow{
		{FirmID: 1, InitialYear: 2010, InitialFirmAge: &age, PartnerCount: 2},
		{FirmID: 2, InitialYear: 2011, InitialFirmAge: nil, PartnerCount: 0},
	}

	fn := filepath.Join(t.TempDir(), "initial.parquet")
	if err := WriteInitialParquet(rows, fn); err != nil {
		t.Fatalf("WriteInitialParquet: %v", err)
	}

	info, err := os.Stat(fn)
	if err != nil {
		t.Fatalf("stat parquet file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty parquet file")
	}
}

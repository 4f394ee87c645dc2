package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	cfg := Default()
	if cfg.WindowYears != 5 || cfg.EdgeCutpoint != 1 || cfg.ImprintingPeriod != 3 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.LookbackYears != 0 {
		t.Errorf("LookbackYears = %d, want 0", cfg.LookbackYears)
	}
}

func TestLoadOverridesFromViper(t *testing.T) {
	v := viper.New()
	v.Set("pipeline.window_years", 10)
	v.Set("pipeline.lookback_years", 2)
	v.Set("default.output_format", "csv")

	cfg := Load(v)
	if cfg.WindowYears != 10 {
		t.Errorf("WindowYears = %d, want 10", cfg.WindowYears)
	}
	if cfg.LookbackYears != 2 {
		t.Errorf("LookbackYears = %d, want 2", cfg.LookbackYears)
	}
	if cfg.OutputFormat != "csv" {
		t.Errorf("OutputFormat = %q, want csv", cfg.OutputFormat)
	}
}

func TestLoadDefaultsOutputFormatToParquet(t *testing.T) {
	cfg := Load(viper.New())
	if cfg.OutputFormat != "parquet" {
		t.Errorf("OutputFormat = %q, want parquet when unset", cfg.OutputFormat)
	}
}

func TestCentralityConfigProjection(t *testing.T) {
	cfg := Default()
	cc := cfg.CentralityConfig()
	if cc.BetweennessK != cfg.BetweennessK || len(cc.PowerBetaMultipliers) != len(cfg.PowerBetaValues) {
		t.Errorf("CentralityConfig() did not project every field: %+v", cc)
	}
}

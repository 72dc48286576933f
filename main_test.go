package main

import (
	"math"
	"testing"

	"github.com/banshee-data/resonance.report/internal/config"
	"github.com/banshee-data/resonance.report/internal/lamb"
	"github.com/banshee-data/resonance.report/internal/scan"
	"github.com/banshee-data/resonance.report/internal/units"
)

func TestResolveSettingsDefaults(t *testing.T) {
	s := resolveSettings(config.EmptySolverConfig())

	if s.params.VelLong != 1920 || s.params.VelTrans != 960 || s.params.RadiusNM != 50 {
		t.Errorf("default params = %+v", s.params)
	}
	if s.params.Mode != lamb.Dipolar {
		t.Errorf("default mode = %v, want Dipolar", s.params.Mode)
	}
	if s.harmonic != 1 {
		t.Errorf("default harmonic = %d, want 1", s.harmonic)
	}
	if s.useLegacy {
		t.Error("legacy form enabled by default")
	}
	if s.scanCfg.DiscontinuityFilter {
		t.Error("discontinuity filter enabled by default")
	}

	wantStep := units.HzToAngular(scan.DefaultStepHz)
	if math.Abs(s.scanCfg.StepSize-wantStep) > 1e-6 {
		t.Errorf("StepSize = %g, want %g", s.scanCfg.StepSize, wantStep)
	}
	wantStart := units.GHzToAngular(scan.DefaultStartGHz)
	if math.Abs(s.scanCfg.StartOmega-wantStart) > 1e-3 {
		t.Errorf("StartOmega = %g, want %g", s.scanCfg.StartOmega, wantStart)
	}
	if s.scanCfg.MaxSteps != scan.DefaultMaxSteps {
		t.Errorf("MaxSteps = %d, want %d", s.scanCfg.MaxSteps, scan.DefaultMaxSteps)
	}
}

func TestResolveSettingsConfigValues(t *testing.T) {
	step := 5e4
	start := 0.25
	legacyForm := true
	cfg := &config.SolverConfig{StepHz: &step, StartGHz: &start, LegacyRatioForm: &legacyForm}

	s := resolveSettings(cfg)

	if math.Abs(s.scanCfg.StepSize-units.HzToAngular(step)) > 1e-9 {
		t.Errorf("StepSize = %g, want %g", s.scanCfg.StepSize, units.HzToAngular(step))
	}
	if math.Abs(s.scanCfg.StartOmega-units.GHzToAngular(start)) > 1e-3 {
		t.Errorf("StartOmega = %g, want %g", s.scanCfg.StartOmega, units.GHzToAngular(start))
	}
	if !s.useLegacy {
		t.Error("legacy_ratio_form from config ignored")
	}
	if !s.scanCfg.DiscontinuityFilter {
		t.Error("legacy form must enable the discontinuity filter")
	}
}

func TestResultLine(t *testing.T) {
	p := lamb.Params{VelLong: 1920, VelTrans: 960, RadiusNM: 50, Mode: lamb.Dipolar}
	omega := units.GHzToAngular(9.234567)

	tests := []struct {
		unit string
		want string
	}{
		{units.Gigahertz, "Resonance of (SPH, l=1, n=1) at 9.234567 GHz"},
		{units.Megahertz, "Resonance of (SPH, l=1, n=1) at 9234.567000 MHz"},
	}

	for _, tt := range tests {
		if got := resultLine(p, 1, omega, tt.unit); got != tt.want {
			t.Errorf("resultLine(%s) = %q, want %q", tt.unit, got, tt.want)
		}
	}
}

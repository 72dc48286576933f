package scan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/resonance.report/internal/lamb"
)

// funcEvaluator adapts a plain function to lamb.Evaluator for synthetic
// scanner tests.
type funcEvaluator func(omega float64) float64

func (f funcEvaluator) Evaluate(omega float64, _ lamb.Params) (float64, error) {
	return f(omega), nil
}

func referenceParams(m lamb.Mode) lamb.Params {
	return lamb.Params{VelLong: 1920, VelTrans: 960, RadiusNM: 50, Mode: m}
}

func TestFindsLinearRoot(t *testing.T) {
	const root = 110.5
	s := New(funcEvaluator(func(omega float64) float64 { return omega - root }), Config{
		StepSize:            1,
		StartOmega:          100,
		RefineMargin:        0.5,
		MaxSteps:            1000,
		DiscontinuityFilter: true,
	})

	res, err := s.FindNthRoot(referenceParams(lamb.Dipolar), 1)
	require.NoError(t, err)
	require.InDelta(t, root, res.Omega, 1e-6)
	require.Equal(t, 0, res.Rejected)
}

func TestRejectsPoleAcceptsRoot(t *testing.T) {
	// One pole-like sign flip (magnitude growing toward the crossing) at
	// 103.3 and one genuine root at 110.25 in the same range. The filter
	// must report exactly one root, at the genuine crossing.
	const (
		pole = 103.3
		root = 110.25
	)
	f := funcEvaluator(func(omega float64) float64 {
		return (omega - root) / (pole - omega)
	})

	s := New(f, Config{
		StepSize:            1,
		StartOmega:          100,
		RefineMargin:        0.5,
		MaxSteps:            1000,
		DiscontinuityFilter: true,
	})

	res, err := s.FindNthRoot(referenceParams(lamb.Dipolar), 1)
	require.NoError(t, err)
	require.InDelta(t, root, res.Omega, 1e-6)
	require.Equal(t, 1, res.Rejected, "the pole crossing must be discarded")
}

func TestNaNIsNotACrossing(t *testing.T) {
	// An indeterminate stretch must not be read as a zero crossing.
	const root = 110.0
	f := funcEvaluator(func(omega float64) float64 {
		if omega > 104 && omega < 107 {
			return math.NaN()
		}
		if omega <= 104 {
			return -1
		}
		return omega - root
	})

	s := New(f, Config{
		StepSize:            1,
		StartOmega:          100,
		RefineMargin:        0.5,
		MaxSteps:            1000,
		DiscontinuityFilter: true,
	})

	res, err := s.FindNthRoot(referenceParams(lamb.Dipolar), 1)
	require.NoError(t, err)
	require.InDelta(t, root, res.Omega, 1e-6)
}

func TestMonotonicProgress(t *testing.T) {
	const root = 120.5
	cfg := Config{
		StepSize:     1,
		StartOmega:   100,
		RefineMargin: 0.5,
		MaxSteps:     1000,
		RecordTrace:  true,
	}
	s := New(funcEvaluator(func(omega float64) float64 { return omega - root }), cfg)

	res, err := s.FindNthRoot(referenceParams(lamb.Dipolar), 1)
	require.NoError(t, err)
	require.Equal(t, res.Steps+1, len(res.Trace))

	for i := 1; i < len(res.Trace); i++ {
		delta := res.Trace[i].Omega - res.Trace[i-1].Omega
		require.InDelta(t, cfg.StepSize, delta, 1e-9, "trace step %d", i)
	}
}

func TestHarmonicNotFound(t *testing.T) {
	s := New(funcEvaluator(func(omega float64) float64 { return 1 }), Config{
		StepSize:   1,
		StartOmega: 100,
		MaxSteps:   50,
	})

	res, err := s.FindNthRoot(referenceParams(lamb.Dipolar), 1)
	require.ErrorIs(t, err, ErrHarmonicNotFound)
	require.Equal(t, 50, res.Steps)
}

func TestHarmonicOrderingAndIdempotence(t *testing.T) {
	cfg := Config{
		StepSize:     0.05,
		StartOmega:   0.1,
		RefineMargin: 0.2,
		MaxSteps:     10000,
	}
	s := New(funcEvaluator(math.Sin), cfg)
	p := referenceParams(lamb.Dipolar)

	first, err := s.FindNthRoot(p, 1)
	require.NoError(t, err)
	require.InDelta(t, math.Pi, first.Omega, 1e-6)

	second, err := s.FindNthRoot(p, 2)
	require.NoError(t, err)
	require.InDelta(t, 2*math.Pi, second.Omega, 1e-6)
	require.Greater(t, second.Omega, first.Omega)

	again, err := s.FindNthRoot(p, 1)
	require.NoError(t, err)
	require.InDelta(t, first.Omega, again.Omega, 1e-9, "identical inputs must refine to the identical root")
}

func TestInvalidInputs(t *testing.T) {
	s := New(lamb.DivisionFree{}, Config{})

	_, err := s.FindNthRoot(lamb.Params{VelLong: -1, VelTrans: 960, RadiusNM: 50}, 1)
	require.Error(t, err)

	_, err = s.FindNthRoot(referenceParams(lamb.Dipolar), 0)
	require.Error(t, err)

	// Evaluator errors propagate immediately.
	_, err = New(lamb.Ratio{}, Config{}).FindNthRoot(referenceParams(lamb.Mode(4)), 1)
	require.ErrorIs(t, err, lamb.ErrUnsupportedMode)
}

func TestDefaultsApplied(t *testing.T) {
	s := New(lamb.DivisionFree{}, Config{})
	require.InDelta(t, 2*math.Pi*DefaultStepHz, s.cfg.StepSize, 1e-6)
	require.InDelta(t, 2*math.Pi*DefaultStartGHz*1e9, s.cfg.StartOmega, 1e-3)
	require.Equal(t, DefaultMaxSteps, s.cfg.MaxSteps)
	require.InDelta(t, DefaultRefineMargin, s.cfg.RefineMargin, 0)
}

func TestDipolarReferenceSolve(t *testing.T) {
	if testing.Short() {
		t.Skip("full-resolution frequency sweep")
	}

	s := New(lamb.DivisionFree{}, Config{})
	p := referenceParams(lamb.Dipolar)

	// For vl = 2*vt and r = 50 nm, the dipolar fundamental sits at
	// xi ~ 1.80, i.e. ~11.0 GHz.
	first, err := s.FindNthRoot(p, 1)
	require.NoError(t, err)
	require.Greater(t, first.FrequencyGHz, 10.5)
	require.Less(t, first.FrequencyGHz, 11.5)

	second, err := s.FindNthRoot(p, 2)
	require.NoError(t, err)
	require.Greater(t, second.FrequencyGHz, first.FrequencyGHz)

	// The legacy ratio formulation, scanned with the discontinuity filter as
	// in the original procedure, must land on the same fundamental.
	legacy := New(lamb.Ratio{}, Config{DiscontinuityFilter: true})
	lf, err := legacy.FindNthRoot(p, 1)
	require.NoError(t, err)
	require.InDelta(t, first.FrequencyGHz, lf.FrequencyGHz, 1e-3)
}

func TestBreathingReferenceSolve(t *testing.T) {
	if testing.Short() {
		t.Skip("full-resolution frequency sweep")
	}

	// For vl = 2*vt the breathing equation reduces to tan(xi) = xi/(1-xi^2)
	// with first root xi ~ 2.744, i.e. ~16.77 GHz for r = 50 nm.
	s := New(lamb.DivisionFree{}, Config{})
	res, err := s.FindNthRoot(referenceParams(lamb.Breathing), 1)
	require.NoError(t, err)
	require.Greater(t, res.FrequencyGHz, 16.6)
	require.Less(t, res.FrequencyGHz, 16.9)
}

func TestCrossed(t *testing.T) {
	tests := []struct {
		name string
		last float64
		next float64
		want bool
	}{
		{"negative to positive", -1, 1, true},
		{"positive to negative", 1, -1, true},
		{"touches zero", -1, 0, true},
		{"leaves zero", 0, 1, true},
		{"no change positive", 1, 2, false},
		{"no change negative", -2, -1, false},
		{"nan left", math.NaN(), 1, false},
		{"nan right", -1, math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := crossed(tt.last, tt.next); got != tt.want {
				t.Errorf("crossed(%g, %g) = %v, want %v", tt.last, tt.next, got, tt.want)
			}
		})
	}
}

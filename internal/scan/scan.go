// Package scan locates roots of the characteristic equation by walking
// frequency upward in fixed steps, detecting sign changes, and refining each
// accepted crossing with a bounded derivative-free minimizer.
package scan

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/resonance.report/internal/lamb"
	"github.com/banshee-data/resonance.report/internal/units"
)

// ErrHarmonicNotFound is returned when the step budget runs out before the
// requested number of roots has been found.
var ErrHarmonicNotFound = errors.New("scan: harmonic not found within step budget")

// Default scan constants. They assume nm-scale spheres with GHz resonances:
// the step must stay well below the expected spacing between roots or
// crossings will be merged or missed, and the start frequency sits above the
// spurious near-zero solutions of the equation.
const (
	// DefaultStepHz is the sweep step, 0.1 MHz.
	DefaultStepHz = 1e5
	// DefaultStartGHz is the sweep start frequency.
	DefaultStartGHz = 0.1
	// DefaultRefineMargin widens a detected bracket by this many rad/s on
	// each side before refinement.
	DefaultRefineMargin = 1.0
	// DefaultMaxSteps bounds a sweep at roughly 500 GHz with the default
	// step. The reference procedure had no ceiling and could loop forever
	// on an unreachable harmonic.
	DefaultMaxSteps = 5_000_000
)

// Config holds the solver constants for one scan. Zero values are replaced
// with the defaults by New.
type Config struct {
	StepSize     float64 // scan step in rad/s
	StartOmega   float64 // scan start in rad/s
	RefineMargin float64 // bracket widening in rad/s
	MaxSteps     int     // step budget before ErrHarmonicNotFound

	// DiscontinuityFilter enables the backward-step heuristic that rejects
	// sign changes whose magnitude grows toward the crossing. Needed when
	// scanning the ratio formulation, whose poles flip sign; the
	// division-free form has no poles and scans cleanly without it.
	DiscontinuityFilter bool

	// RecordTrace keeps every frequency sample in the Result for later
	// plotting.
	RecordTrace bool

	// OnRoot, if set, is called once per accepted root as the scan
	// progresses.
	OnRoot func(n int, omega float64)
}

// Sample is one evaluation of the characteristic function during a scan.
type Sample struct {
	Omega float64 // angular frequency in rad/s
	Value float64 // characteristic function value
}

// Result describes a completed scan.
type Result struct {
	Omega        float64  // refined root, rad/s
	FrequencyGHz float64  // refined root in GHz
	Steps        int      // scan steps taken
	Rejected     int      // crossings discarded by the discontinuity filter
	Trace        []Sample // per-step samples, when RecordTrace is set
}

// Scanner sweeps the characteristic function for roots. Each call to
// FindNthRoot owns its scan state exclusively, so a single Scanner may be
// used from multiple goroutines.
type Scanner struct {
	eval lamb.Evaluator
	cfg  Config
}

// New returns a Scanner over the given evaluator, filling unset Config
// fields with the defaults.
func New(eval lamb.Evaluator, cfg Config) *Scanner {
	if cfg.StepSize <= 0 {
		cfg.StepSize = units.HzToAngular(DefaultStepHz)
	}
	if cfg.StartOmega <= 0 {
		cfg.StartOmega = units.GHzToAngular(DefaultStartGHz)
	}
	if cfg.RefineMargin <= 0 {
		cfg.RefineMargin = DefaultRefineMargin
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	return &Scanner{eval: eval, cfg: cfg}
}

// FindNthRoot scans upward from the configured start frequency and returns
// the n-th root (n = harmonic, ascending frequency order) of the
// characteristic function for the given parameters.
func (s *Scanner) FindNthRoot(p lamb.Params, harmonic int) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if harmonic < 1 {
		return Result{}, fmt.Errorf("scan: harmonic index must be >= 1, got %d", harmonic)
	}

	lastOmega := s.cfg.StartOmega
	lastValue, err := s.eval.Evaluate(lastOmega, p)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if s.cfg.RecordTrace {
		res.Trace = append(res.Trace, Sample{Omega: lastOmega, Value: lastValue})
	}

	rootsFound := 0
	var root float64

	for rootsFound < harmonic {
		if res.Steps >= s.cfg.MaxSteps {
			return res, fmt.Errorf("%w: found %d of %d roots in %d steps from %.4f GHz",
				ErrHarmonicNotFound, rootsFound, harmonic, res.Steps,
				units.AngularToGHz(s.cfg.StartOmega))
		}

		newOmega := lastOmega + s.cfg.StepSize
		newValue, err := s.eval.Evaluate(newOmega, p)
		if err != nil {
			return res, err
		}
		res.Steps++
		if s.cfg.RecordTrace {
			res.Trace = append(res.Trace, Sample{Omega: newOmega, Value: newValue})
		}

		if crossed(lastValue, newValue) {
			accept := true
			if s.cfg.DiscontinuityFilter {
				olderValue, err := s.eval.Evaluate(lastOmega-s.cfg.StepSize, p)
				if err != nil {
					return res, err
				}
				// A genuine root approaches zero across the bracket; a pole
				// grows through it.
				if !(math.Abs(lastValue) < math.Abs(olderValue)) {
					accept = false
					res.Rejected++
				}
			}

			if accept {
				r, err := s.refine(lastOmega-s.cfg.RefineMargin, newOmega+s.cfg.RefineMargin,
					(lastOmega+newOmega)/2, p)
				if err != nil {
					return res, err
				}
				root = r
				rootsFound++
				if s.cfg.OnRoot != nil {
					s.cfg.OnRoot(rootsFound, root)
				}
			}
		}

		lastOmega, lastValue = newOmega, newValue
	}

	res.Omega = root
	res.FrequencyGHz = units.AngularToGHz(root)
	return res, nil
}

// crossed reports whether the characteristic value changed sign (or touched
// zero) between two adjacent samples. NaN on either side means the sign
// cannot be determined, which is never a crossing.
func crossed(last, next float64) bool {
	if math.IsNaN(last) || math.IsNaN(next) {
		return false
	}
	return (last <= 0 && next >= 0) || (last >= 0 && next <= 0)
}

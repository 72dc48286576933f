package scan

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/banshee-data/resonance.report/internal/lamb"
)

// refine runs a bounded Nelder-Mead minimisation of the absolute
// characteristic value over [lo, hi], seeded at seed, and returns the argmin.
//
// gonum's Nelder-Mead has no box constraints, so the optimizer works on a
// unit-interval variable t with omega = lo + t*span; values outside [0, 1]
// are evaluated at the clamped endpoint plus a penalty that scales with the
// objective, keeping the interior minimum the global one. The evaluator is
// scalar-only; unwrapping the optimizer's vector argument happens once here,
// at the boundary.
func (s *Scanner) refine(lo, hi, seed float64, p lamb.Params) (float64, error) {
	span := hi - lo
	if span <= 0 {
		return 0, fmt.Errorf("scan: invalid refinement bracket [%g, %g]", lo, hi)
	}

	var evalErr error
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			t := x[0]
			penalty := 0.0
			if t < 0 {
				penalty = t * t
				t = 0
			} else if t > 1 {
				penalty = (t - 1) * (t - 1)
				t = 1
			}

			v, err := lamb.Abs(s.eval, lo+t*span, p)
			if err != nil {
				if evalErr == nil {
					evalErr = err
				}
				return math.Inf(1)
			}
			if math.IsNaN(v) {
				return math.Inf(1)
			}
			return v + penalty*(1+v)
		},
	}

	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: 100,
		},
	}

	result, err := optimize.Minimize(problem, []float64{(seed - lo) / span}, settings, &optimize.NelderMead{})
	if err != nil {
		return 0, fmt.Errorf("scan: refinement failed: %w", err)
	}
	if evalErr != nil {
		return 0, evalErr
	}

	t := math.Min(1, math.Max(0, result.X[0]))
	return lo + t*span, nil
}

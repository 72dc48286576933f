// Package lamb evaluates the characteristic equation for spherical elastic
// vibrational modes of a homogeneous isotropic sphere, after Lamb, with the
// mode equations of Yang et al., Sci Rep 5, 18030 (2016).
//
// A resonance frequency is a root of the characteristic function. The
// package only evaluates the function; locating roots is the job of the
// scan package. Torsional modes are not covered, only spherical ones.
package lamb

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/resonance.report/internal/bessel"
)

// ErrUnsupportedMode is returned when the requested angular momentum index
// has no characteristic equation in the chosen formulation.
var ErrUnsupportedMode = errors.New("lamb: unsupported mode index")

// Mode is the angular momentum index l of a spherical vibrational mode.
type Mode int

// Named low-order modes.
const (
	Breathing   Mode = 0 // l=0
	Dipolar     Mode = 1 // l=1
	Quadrupolar Mode = 2 // l=2
)

// String returns the mode label used in result reporting, e.g. "SPH, l=1".
func (m Mode) String() string {
	return fmt.Sprintf("SPH, l=%d", int(m))
}

// Params holds the material and geometry constants of one solve. Values are
// immutable for the duration of a scan.
type Params struct {
	VelLong  float64 // longitudinal sound velocity in m/s
	VelTrans float64 // transverse sound velocity in m/s
	RadiusNM float64 // sphere radius in nm
	Mode     Mode    // angular momentum index l
}

// Validate checks the physical invariants: positive velocities and radius,
// non-negative mode index.
func (p Params) Validate() error {
	if p.VelLong <= 0 {
		return fmt.Errorf("lamb: longitudinal velocity must be positive, got %g", p.VelLong)
	}
	if p.VelTrans <= 0 {
		return fmt.Errorf("lamb: transverse velocity must be positive, got %g", p.VelTrans)
	}
	if p.RadiusNM <= 0 {
		return fmt.Errorf("lamb: radius must be positive, got %g", p.RadiusNM)
	}
	if p.Mode < 0 {
		return fmt.Errorf("%w: l=%d", ErrUnsupportedMode, int(p.Mode))
	}
	return nil
}

// Eigenvalues returns the dimensionless arguments xi = omega*r/velLong and
// eta = omega*r/velTrans for an angular frequency omega in rad/s. The radius
// is converted from nm to m here.
func (p Params) Eigenvalues(omega float64) (xi, eta float64) {
	r := p.RadiusNM / 1e9
	return omega * r / p.VelLong, omega * r / p.VelTrans
}

// Evaluator computes the characteristic function at a single angular
// frequency. Implementations are pure: no state, no side effects. A sign
// change of the returned value across frequency indicates a resonance.
type Evaluator interface {
	Evaluate(omega float64, p Params) (float64, error)
}

// DivisionFree evaluates the characteristic equation in a polynomial form
// with no Bessel-value denominators. Spherical Bessel functions have zeros
// inside the swept range; formulations that divide by them produce poles
// whose sign flips mimic roots. This form multiplies those denominators
// through, so it is finite everywhere and its sign changes are all genuine.
// It supports every mode l >= 0.
type DivisionFree struct{}

// Evaluate implements Evaluator.
func (DivisionFree) Evaluate(omega float64, p Params) (float64, error) {
	if p.Mode < 0 {
		return 0, fmt.Errorf("%w: l=%d", ErrUnsupportedMode, int(p.Mode))
	}

	xi, eta := p.Eigenvalues(omega)
	l := int(p.Mode)
	jXi := bessel.J(l, xi)
	jXiNext := bessel.J(l+1, xi)

	if p.Mode == Breathing {
		vl2 := p.VelLong * p.VelLong
		vt2 := p.VelTrans * p.VelTrans
		return 4*vt2*jXiNext/(vl2*xi) - jXi, nil
	}

	jEta := bessel.J(l, eta)
	jEtaNext := bessel.J(l+1, eta)
	fl := float64(l)
	eta2 := eta * eta

	a := 4 * (eta2*jEta + (fl-1)*(fl+2)*(eta*jEtaNext-(fl+1)*jEta)) * xi * jXiNext
	b := ((-eta2*eta2+2*(fl-1)*(2*fl+1)*eta2)*jEta +
		2*(eta2-2*fl*(fl-1)*(fl+2))*eta*jEtaNext) * jXi
	return a + b, nil
}

// Ratio evaluates the original per-mode closed forms, which divide by
// spherical Bessel values. Retained as a reference strategy: it has poles at
// the Bessel zeros, so a scan over it needs the discontinuity filter, and the
// quadrupolar form reports NaN when a denominator is exactly zero. Only
// modes l <= 2 are implemented, as in the source equations.
type Ratio struct{}

// Evaluate implements Evaluator.
func (Ratio) Evaluate(omega float64, p Params) (float64, error) {
	xi, eta := p.Eigenvalues(omega)
	l := int(p.Mode)

	switch p.Mode {
	case Breathing:
		vl2 := p.VelLong * p.VelLong
		vt2 := p.VelTrans * p.VelTrans
		return 4*vt2*bessel.J(1, xi)/(vl2*xi) - bessel.J(0, xi), nil

	case Dipolar:
		jXi := bessel.J(l, xi)
		jXiNext := bessel.J(l+1, xi)
		jEta := bessel.J(l, eta)
		jEtaNext := bessel.J(l+1, eta)
		return 4*jXiNext/jXi*xi - eta*eta + 2*jEtaNext/jEta*eta, nil

	case Quadrupolar:
		jXi := bessel.J(l, xi)
		jXiNext := bessel.J(l+1, xi)
		jEta := bessel.J(l, eta)
		jEtaNext := bessel.J(l+1, eta)
		if jXi == 0 || jEta == 0 {
			// Indeterminate: the caller must not read a sign from this.
			return math.NaN(), nil
		}
		eta2 := eta * eta
		return 10*eta2 - eta2*eta2 +
			(eta*jEtaNext*(2*eta2-32))/jEta +
			(jXiNext*xi*(4*eta2+(16*jEtaNext*eta)/jEta-48))/jXi, nil

	default:
		return 0, fmt.Errorf("%w: l=%d (ratio form implements l <= 2 only)", ErrUnsupportedMode, l)
	}
}

// Abs returns the absolute value of the characteristic function. It is the
// objective handed to the bounded minimizer: roots of the function are
// minima of its absolute value.
func Abs(ev Evaluator, omega float64, p Params) (float64, error) {
	v, err := ev.Evaluate(omega, p)
	if err != nil {
		return 0, err
	}
	return math.Abs(v), nil
}

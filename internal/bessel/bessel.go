// Package bessel provides spherical Bessel functions of the first kind,
// the special functions appearing in the spherical-coordinate solution of
// the elastic wave equation.
package bessel

import "math"

// seriesCutoff is the |x| below which the power series replaces the closed
// trigonometric forms. The trig forms cancel catastrophically near zero
// (two O(1) terms differencing to O(x^n)), while the series is fully stable
// there.
const seriesCutoff = 0.5

// J returns the spherical Bessel function of the first kind j_n(x).
//
// Orders 0 through 3 use the closed trigonometric forms; higher orders use
// upward recurrence when |x| >= n and the power series otherwise, so the
// result stays accurate both near zero and for large arguments. The order
// must be non-negative.
func J(n int, x float64) float64 {
	if n < 0 {
		panic("bessel: negative order")
	}

	if x == 0 {
		// Limiting behaviour: j_0(0) = 1, j_n(0) = 0 for n >= 1.
		if n == 0 {
			return 1
		}
		return 0
	}

	ax := math.Abs(x)
	if ax < seriesCutoff || (n >= 4 && ax < float64(n)) {
		return series(n, x)
	}

	switch n {
	case 0:
		return math.Sin(x) / x
	case 1:
		return math.Sin(x)/(x*x) - math.Cos(x)/x
	case 2:
		return (3/(x*x)-1)*math.Sin(x)/x - 3*math.Cos(x)/(x*x)
	case 3:
		return (15/(x*x*x)-6/x)*math.Sin(x)/x - (15/(x*x)-1)*math.Cos(x)/x
	}

	// Upward recurrence j_{m+1} = (2m+1)/x * j_m - j_{m-1}, seeded from the
	// closed forms. Stable here because |x| >= n on this path.
	jm1 := (3/(x*x)-1)*math.Sin(x)/x - 3*math.Cos(x)/(x*x)
	jm := (15/(x*x*x)-6/x)*math.Sin(x)/x - (15/(x*x)-1)*math.Cos(x)/x
	for m := 3; m < n; m++ {
		jm1, jm = jm, float64(2*m+1)/x*jm-jm1
	}
	return jm
}

// series evaluates j_n(x) by its ascending power series
//
//	j_n(x) = x^n/(2n+1)!! * sum_k (-x^2/2)^k / (k! * (2n+3)(2n+5)...(2n+2k+1))
//
// which converges rapidly for |x| < n and has no cancellation between the
// leading terms.
func series(n int, x float64) float64 {
	lead := 1.0
	for k := 3; k <= 2*n+1; k += 2 {
		lead /= float64(k)
	}
	for i := 0; i < n; i++ {
		lead *= x
	}

	sum := 1.0
	term := 1.0
	x2 := -x * x / 2
	for k := 1; k <= 60; k++ {
		term *= x2 / (float64(k) * float64(2*(n+k)+1))
		sum += term
		if math.Abs(term) < 1e-17*math.Abs(sum) {
			break
		}
	}
	return lead * sum
}

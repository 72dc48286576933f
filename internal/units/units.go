// Package units provides shared constants and conversions for frequency units
package units

import "math"

// Unit constants
const (
	RadPerSec = "rads"
	Hertz     = "hz"
	Megahertz = "mhz"
	Gigahertz = "ghz"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{RadPerSec, Hertz, Megahertz, Gigahertz}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "rads, hz, mhz, ghz"
}

// Label returns the display suffix for a unit, e.g. "GHz" for Gigahertz.
func Label(unit string) string {
	switch unit {
	case Hertz:
		return "Hz"
	case Megahertz:
		return "MHz"
	case Gigahertz:
		return "GHz"
	default:
		return "rad/s"
	}
}

// AngularToHz converts an angular frequency in rad/s to Hz
func AngularToHz(omega float64) float64 {
	return omega / (2 * math.Pi)
}

// HzToAngular converts a frequency in Hz to angular rad/s
func HzToAngular(freq float64) float64 {
	return freq * 2 * math.Pi
}

// AngularToGHz converts an angular frequency in rad/s to GHz
// Solver state is kept in rad/s (angular frequency); results are reported in GHz
func AngularToGHz(omega float64) float64 {
	return omega / (2 * math.Pi * 1e9)
}

// GHzToAngular converts a frequency in GHz to angular rad/s
func GHzToAngular(freq float64) float64 {
	return freq * 2 * math.Pi * 1e9
}

// MHzToAngular converts a frequency in MHz to angular rad/s
func MHzToAngular(freq float64) float64 {
	return freq * 2 * math.Pi * 1e6
}

// ConvertAngular converts an angular frequency in rad/s to the target units
func ConvertAngular(omega float64, targetUnits string) float64 {
	switch targetUnits {
	case Hertz:
		return omega / (2 * math.Pi)
	case Megahertz:
		return omega / (2 * math.Pi * 1e6)
	case Gigahertz:
		return omega / (2 * math.Pi * 1e9)
	case RadPerSec:
		return omega
	default:
		return omega // default to rad/s if unknown unit
	}
}

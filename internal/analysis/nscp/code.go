// Package nscp implements analysis.Engine with the rectangular stress block
// of NSCP 2015 (ACI 318 compatible).
package nscp

import "math"

const (
	Beta1Max = 0.85
	Beta1Min = 0.65

	// EpsilonCU is the ultimate concrete strain (410.2.2.1).
	EpsilonCU = 0.003

	PhiFlexure     = 0.90
	PhiCompression = 0.65

	// Es is the modulus of reinforcing steel in MPa.
	Es = 200000.0
)

// Beta1 is the stress block depth factor for f'c in MPa (410.2.7.3).
func Beta1(fc float64) float64 {
	if fc <= 28 {
		return Beta1Max
	}
	return math.Max(Beta1Max-0.05*(fc-28)/7, Beta1Min)
}

// Phi is the strength reduction factor for net tensile strain epsilonT
// (409.3.2), interpolated through the transition zone.
func Phi(epsilonT, fy float64) float64 {
	epsilonTY := fy / Es
	switch {
	case epsilonT >= epsilonTY+0.003:
		return PhiFlexure
	case epsilonT <= epsilonTY:
		return PhiCompression
	}
	return PhiCompression + (PhiFlexure-PhiCompression)*(epsilonT-epsilonTY)/0.003
}

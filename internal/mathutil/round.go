package mathutil

import "math"

// Round rounds v to the given number of decimal digits.
func Round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// Round4 rounds to 4 decimals (positions, angles).
func Round4(v float64) float64 { return Round(v, 4) }

// Round6 rounds to 6 decimals (UVs, times, weights).
func Round6(v float64) float64 { return Round(v, 6) }

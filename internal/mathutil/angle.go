package mathutil

import "math"

// NormalizeDeg wraps an angle into (-180, 180].
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a+180.0, 360.0)
	if a < 0 {
		a += 360.0
	}
	a -= 180.0
	if a == -180.0 {
		return 180.0
	}
	return a
}

// IsVerticalRel reports whether a relative CCW angle sits within tol degrees
// of a perpendicular (±90°) attachment.
func IsVerticalRel(relCCW, tol float64) bool {
	rel := math.Abs(NormalizeDeg(relCCW))
	return math.Abs(rel-90.0) <= tol
}

// Rotate2D rotates (x, y) about the origin by deg degrees CCW.
func Rotate2D(x, y, deg float64) (float64, float64) {
	if math.Abs(deg) < 1e-9 {
		return x, y
	}
	rad := deg * math.Pi / 180.0
	c, s := math.Cos(rad), math.Sin(rad)
	return c*x - s*y, s*x + c*y
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

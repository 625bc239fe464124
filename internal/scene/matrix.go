package scene

import "github.com/go-gl/mathgl/mgl64"

// Matrix is a 4×4 transform stored row-major, as dumped by the authoring
// tool. mathgl stores column-major, so Mat4 transposes.
type Matrix [16]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4 converts to a column-major mgl64 matrix.
func (m Matrix) Mat4() mgl64.Mat4 {
	var out mgl64.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.Set(r, c, m[r*4+c])
		}
	}
	return out
}

// IsZero reports an all-zero (unset) matrix.
func (m Matrix) IsZero() bool {
	for _, v := range m {
		if v != 0 {
			return false
		}
	}
	return true
}

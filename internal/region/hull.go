package region

import "sort"

// triArea2 is twice the signed area (CCW positive) of triangle a-b-c.
func triArea2(pts [][2]float64, a, b, c int) float64 {
	ax, ay := pts[a][0], pts[a][1]
	bx, by := pts[b][0], pts[b][1]
	cx, cy := pts[c][0], pts[c][1]
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

// ConvexHullIndices returns the indices of the convex hull in CCW order
// using the monotone chain. Inputs of 3 points or fewer come back as-is.
func ConvexHullIndices(pts [][2]float64) []int {
	n := len(pts)
	if n <= 3 {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	sorted := make([]int, n)
	for i := range sorted {
		sorted[i] = i
	}
	sort.Slice(sorted, func(a, b int) bool {
		return lessXY(pts, sorted[a], sorted[b])
	})

	cross := func(i, j, k int) float64 {
		return (pts[j][0]-pts[i][0])*(pts[k][1]-pts[i][1]) -
			(pts[j][1]-pts[i][1])*(pts[k][0]-pts[i][0])
	}

	var lower []int
	for _, i := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], i) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, i)
	}
	var upper []int
	for k := n - 1; k >= 0; k-- {
		i := sorted[k]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], i) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, i)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)

	// De-duplicate while preserving order; collinear runs can repeat ends.
	seen := make(map[int]bool, len(hull))
	out := hull[:0]
	for _, i := range hull {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}

func lessXY(pts [][2]float64, a, b int) bool {
	if pts[a][0] != pts[b][0] {
		return pts[a][0] < pts[b][0]
	}
	return pts[a][1] < pts[b][1]
}

package region

import (
	"sort"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

// EdgeOptions controls edge derivation. Mode is one of the config edge
// modes: "boundary", "manual", "mixed" or "all".
type EdgeOptions struct {
	Mode            string
	UseSeams        bool
	UseSharp        bool
	IncludeBoundary bool
}

// edgeCounts tallies undirected edge multiplicities over a triangle list.
// Multiplicity 1 means boundary, 2 means internal.
func edgeCounts(tris []int) map[[2]int]int {
	counts := make(map[[2]int]int)
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		for _, e := range [3][2]int{{a, b}, {b, c}, {c, a}} {
			counts[canonical(e[0], e[1])]++
		}
	}
	return counts
}

func canonical(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

// boundaryEdges returns the edges that appear in exactly one triangle.
func boundaryEdges(tris []int) [][2]int {
	var out [][2]int
	for e, cnt := range edgeCounts(tris) {
		if cnt == 1 {
			out = append(out, e)
		}
	}
	return out
}

// mapSrcEdgeToNew maps a source edge (mesh vertex indices) to the FIRST
// matching NEW indices. Good for marked seams/sharps; UV-split duplicates
// map to their first occurrence.
func mapSrcEdgeToNew(src0, src1 int, newToSrc []SourceRef) ([2]int, bool) {
	first0, first1 := -1, -1
	for newIdx, ref := range newToSrc {
		if first0 < 0 && ref.Vertex == src0 {
			first0 = newIdx
			if first1 >= 0 {
				break
			}
		}
		if first1 < 0 && ref.Vertex == src1 {
			first1 = newIdx
			if first0 >= 0 {
				break
			}
		}
	}
	if first0 < 0 || first1 < 0 || first0 == first1 {
		return [2]int{}, false
	}
	return canonical(first0, first1), true
}

// BuildEdges derives the flat [a,b,...] edge list in NEW index space from
// the final triangle list and the source mesh's marked edges.
func BuildEdges(tris []int, newToSrc []SourceRef, vcount int, meshEdges []scene.Edge, opts EdgeOptions) []int {
	pairs := make(map[[2]int]bool)

	if opts.IncludeBoundary && len(tris) > 0 {
		switch opts.Mode {
		case "boundary", "mixed", "all":
			for _, e := range boundaryEdges(tris) {
				if e[0] >= 0 && e[1] < vcount && e[0] != e[1] {
					pairs[e] = true
				}
			}
		}
	}

	if meshEdges != nil {
		switch opts.Mode {
		case "manual", "mixed", "all":
			for _, e := range meshEdges {
				if opts.Mode != "all" {
					allowed := (opts.UseSeams && e.UseSeam) || (opts.UseSharp && e.UseSharp)
					if !allowed {
						continue
					}
				}
				mapped, ok := mapSrcEdgeToNew(e.Vertices[0], e.Vertices[1], newToSrc)
				if !ok {
					continue
				}
				if mapped[0] >= 0 && mapped[1] < vcount && mapped[0] != mapped[1] {
					pairs[mapped] = true
				}
			}
		}
	}

	sorted := make([][2]int, 0, len(pairs))
	for e := range pairs {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	flat := make([]int, 0, 2*len(sorted))
	for _, e := range sorted {
		flat = append(flat, e[0], e[1])
	}
	return SanitizeEdges(flat, vcount)
}

// SanitizeEdges drops out-of-range indices, a trailing odd element,
// self-loops and duplicate pairs (after a<b canonicalization).
func SanitizeEdges(flat []int, vcount int) []int {
	ints := make([]int, 0, len(flat))
	for _, x := range flat {
		if x >= 0 && x < vcount {
			ints = append(ints, x)
		}
	}
	if len(ints)%2 == 1 {
		ints = ints[:len(ints)-1]
	}
	var out []int
	seen := make(map[[2]int]bool)
	for i := 0; i+1 < len(ints); i += 2 {
		a, b := ints[i], ints[i+1]
		if a == b {
			continue
		}
		p := canonical(a, b)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p[0], p[1])
	}
	return out
}

// PerimeterFromHull synthesizes a closed perimeter edge list from the hull
// order. Needs at least 3 hull vertices.
func PerimeterFromHull(hull []int) []int {
	if len(hull) < 3 {
		return nil
	}
	out := make([]int, 0, 2*len(hull))
	for i := range hull {
		out = append(out, hull[i], hull[(i+1)%len(hull)])
	}
	return out
}

// EncodeEdges converts NEW vertex pairs to the output edge stream: every
// index doubled so it lands on the even X positions of the flattened
// [x,y,...] coordinate list.
func EncodeEdges(pairs []int, vcount int) []int {
	clean := SanitizeEdges(pairs, vcount)
	if len(clean) == 0 {
		return nil
	}
	maxStream := 2*vcount - 1
	var out []int
	for i := 0; i+1 < len(clean); i += 2 {
		a := clean[i] * 2
		b := clean[i+1] * 2
		if a >= 0 && a <= maxStream && b >= 0 && b <= maxStream && a != b {
			out = append(out, a, b)
		}
	}
	return out
}

// Package region turns raw mesh loop data into a deduplicated, hull-first,
// consistently wound attachment region with validated edge topology. The
// "NEW index" space is local to one region: one index per unique
// (source vertex, rounded UV) pair, distinct from the source mesh's
// vertex indices.
package region

import (
	"math"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/mathutil"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

// SourceRef maps one NEW index back to its source vertex and first loop.
type SourceRef struct {
	Vertex int
	Loop   int
}

// Region is the prepared geometry of one attachment, all arrays indexed in
// the same hull-first NEW order.
type Region struct {
	Coords    [][2]float64 // centered region-space coordinates
	UVs       []float64    // flat [u,v,...], rounded to 6 decimals
	NewToSrc  []SourceRef
	Triangles []int // NEW index triples, CCW
	Hull      []int // hull vertex indices, CCW, prefix of the NEW order
}

// VertexCount returns the number of NEW indices.
func (r *Region) VertexCount() int { return len(r.Coords) }

type dedupKey struct {
	vertex int
	u, v   float64 // rounded to 6 decimals, v already flipped
}

// loopUV returns the flipped (u, 1-v) UV for a loop, with the degenerate
// white-UV fallback when no layer data covers it.
func loopUV(uv *scene.UVLayer, loopIndex int) (float64, float64) {
	if uv != nil && loopIndex < len(uv.Data) {
		return uv.Data[loopIndex][0], 1.0 - uv.Data[loopIndex][1]
	}
	return 0.0, 1.0
}

func keyFor(vertex int, uv *scene.UVLayer, loopIndex int) dedupKey {
	u, v := loopUV(uv, loopIndex)
	return dedupKey{vertex: vertex, u: mathutil.Round6(u), v: mathutil.Round6(v)}
}

// buildVertices walks every loop and allocates one NEW index per unique
// (vertex, UV) key. Coordinates are pixel-space, centered on the image
// center, Y up.
func buildVertices(me *scene.Mesh, uv *scene.UVLayer, imgW, imgH int) (uvs []float64, coords [][2]float64, newToSrc []SourceRef, keyToNew map[dedupKey]int) {
	keyToNew = make(map[dedupKey]int)
	cx := float64(imgW) * 0.5
	cy := float64(imgH) * 0.5
	for li, loop := range me.Loops {
		u, v := loopUV(uv, li)
		key := dedupKey{vertex: loop.VertexIndex, u: mathutil.Round6(u), v: mathutil.Round6(v)}
		if _, seen := keyToNew[key]; seen {
			continue
		}
		keyToNew[key] = len(keyToNew)
		newToSrc = append(newToSrc, SourceRef{Vertex: loop.VertexIndex, Loop: li})
		uvs = append(uvs, key.u, key.v)
		coords = append(coords, [2]float64{u*float64(imgW) - cx, cy - v*float64(imgH)})
	}
	return uvs, coords, newToSrc, keyToNew
}

// remapTriangles emits NEW index triples for every source triangle whose
// three corners all resolved to a dedup key, in source corner order.
func remapTriangles(me *scene.Mesh, uv *scene.UVLayer, keyToNew map[dedupKey]int) []int {
	var tris []int
	for _, lt := range me.LoopTriangles {
		k0 := keyFor(lt.Vertices[0], uv, lt.Loops[0])
		k1 := keyFor(lt.Vertices[1], uv, lt.Loops[1])
		k2 := keyFor(lt.Vertices[2], uv, lt.Loops[2])
		a, ok0 := keyToNew[k0]
		b, ok1 := keyToNew[k1]
		c, ok2 := keyToNew[k2]
		if ok0 && ok1 && ok2 {
			tris = append(tris, a, b, c)
		}
	}
	return tris
}

// center subtracts the centroid from every coordinate in place.
func center(coords [][2]float64) {
	if len(coords) == 0 {
		return
	}
	var cx, cy float64
	for _, p := range coords {
		cx += p[0]
		cy += p[1]
	}
	cx /= float64(len(coords))
	cy /= float64(len(coords))
	for i := range coords {
		coords[i][0] -= cx
		coords[i][1] -= cy
	}
}

// hullFirstReorder permutes the region so hull vertices come first, then
// remaps triangles through the permutation, drops degenerate ones and
// forces CCW winding. All arrays move through the same permutation; they
// never drift apart.
func hullFirstReorder(coords [][2]float64, uvs []float64, newToSrc []SourceRef) (*Region, []int) {
	n := len(coords)
	var hull []int
	if n >= 3 {
		hull = ConvexHullIndices(coords)
	} else {
		hull = make([]int, n)
		for i := range hull {
			hull[i] = i
		}
	}

	inHull := make(map[int]bool, len(hull))
	for _, i := range hull {
		inHull[i] = true
	}
	order := make([]int, 0, n)
	order = append(order, hull...)
	for i := 0; i < n; i++ {
		if !inHull[i] {
			order = append(order, i)
		}
	}

	oldToNew := make([]int, n)
	r := &Region{
		Coords:   make([][2]float64, n),
		UVs:      make([]float64, 2*n),
		NewToSrc: make([]SourceRef, n),
	}
	for newIdx, old := range order {
		oldToNew[old] = newIdx
		r.Coords[newIdx] = coords[old]
		r.UVs[2*newIdx] = uvs[2*old]
		r.UVs[2*newIdx+1] = uvs[2*old+1]
		r.NewToSrc[newIdx] = newToSrc[old]
	}

	// Hull indices become 0..len(hull)-1 under the permutation.
	r.Hull = make([]int, len(hull))
	for i := range hull {
		r.Hull[i] = i
	}
	return r, oldToNew
}

// applyTriangles remaps triangles through the permutation, dropping
// degenerates and swapping CW triangles to CCW. An empty result with ≥3
// points falls back to a fan from index 0.
func (r *Region) applyTriangles(tris []int, oldToNew []int) {
	var out []int
	for i := 0; i+2 < len(tris); i += 3 {
		a := oldToNew[tris[i]]
		b := oldToNew[tris[i+1]]
		c := oldToNew[tris[i+2]]
		area2 := triArea2(r.Coords, a, b, c)
		if math.Abs(area2) < 1e-9 {
			continue
		}
		if area2 < 0 {
			b, c = c, b
		}
		out = append(out, a, b, c)
	}
	if len(out) == 0 && len(r.Coords) >= 3 {
		for i := 1; i < len(r.Coords)-1; i++ {
			out = append(out, 0, i, i+1)
		}
	}
	r.Triangles = out
}

// Prepare runs the full region pipeline: dedup, optional pre-rotation,
// triangle remap, centering, hull-first reorder and winding correction.
func Prepare(me *scene.Mesh, uv *scene.UVLayer, imgW, imgH int, rotateDeg float64) *Region {
	uvs, coords, newToSrc, keyToNew := buildVertices(me, uv, imgW, imgH)
	if math.Abs(rotateDeg) > 1e-9 {
		for i := range coords {
			coords[i][0], coords[i][1] = mathutil.Rotate2D(coords[i][0], coords[i][1], rotateDeg)
		}
	}
	tris := remapTriangles(me, uv, keyToNew)
	center(coords)
	r, oldToNew := hullFirstReorder(coords, uvs, newToSrc)
	r.applyTriangles(tris, oldToNew)
	return r
}

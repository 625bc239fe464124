// Package weights decides whether a mesh exports weighted, builds the
// normalized per-vertex bone influences, and picks slot bones by the fixed
// priority policy.
package weights

import (
	"sort"
	"strings"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

// Influence is one bone's normalized pull on a vertex.
type Influence struct {
	Bone   string
	Weight float64
}

// MeshHasDeformWeights reports whether any vertex carries a deform-bone
// group with weight above eps. Meshes without one export unweighted.
func MeshHasDeformWeights(o *scene.Object, deformNames map[string]bool, eps float64) bool {
	me := o.Mesh
	if me == nil || len(me.VertexGroups) == 0 {
		return false
	}
	for _, v := range me.Vertices {
		for _, g := range v.Groups {
			if g.Group < 0 || g.Group >= len(me.VertexGroups) {
				continue
			}
			if deformNames[me.VertexGroups[g.Group]] && g.Weight > eps {
				return true
			}
		}
	}
	return false
}

// BuildVertexInfluences collects deform-bone weights per vertex, prunes
// weights at or below eps, keeps the strongest maxInfluences, renormalizes
// to sum 1.0, and substitutes a single fallback entry when nothing
// survives. Equal weights keep their group order (stable sort).
func BuildVertexInfluences(o *scene.Object, deformNames map[string]bool, eps float64, maxInfluences int, fallbackBone string) map[int][]Influence {
	me := o.Mesh
	out := make(map[int][]Influence, len(me.Vertices))

	for vi, v := range me.Vertices {
		var raw []Influence
		for _, g := range v.Groups {
			if g.Group < 0 || g.Group >= len(me.VertexGroups) {
				continue
			}
			name := me.VertexGroups[g.Group]
			if deformNames[name] && g.Weight > 0 {
				raw = append(raw, Influence{Bone: name, Weight: g.Weight})
			}
		}

		kept := raw[:0]
		for _, in := range raw {
			if in.Weight > eps {
				kept = append(kept, in)
			}
		}
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].Weight > kept[j].Weight })
		if len(kept) > maxInfluences {
			kept = kept[:maxInfluences]
		}

		if len(kept) == 0 {
			out[vi] = []Influence{{Bone: fallbackBone, Weight: 1.0}}
			continue
		}
		var sum float64
		for _, in := range kept {
			sum += in.Weight
		}
		norm := make([]Influence, len(kept))
		for i, in := range kept {
			w := 0.0
			if sum > 0 {
				w = in.Weight / sum
			}
			norm[i] = Influence{Bone: in.Bone, Weight: w}
		}
		out[vi] = norm
	}
	return out
}

// DominantDeformGroup returns the deform group present on the most
// vertices of the mesh, or "".
func DominantDeformGroup(o *scene.Object, deformNames map[string]bool) string {
	me := o.Mesh
	if me == nil {
		return ""
	}
	counts := make(map[string]int)
	var seen []string
	for _, v := range me.Vertices {
		for _, g := range v.Groups {
			if g.Group < 0 || g.Group >= len(me.VertexGroups) {
				continue
			}
			name := me.VertexGroups[g.Group]
			if deformNames[name] && g.Weight > 0 {
				if counts[name] == 0 {
					seen = append(seen, name)
				}
				counts[name]++
			}
		}
	}
	// Ties go to the group met first while walking vertices.
	best := ""
	bestCount := 0
	for _, name := range seen {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}

// FirstNonrootDeformChild picks a deform fallback bone: first a deform
// bone whose parent is a top-level bone, then any parented deform bone,
// then any deform bone at all.
func FirstNonrootDeformChild(bones []*scene.Bone, deformNames map[string]bool) string {
	roots := make(map[string]bool)
	for _, b := range bones {
		if b.Parent == "" {
			roots[b.Name] = true
		}
	}
	for _, b := range bones {
		if deformNames[b.Name] && b.Parent != "" && roots[b.Parent] {
			return b.Name
		}
	}
	for _, b := range bones {
		if deformNames[b.Name] && b.Parent != "" {
			return b.Name
		}
	}
	for _, b := range bones {
		if deformNames[b.Name] {
			return b.Name
		}
	}
	return ""
}

// rootBone implements the shared root rule: a top-level bone literally
// named "root" (case-insensitive), else the first top-level bone, else the
// first bone.
func rootBone(bones []*scene.Bone) string {
	var tops []*scene.Bone
	for _, b := range bones {
		if b.Parent == "" {
			tops = append(tops, b)
		}
	}
	for _, b := range tops {
		if strings.EqualFold(b.Name, "root") {
			return b.Name
		}
	}
	if len(tops) > 0 {
		return tops[0].Name
	}
	if len(bones) > 0 {
		return bones[0].Name
	}
	return ""
}

// PickSlotBone chooses the slot bone for a mesh object, in priority order:
// armature-parented without a bone attachment → root rule; dominant deform
// group; first non-root deform child; root rule again.
func PickSlotBone(o, arm *scene.Object, boneIndex map[string]int, bones []*scene.Bone, deformNames map[string]bool) string {
	if arm != nil && o.Parent == arm.Name && o.ParentBone == "" {
		return rootBone(bones)
	}

	if dom := DominantDeformGroup(o, deformNames); dom != "" {
		if _, ok := boneIndex[dom]; ok {
			return dom
		}
	}

	if fb := FirstNonrootDeformChild(bones, deformNames); fb != "" {
		return fb
	}

	return rootBone(bones)
}

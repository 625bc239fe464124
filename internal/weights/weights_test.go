package weights

import (
	"math"
	"testing"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

func weightedMesh() *scene.Object {
	return &scene.Object{
		Name: "Body",
		Type: scene.TypeMesh,
		Mesh: &scene.Mesh{
			VertexGroups: []string{"spine", "hip", "helper"},
			Vertices: []scene.Vertex{
				{Groups: []scene.GroupWeight{
					{Group: 0, Weight: 0.6},
					{Group: 1, Weight: 0.2},
				}},
				{Groups: []scene.GroupWeight{
					{Group: 2, Weight: 0.9}, // non-deform group
				}},
				{Groups: []scene.GroupWeight{
					{Group: 0, Weight: 1e-6}, // below eps
				}},
			},
		},
	}
}

var deformSet = map[string]bool{"spine": true, "hip": true}

func TestMeshHasDeformWeights(t *testing.T) {
	o := weightedMesh()
	if !MeshHasDeformWeights(o, deformSet, 1e-4) {
		t.Error("mesh with deform groups reported unweighted")
	}

	// Only non-deform or sub-eps entries left.
	o.Mesh.Vertices = o.Mesh.Vertices[1:]
	if MeshHasDeformWeights(o, deformSet, 1e-4) {
		t.Error("mesh without live deform weights reported weighted")
	}

	if MeshHasDeformWeights(&scene.Object{Mesh: &scene.Mesh{}}, deformSet, 1e-4) {
		t.Error("groupless mesh reported weighted")
	}
}

func TestBuildVertexInfluences(t *testing.T) {
	o := weightedMesh()
	infl := BuildVertexInfluences(o, deformSet, 1e-4, 4, "root")

	// Vertex 0: two deform entries renormalized to sum 1, strongest first.
	v0 := infl[0]
	if len(v0) != 2 {
		t.Fatalf("v0=%v; expected 2 influences", v0)
	}
	if v0[0].Bone != "spine" || v0[1].Bone != "hip" {
		t.Errorf("v0 order=%v; expected spine then hip", v0)
	}
	var sum float64
	for _, in := range v0 {
		sum += in.Weight
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("v0 weights sum to %v; expected 1", sum)
	}
	if math.Abs(v0[0].Weight-0.75) > 1e-9 {
		t.Errorf("v0[0].Weight=%v; expected 0.75", v0[0].Weight)
	}

	// Vertex 1 has only a non-deform group, vertex 2 only sub-eps weight:
	// both fall back to the single full-weight bone.
	for _, vi := range []int{1, 2} {
		v := infl[vi]
		if len(v) != 1 || v[0].Bone != "root" || v[0].Weight != 1.0 {
			t.Errorf("v%d=%v; expected the root fallback", vi, v)
		}
	}
}

func TestBuildVertexInfluencesTruncates(t *testing.T) {
	o := &scene.Object{
		Mesh: &scene.Mesh{
			VertexGroups: []string{"a", "b", "c"},
			Vertices: []scene.Vertex{
				{Groups: []scene.GroupWeight{
					{Group: 0, Weight: 0.5},
					{Group: 1, Weight: 0.3},
					{Group: 2, Weight: 0.2},
				}},
			},
		},
	}
	all := map[string]bool{"a": true, "b": true, "c": true}
	infl := BuildVertexInfluences(o, all, 1e-4, 2, "root")

	v := infl[0]
	if len(v) != 2 {
		t.Fatalf("v=%v; expected truncation to 2", v)
	}
	if v[0].Bone != "a" || v[1].Bone != "b" {
		t.Errorf("kept=%v; expected the two strongest", v)
	}
	if math.Abs(v[0].Weight+v[1].Weight-1.0) > 1e-6 {
		t.Errorf("truncated weights not renormalized: %v", v)
	}
}

func TestDominantDeformGroup(t *testing.T) {
	o := &scene.Object{
		Mesh: &scene.Mesh{
			VertexGroups: []string{"hip", "spine"},
			Vertices: []scene.Vertex{
				{Groups: []scene.GroupWeight{{Group: 1, Weight: 0.5}}},
				{Groups: []scene.GroupWeight{{Group: 1, Weight: 0.5}}},
				{Groups: []scene.GroupWeight{{Group: 0, Weight: 0.9}}},
			},
		},
	}
	if got := DominantDeformGroup(o, deformSet); got != "spine" {
		t.Errorf("DominantDeformGroup=%q; expected spine", got)
	}

	// A tie resolves to the group met first while walking vertices,
	// not the earlier declared group.
	o.Mesh.Vertices = o.Mesh.Vertices[1:]
	if got := DominantDeformGroup(o, deformSet); got != "spine" {
		t.Errorf("tied DominantDeformGroup=%q; expected spine", got)
	}
}

func TestFirstNonrootDeformChild(t *testing.T) {
	bones := []*scene.Bone{
		{Name: "root"},
		{Name: "spine", Parent: "root"},
		{Name: "arm", Parent: "spine"},
	}
	deform := map[string]bool{"spine": true, "arm": true}
	if got := FirstNonrootDeformChild(bones, deform); got != "spine" {
		t.Errorf("got %q; expected the first root child", got)
	}

	// No root children deform: any parented deform bone.
	deform = map[string]bool{"arm": true}
	if got := FirstNonrootDeformChild(bones, deform); got != "arm" {
		t.Errorf("got %q; expected arm", got)
	}

	if got := FirstNonrootDeformChild(bones, nil); got != "" {
		t.Errorf("got %q; expected none", got)
	}
}

func TestPickSlotBone(t *testing.T) {
	arm := &scene.Object{Name: "Armature", Type: scene.TypeArmature}
	bones := []*scene.Bone{
		{Name: "Root"},
		{Name: "spine", Parent: "Root"},
	}
	boneIndex := map[string]int{"Root": 0, "spine": 1}
	deform := map[string]bool{"spine": true}

	// Parented straight to the armature without a bone attachment.
	o := &scene.Object{Name: "Prop", Parent: "Armature"}
	if got := PickSlotBone(o, arm, boneIndex, bones, deform); got != "Root" {
		t.Errorf("armature-parented slot bone=%q; expected Root", got)
	}

	// Dominant deform group wins for weighted meshes.
	o = weightedMesh()
	if got := PickSlotBone(o, arm, boneIndex, bones, deform); got != "spine" {
		t.Errorf("weighted slot bone=%q; expected spine", got)
	}

	// No groups at all: falls through to the first non-root deform child.
	o = &scene.Object{Name: "Plain", Mesh: &scene.Mesh{}}
	if got := PickSlotBone(o, arm, boneIndex, bones, deform); got != "spine" {
		t.Errorf("fallback slot bone=%q; expected spine", got)
	}
}

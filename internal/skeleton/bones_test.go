package skeleton

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

func testArmature() *scene.Object {
	return &scene.Object{
		Name:        "Armature",
		Type:        scene.TypeArmature,
		MatrixWorld: scene.Identity(),
		Bones: []*scene.Bone{
			{Name: "root", HeadLocal: mgl64.Vec3{0, 0, 0}, TailLocal: mgl64.Vec3{1, 0, 0}},
			{Name: "up", Parent: "root", HeadLocal: mgl64.Vec3{2, 0, 0}, TailLocal: mgl64.Vec3{2, 0, 1}},
			{Name: "diag", Parent: "root", HeadLocal: mgl64.Vec3{1, 0, 0}, TailLocal: mgl64.Vec3{2, 0, 1}},
		},
	}
}

func TestBuildRootBone(t *testing.T) {
	arm := testArmature()
	p := BuildPose(arm, mgl64.Ident4())
	bones := Build(p, Params{Scale: 100, RootRotationDeg: 90, VerticalTolDeg: 10})

	if len(bones) != 3 {
		t.Fatalf("got %d bones; expected 3", len(bones))
	}
	root := bones[0]
	if root.Name != "root" || root.Parent != "" {
		t.Fatalf("root bone = %+v", root)
	}
	if root.Length != 100 {
		t.Errorf("root length=%v; expected 100", root.Length)
	}
	if root.Rotation != 90 {
		t.Errorf("root rotation=%v; expected the configured 90", root.Rotation)
	}
	if root.X != 0 || root.Y != 0 {
		t.Errorf("root offset=(%v,%v); expected origin", root.X, root.Y)
	}
}

func TestBuildChildOffsetAndRotation(t *testing.T) {
	arm := testArmature()
	p := BuildPose(arm, mgl64.Ident4())
	bones := Build(p, Params{Scale: 100, VerticalTolDeg: 10})

	// "up" hangs perpendicular off a root pointing along +X: its head is
	// two units down the parent axis, so x=200 in the parent basis and y=0.
	up := bones[1]
	if up.Parent != "root" {
		t.Fatalf("up bone = %+v", up)
	}
	if math.Abs(up.X-200) > 1e-9 {
		t.Errorf("up.X=%v; expected 200", up.X)
	}
	if up.Y != 0 {
		t.Errorf("up.Y=%v; expected omitted 0", up.Y)
	}
	if up.Length != 100 {
		t.Errorf("up.Length=%v; expected 100", up.Length)
	}
	// Perpendicular attachment inside the tolerance keeps the raw sign.
	if math.Abs(up.Rotation-(-90)) > 1e-9 {
		t.Errorf("up.Rotation=%v; expected -90", up.Rotation)
	}
}

func TestBuildNonVerticalSignFlip(t *testing.T) {
	arm := testArmature()
	p := BuildPose(arm, mgl64.Ident4())
	bones := Build(p, Params{Scale: 100, VerticalTolDeg: 10})

	// "diag" rises at 45° relative to the parent, outside the tolerance
	// band, so the projected rotation sign is compensated.
	diag := bones[2]
	if math.Abs(diag.Rotation-45) > 1e-9 {
		t.Errorf("diag.Rotation=%v; expected 45", diag.Rotation)
	}
}

func TestBuildMinimumLength(t *testing.T) {
	arm := &scene.Object{
		Name:        "Armature",
		Type:        scene.TypeArmature,
		MatrixWorld: scene.Identity(),
		Bones: []*scene.Bone{
			{Name: "dot", HeadLocal: mgl64.Vec3{0, 0, 0}, TailLocal: mgl64.Vec3{0, 0, 0}},
		},
	}
	p := BuildPose(arm, mgl64.Ident4())
	bones := Build(p, Params{Scale: 100})
	if bones[0].Length != 0.01 {
		t.Errorf("zero-length bone got length %v; expected the 0.01 floor", bones[0].Length)
	}
}

func TestDeformNames(t *testing.T) {
	no := false
	arm := testArmature()
	arm.Bones = append(arm.Bones, &scene.Bone{Name: "helper", Parent: "root", Deform: &no})
	p := BuildPose(arm, mgl64.Ident4())

	names := p.DeformNames()
	if !names["root"] || !names["up"] || !names["diag"] {
		t.Errorf("deform names missing defaults: %v", names)
	}
	if names["helper"] {
		t.Error("non-deform bone listed as deform")
	}
}

func TestIndexByName(t *testing.T) {
	idx := IndexByName([]Bone{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	if idx["a"] != 0 || idx["b"] != 1 || idx["c"] != 2 {
		t.Errorf("IndexByName=%v", idx)
	}
}

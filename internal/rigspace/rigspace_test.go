package rigspace

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

func TestFrameMatricesFallbacks(t *testing.T) {
	arm := &scene.Object{Name: "Armature", Type: scene.TypeArmature, MatrixWorld: scene.Identity()}

	// No empty at all.
	s := &scene.Scene{Objects: []*scene.Object{arm}}
	f := FrameMatrices(s, arm, "", false)
	if f.To != mgl64.Ident4() {
		t.Error("missing empty must yield the identity frame")
	}

	// Disabled flag wins even with an empty present.
	root := &scene.Object{Name: "Root", Type: scene.TypeEmpty, MatrixWorld: scene.Identity()}
	s = &scene.Scene{Objects: []*scene.Object{root, arm}}
	f = FrameMatrices(s, arm, "", true)
	if f.To != mgl64.Ident4() {
		t.Error("disabled frame must be identity")
	}

	// Singular reference matrix falls back to identity.
	root.MatrixWorld = scene.Matrix{}
	f = FrameMatrices(s, arm, "Root", false)
	if f.To != mgl64.Ident4() {
		t.Error("singular reference must fall back to identity")
	}
}

func TestFrameMatricesDividesOutTranslation(t *testing.T) {
	arm := &scene.Object{Name: "Armature", Type: scene.TypeArmature, MatrixWorld: scene.Identity()}
	root := &scene.Object{
		Name: "Root",
		Type: scene.TypeEmpty,
		MatrixWorld: scene.Matrix{
			1, 0, 0, 5,
			0, 1, 0, 0,
			0, 0, 1, 3,
			0, 0, 0, 1,
		},
	}
	s := &scene.Scene{Objects: []*scene.Object{root, arm}}
	f := FrameMatrices(s, arm, "Root", false)

	p := f.To.Mul4x1(mgl64.Vec4{5, 0, 3, 1}).Vec3()
	if p.Len() > 1e-9 {
		t.Errorf("empty origin maps to %v; expected the frame origin", p)
	}
}

func TestAngleCCWXZ(t *testing.T) {
	tests := []struct {
		head, tail mgl64.Vec3
		want       float64
	}{
		{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 0},
		{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}, 90},
		{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{-1, 0, 0}, 180},
		{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1}, -90},
		{mgl64.Vec3{1, 0, 1}, mgl64.Vec3{2, 0, 2}, 45},
		{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 5, 0}, 0}, // degenerate in the plane
	}
	for _, test := range tests {
		got := AngleCCWXZ(test.head, test.tail)
		if math.Abs(got-test.want) > 1e-9 {
			t.Errorf("AngleCCWXZ(%v,%v)=%v; expected %v", test.head, test.tail, got, test.want)
		}
	}
}

func TestBasisProjection(t *testing.T) {
	// Bone along +Z: U=(0,1), V=(-1,0).
	b := BasisFromParent(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 2})
	x, y := b.ProjectPx(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 3}, 100)
	if math.Abs(x-300) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("along-bone point projected to (%v,%v); expected (300,0)", x, y)
	}
	x, y = b.ProjectPx(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 100)
	if math.Abs(x) > 1e-9 || math.Abs(y-(-100)) > 1e-9 {
		t.Errorf("perpendicular point projected to (%v,%v); expected (0,-100)", x, y)
	}
}

func TestBasisDegenerate(t *testing.T) {
	b := BasisFromParent(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{1, 0, 1})
	if b.U != [2]float64{1, 0} || b.V != [2]float64{0, 1} {
		t.Errorf("degenerate basis = %+v; expected the X axis", b)
	}
}

func TestAutoRigScale(t *testing.T) {
	meshes := []*scene.Object{
		{Name: "a", Dimensions: [3]float64{2, 0, 2}},
		{Name: "b", Dimensions: [3]float64{4, 0, 4}},
		{Name: "noimg", Dimensions: [3]float64{1, 0, 1}},
	}
	sizes := map[string][2]int{
		"a": {200, 200}, // 100 px/unit both axes
		"b": {800, 800}, // 200 px/unit both axes
	}
	sizeOf := func(o *scene.Object) (int, int, bool) {
		s, ok := sizes[o.Name]
		return s[0], s[1], ok
	}

	got := AutoRigScale(meshes, sizeOf, 0.01, 10000)
	if got != 150 {
		t.Errorf("AutoRigScale=%v; expected the median 150", got)
	}

	// Clamp.
	got = AutoRigScale(meshes, sizeOf, 0.01, 120)
	if got != 120 {
		t.Errorf("AutoRigScale clamped=%v; expected 120", got)
	}

	// No samples.
	got = AutoRigScale(meshes, func(*scene.Object) (int, int, bool) { return 0, 0, false }, 0.01, 10000)
	if got != 1.0 {
		t.Errorf("AutoRigScale with no samples=%v; expected 1", got)
	}
}

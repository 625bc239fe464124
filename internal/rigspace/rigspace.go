// Package rigspace establishes the export reference frame and the 2-D
// bone bases every downstream projection uses. All bone math happens in
// frame space: world space with the designated root empty's transform
// divided out, so scene placement never leaks into the output.
package rigspace

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

// Frame is the pair of mutually inverse transforms for one export pass.
type Frame struct {
	To   mgl64.Mat4 // world → frame
	From mgl64.Mat4 // frame → world
}

// IdentityFrame is the silent fallback when no reference empty exists.
func IdentityFrame() Frame {
	return Frame{To: mgl64.Ident4(), From: mgl64.Ident4()}
}

// FrameMatrices resolves the root-reference frame for an armature. A
// missing empty or a singular reference matrix falls back to identity,
// never to an error.
func FrameMatrices(s *scene.Scene, arm *scene.Object, rootEmptyName string, disabled bool) Frame {
	if disabled {
		return IdentityFrame()
	}
	empty := s.FindRootEmpty(arm, rootEmptyName)
	if empty == nil {
		return IdentityFrame()
	}
	from := empty.MatrixWorld.Mat4()
	if math.Abs(from.Det()) < 1e-12 {
		return IdentityFrame()
	}
	return Frame{To: from.Inv(), From: from}
}

// HeadTailInFrame returns a bone's head and tail in frame space: object
// space through the armature's world matrix, then through toFrame.
func HeadTailInFrame(b *scene.Bone, arm *scene.Object, toFrame mgl64.Mat4) (head, tail mgl64.Vec3) {
	mw := arm.MatrixWorld.Mat4()
	head = transformPoint(toFrame, transformPoint(mw, b.HeadLocal))
	tail = transformPoint(toFrame, transformPoint(mw, b.TailLocal))
	return head, tail
}

func transformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// AngleCCWXZ is the CCW angle in degrees of head→tail in the (X,Z) plane;
// zero for a degenerate segment.
func AngleCCWXZ(head, tail mgl64.Vec3) float64 {
	dx := tail.X() - head.X()
	dz := tail.Z() - head.Z()
	if math.Abs(dx) < 1e-12 && math.Abs(dz) < 1e-12 {
		return 0.0
	}
	return math.Atan2(dz, dx) * 180.0 / math.Pi
}

// Basis is a bone's local 2-D frame: unit tangent U along head→tail and
// its perpendicular V.
type Basis struct {
	U [2]float64
	V [2]float64
}

// BasisFromParent derives the basis from a head/tail pair. A zero-length
// segment degrades to the X axis.
func BasisFromParent(head, tail mgl64.Vec3) Basis {
	dx := tail.X() - head.X()
	dz := tail.Z() - head.Z()
	l := math.Hypot(dx, dz)
	var ux, uz float64
	if l < 1e-12 {
		ux, uz = 1.0, 0.0
	} else {
		ux, uz = dx/l, dz/l
	}
	return Basis{U: [2]float64{ux, uz}, V: [2]float64{-uz, ux}}
}

// ProjectPx projects a frame-space point onto the basis anchored at head,
// scaled to output pixels.
func (b Basis) ProjectPx(head, point mgl64.Vec3, scalePx float64) (x, y float64) {
	vx := point.X() - head.X()
	vz := point.Z() - head.Z()
	x = (b.U[0]*vx + b.U[1]*vz) * scalePx
	y = (b.V[0]*vx + b.V[1]*vz) * scalePx
	return x, y
}

// ImageSizer reports the texture pixel size bound to a mesh object.
type ImageSizer func(o *scene.Object) (w, h int, ok bool)

// AutoRigScale derives px-per-unit from the median of image-size /
// mesh-dimension ratios across all meshes, clamped to [min, max].
// Returns 1.0 when nothing is sampled.
func AutoRigScale(meshes []*scene.Object, sizeOf ImageSizer, min, max float64) float64 {
	var samples []float64
	for _, o := range meshes {
		w, h, ok := sizeOf(o)
		if !ok {
			continue
		}
		dimX := math.Max(o.Dimensions[0], 1e-6)
		dimZ := math.Max(o.Dimensions[2], 1e-6)
		if w > 0 {
			samples = append(samples, float64(w)/dimX)
		}
		if h > 0 {
			samples = append(samples, float64(h)/dimZ)
		}
	}
	if len(samples) == 0 {
		return 1.0
	}
	sort.Float64s(samples)
	var med float64
	n := len(samples)
	if n%2 == 1 {
		med = samples[n/2]
	} else {
		med = 0.5 * (samples[n/2-1] + samples[n/2])
	}
	return math.Min(max, math.Max(min, med))
}

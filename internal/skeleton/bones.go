// Package skeleton derives the serialized bone list: parent-relative
// offsets and rotations computed from frame-space head/tail positions.
package skeleton

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/mathutil"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/rigspace"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

// Bone is one serialized bone record. Zero-rounding fields are omitted;
// length is always present.
type Bone struct {
	Name     string  `json:"name"`
	Parent   string  `json:"parent,omitempty"`
	Length   float64 `json:"length"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
}

// Pose caches every bone's frame-space head, tail and CCW angle for one
// export pass. It is the shared read-only input of the region, weight and
// curve stages.
type Pose struct {
	Bones []*scene.Bone
	Head  map[string]mgl64.Vec3
	Tail  map[string]mgl64.Vec3
	Angle map[string]float64
}

// BuildPose resolves all bones of an armature into frame space.
func BuildPose(arm *scene.Object, toFrame mgl64.Mat4) *Pose {
	p := &Pose{
		Bones: arm.Bones,
		Head:  make(map[string]mgl64.Vec3, len(arm.Bones)),
		Tail:  make(map[string]mgl64.Vec3, len(arm.Bones)),
		Angle: make(map[string]float64, len(arm.Bones)),
	}
	for _, b := range arm.Bones {
		h, t := rigspace.HeadTailInFrame(b, arm, toFrame)
		p.Head[b.Name] = h
		p.Tail[b.Name] = t
		p.Angle[b.Name] = rigspace.AngleCCWXZ(h, t)
	}
	return p
}

// Basis returns the named bone's 2-D basis.
func (p *Pose) Basis(name string) rigspace.Basis {
	return rigspace.BasisFromParent(p.Head[name], p.Tail[name])
}

// DeformNames returns the set of deform-eligible bone names.
func (p *Pose) DeformNames() map[string]bool {
	out := make(map[string]bool, len(p.Bones))
	for _, b := range p.Bones {
		if b.UseDeform() {
			out[b.Name] = true
		}
	}
	return out
}

// Params are the skeleton serialization settings.
type Params struct {
	Scale           float64
	RootRotationDeg float64
	VerticalTolDeg  float64
}

// Build emits the ordered bone list. Array position is the index other
// records reference. Root bones carry the configured absolute rotation;
// children carry the parent-relative rotation with the vertical-tolerance
// sign correction.
func Build(p *Pose, params Params) []Bone {
	out := make([]Bone, 0, len(p.Bones))
	for _, b := range p.Bones {
		h := p.Head[b.Name]
		t := p.Tail[b.Name]
		lengthPx := math.Max(0.01, math.Hypot(t.X()-h.X(), t.Z()-h.Z())*params.Scale)

		if b.Parent == "" {
			out = append(out, Bone{
				Name:     b.Name,
				Length:   mathutil.Round4(lengthPx),
				Rotation: mathutil.Round4(params.RootRotationDeg),
			})
			continue
		}

		basis := p.Basis(b.Parent)
		x, y := basis.ProjectPx(p.Head[b.Parent], h, params.Scale)

		relCCW := p.Angle[b.Name] - p.Angle[b.Parent]
		rot := mathutil.NormalizeDeg(-relCCW)
		// Basis projection flips orientation for non-perpendicular
		// attachments; compensate unless the bone hangs near ±90°.
		if !mathutil.IsVerticalRel(relCCW, params.VerticalTolDeg) {
			rot = -rot
		}

		rec := Bone{Name: b.Name, Parent: b.Parent, Length: mathutil.Round4(lengthPx)}
		if math.Abs(x) > 1e-6 {
			rec.X = mathutil.Round4(x)
		}
		if math.Abs(y) > 1e-6 {
			rec.Y = mathutil.Round4(y)
		}
		if math.Abs(rot) > 1e-6 {
			rec.Rotation = mathutil.Round4(rot)
		}
		out = append(out, rec)
	}
	return out
}

// IndexByName maps bone name → serialization index.
func IndexByName(bones []Bone) map[string]int {
	out := make(map[string]int, len(bones))
	for i, b := range bones {
		out[b.Name] = i
	}
	return out
}

package spine

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/anim"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/config"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/jsonmap"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/mathutil"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/region"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/rigspace"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/skeleton"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/texture"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/weights"
)

// Options configures one export pass.
type Options struct {
	Config config.Config
	OutDir string
	Sizes  *texture.SizeCache
}

// Prepared pairs a slot with its compiled region geometry, for preview
// rendering after the export.
type Prepared struct {
	Slot   string
	Region *region.Region
	Edges  []int
}

// Export compiles a scene into an output document. Fatal conditions (no
// armature, no linked meshes) abort with an error; per-attachment issues
// are logged and the export continues.
func Export(s *scene.Scene, opts Options, ctx *Context) (*Document, []Prepared, error) {
	cfg := opts.Config

	arm := s.ActiveArmature()
	if arm == nil {
		return nil, nil, fmt.Errorf("spine: no armature found")
	}

	meshes := s.MeshesFor(arm)
	if len(meshes) == 0 {
		return nil, nil, fmt.Errorf("spine: no meshes linked to armature %q", arm.Name)
	}

	// Draw order: farthest first along world Y, ties by name, both
	// descending.
	sort.SliceStable(meshes, func(i, j int) bool {
		yi := meshes[i].WorldTranslation().Y()
		yj := meshes[j].WorldTranslation().Y()
		if yi != yj {
			return yi > yj
		}
		return meshes[i].Name > meshes[j].Name
	})

	sizeOf := func(o *scene.Object) (int, int, bool) {
		info := texture.Discover(o, opts.Sizes)
		if info == nil || info.Width <= 0 || info.Height <= 0 {
			return 0, 0, false
		}
		return info.Width, info.Height, true
	}

	var scale float64
	if cfg.RigScaleMode == config.ScaleConstant {
		scale = cfg.RigScaleConstant
	} else {
		scale = rigspace.AutoRigScale(meshes, sizeOf, cfg.AutoScaleMin, cfg.AutoScaleMax)
	}
	ctx.Logf("[SpineExport] Rig scale = %.4f px/BU", scale)

	frame := rigspace.FrameMatrices(s, arm, cfg.RootEmptyName, cfg.NoRootFrame)
	pose := skeleton.BuildPose(arm, frame.To)

	bones := skeleton.Build(pose, skeleton.Params{
		Scale:           scale,
		RootRotationDeg: cfg.RootRotationDeg,
		VerticalTolDeg:  cfg.VerticalTolDeg,
	})
	boneIndex := skeleton.IndexByName(bones)
	deformNames := pose.DeformNames()

	var slots []Slot
	attachments := jsonmap.New[*jsonmap.Map[*Attachment]]()
	var prepared []Prepared

	for _, o := range meshes {
		slotName := o.Name
		slotBone := weights.PickSlotBone(o, arm, boneIndex, arm.Bones, deformNames)
		slots = append(slots, Slot{Name: slotName, Bone: slotBone, Attachment: slotName})

		att, prep := buildAttachment(s, o, arm, pose, frame, scale, slotBone, boneIndex, deformNames, opts, ctx)

		slotAtts := jsonmap.New[*Attachment]()
		slotAtts.Set(slotName, att)
		attachments.Set(slotName, slotAtts)
		prepared = append(prepared, prep)
	}

	animations := jsonmap.New[*anim.Animation]()
	if name, a := anim.Build(arm, s.FPS, scale, *cfg.Axis); a != nil {
		animations.Set(name, a)
	}

	doc := &Document{
		Skeleton: Header{
			Spine:  cfg.SpineVersion,
			Images: "./textures/",
		},
		Bones:      bones,
		Slots:      slots,
		Skins:      []Skin{{Name: "default", Attachments: attachments}},
		Animations: animations,
	}
	return doc, prepared, nil
}

func buildAttachment(s *scene.Scene, o, arm *scene.Object, pose *skeleton.Pose, frame rigspace.Frame, scale float64, slotBone string, boneIndex map[string]int, deformNames map[string]bool, opts Options, ctx *Context) (*Attachment, Prepared) {
	cfg := opts.Config
	me := o.Mesh
	slotName := o.Name

	// Image and UV resolution; a mesh without an image gets the degenerate
	// 100×100 fallback and its slot name as path.
	info := texture.Discover(o, opts.Sizes)
	imgW, imgH := 100, 100
	regionPath := slotName
	var uvLayer *scene.UVLayer
	if info != nil {
		if info.Width > 0 && info.Height > 0 {
			imgW, imgH = info.Width, info.Height
		}
		regionPath = info.Stem
		if info.Path != "" {
			rel, inside := texture.RelInside(opts.OutDir, info.Path)
			if !inside && !cfg.NoTextureCopy {
				copied, err := texture.CopyInto(opts.OutDir, info.Path, cfg.PreserveParentDirs)
				if err != nil {
					ctx.Logf("[SpineExport] WARN texture copy failed: %v", err)
				} else {
					rel = copied
				}
			}
			if rel != "" {
				regionPath = texture.RegionPath(rel)
			}
		}
		if info.UVMap != "" {
			uvLayer = me.UVLayerByName(info.UVMap)
		}
	}
	if uvLayer == nil {
		uvLayer = me.ActiveUVLayer()
	}

	reg := region.Prepare(me, uvLayer, imgW, imgH, cfg.MeshRotation(o.Name))
	vcount := reg.VertexCount()

	weighted := weights.MeshHasDeformWeights(o, deformNames, cfg.WeightEps)

	// Attachment center: mesh world centroid brought into frame space,
	// projected on the slot bone's basis for placement.
	mw := o.MatrixWorld.Mat4()
	var centerWorld mgl64.Vec3
	if len(me.Vertices) > 0 {
		var sum mgl64.Vec3
		for _, v := range me.Vertices {
			sum = sum.Add(mw.Mul4x1(v.Co.Vec4(1)).Vec3())
		}
		centerWorld = sum.Mul(1.0 / float64(len(me.Vertices)))
	} else {
		centerWorld = mw.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
	}
	centerFrame := frame.To.Mul4x1(centerWorld.Vec4(1)).Vec3()

	slotBasis := pose.Basis(slotBone)
	attLX, attLY := slotBasis.ProjectPx(pose.Head[slotBone], centerFrame, scale)

	fallback := weights.FirstNonrootDeformChild(arm.Bones, deformNames)
	if fallback == "" {
		fallback = slotBone
	}

	var verts []float64
	if weighted {
		influences := weights.BuildVertexInfluences(o, deformNames, cfg.WeightEps, cfg.MaxInfluences, fallback)
		verts = weightedVertices(reg, pose, slotBasis, slotBone, scale, attLX, attLY, influences, fallback, boneIndex)
	} else {
		verts = make([]float64, 0, 2*vcount)
		for _, p := range reg.Coords {
			verts = append(verts, mathutil.Round4(p[0]), mathutil.Round4(p[1]))
		}
	}

	att := &Attachment{
		Type:      "mesh",
		Name:      slotName,
		Path:      regionPath,
		UVs:       reg.UVs,
		Triangles: reg.Triangles,
		Vertices:  verts,
	}

	var encoded []int
	if !cfg.OmitNonessential && cfg.EdgesMode != config.EdgesOff {
		raw := region.BuildEdges(reg.Triangles, reg.NewToSrc, vcount, me.Edges, region.EdgeOptions{
			Mode:            cfg.EdgesMode,
			UseSeams:        true,
			UseSharp:        true,
			IncludeBoundary: cfg.EdgesMode != config.EdgesAll,
		})
		clean := region.SanitizeEdges(raw, vcount)
		if len(clean) == 0 && len(reg.Hull) >= 3 {
			clean = region.PerimeterFromHull(reg.Hull)
		}
		if len(clean) > 0 {
			encoded = region.EncodeEdges(clean, vcount)
		}

		if len(reg.Hull) > 0 {
			att.Hull = max(3, len(reg.Hull))
		} else {
			att.Hull = vcount
		}
		if len(encoded) > 0 && len(encoded)%2 == 0 {
			att.Edges = encoded
		}
	}

	// Per-attachment recovery: an invalid edge stream loses its edges, not
	// its mesh.
	if err := region.ValidateEdges(slotName, att.Edges, len(att.UVs)); err != nil {
		ctx.Logf("[EdgeValidation][ERROR] %q: %v", slotName, err)
		att.Edges = nil
	} else {
		ctx.Logf("[OK] %s: weighted=%t v=%d vertsLen=%d edgesLen=%d",
			slotName, weighted, len(att.UVs)/2, len(att.Vertices), len(att.Edges))
	}

	return att, Prepared{Slot: slotName, Region: reg, Edges: att.Edges}
}

// weightedVertices emits the self-describing weighted stream. Region
// coordinates are lifted back through the slot-bone basis into frame
// space, then projected into each influencing bone's basis.
func weightedVertices(reg *region.Region, pose *skeleton.Pose, slotBasis rigspace.Basis, slotBone string, scale, attLX, attLY float64, influences map[int][]weights.Influence, fallback string, boneIndex map[string]int) []float64 {
	var out []float64
	head := pose.Head[slotBone]
	for newI, src := range reg.NewToSrc {
		lx := reg.Coords[newI][0] + attLX
		ly := reg.Coords[newI][1] + attLY

		dx := slotBasis.U[0]*(lx/scale) + slotBasis.V[0]*(ly/scale)
		dz := slotBasis.U[1]*(lx/scale) + slotBasis.V[1]*(ly/scale)
		pF := mgl64.Vec3{head.X() + dx, 0, head.Z() + dz}

		infl := influences[src.Vertex]
		if len(infl) == 0 {
			infl = []weights.Influence{{Bone: fallback, Weight: 1.0}}
		}

		out = append(out, float64(len(infl)))
		for _, in := range infl {
			bn := in.Bone
			if _, ok := boneIndex[bn]; !ok {
				bn = fallback
			}
			basis := pose.Basis(bn)
			px, py := basis.ProjectPx(pose.Head[bn], pF, scale)
			out = append(out,
				float64(boneIndex[bn]),
				mathutil.Round4(px), mathutil.Round4(py),
				mathutil.Round6(in.Weight))
		}
	}
	return out
}

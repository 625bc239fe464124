package anim

import (
	"fmt"
	"math"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/config"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/jsonmap"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/mathutil"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

func bonePath(bone, prop string) string {
	return fmt.Sprintf("pose.bones[%q].%s", bone, prop)
}

// channelsFor returns the action's F-curves for a bone property, keyed by
// array index.
func channelsFor(action *scene.Action, path string) map[int]*scene.FCurve {
	out := make(map[int]*scene.FCurve)
	for _, fc := range action.FCurves {
		if fc.DataPath == path {
			out[fc.ArrayIndex] = fc
		}
	}
	return out
}

// Build produces the animation payload for an armature's action, keyed by
// the action name. Bones appear in skeleton traversal order. Returns
// ("", nil) when the armature carries no action.
func Build(arm *scene.Object, fps, scale float64, axis config.AxisMap) (string, *Animation) {
	action := arm.Action
	if action == nil {
		return "", nil
	}

	name := action.Name
	if name == "" {
		name = "Action"
	}

	bones := jsonmap.New[*BoneTimelines]()
	for _, b := range arm.Bones {
		tl := buildBoneTimelines(action, b.Name, fps, scale, axis)
		if tl != nil {
			bones.Set(b.Name, tl)
		}
	}

	a := &Animation{}
	if bones.Len() > 0 {
		a.Bones = bones
	}
	return name, a
}

func buildBoneTimelines(action *scene.Action, bone string, fps, scale float64, axis config.AxisMap) *BoneTimelines {
	var tl BoneTimelines

	// Translate: both mapped location channels must exist. Values go to
	// output pixels; both axes are always written.
	loc := channelsFor(action, bonePath(bone, "location"))
	if fx, fy := loc[axis.LocX], loc[axis.LocY]; fx != nil && fy != nil {
		px := func(v float64) float64 { return mathutil.Round4(v * scale) }
		keys := emitTimelines([]*scene.FCurve{fx, fy}, fps, []valueXform{px, px})
		for _, k := range keys {
			tl.Translate = append(tl.Translate, TranslateKey{Time: k.Time, X: k.Vals[0], Y: k.Vals[1], Curve: k.Curve})
		}
	}

	// Rotate: a single Euler channel, radians → degrees. Near-zero values
	// are omitted from their records; a timeline with no written value at
	// all is dropped.
	rotIdx := axis.RotEuler
	if override, ok := axis.RotEulerByBone[bone]; ok {
		rotIdx = override
	}
	if fr := channelsFor(action, bonePath(bone, "rotation_euler"))[rotIdx]; fr != nil {
		deg := func(v float64) float64 { return mathutil.Round4(mathutil.Rad2Deg(v)) }
		keys := emitTimelines([]*scene.FCurve{fr}, fps, []valueXform{deg})
		wroteAny := false
		for _, k := range keys {
			rk := RotateKey{Time: k.Time, Curve: k.Curve}
			if math.Abs(k.Vals[0]) > 1e-9 {
				v := k.Vals[0]
				rk.Value = &v
				wroteAny = true
			}
			tl.Rotate = append(tl.Rotate, rk)
		}
		if !wroteAny {
			tl.Rotate = nil
		}
	}

	// Scale: unitless, rounded finer than positions.
	scl := channelsFor(action, bonePath(bone, "scale"))
	if fx, fy := scl[axis.ScaleX], scl[axis.ScaleY]; fx != nil && fy != nil {
		id := func(v float64) float64 { return mathutil.Round6(v) }
		keys := emitTimelines([]*scene.FCurve{fx, fy}, fps, []valueXform{id, id})
		for _, k := range keys {
			tl.Scale = append(tl.Scale, ScaleKey{Time: k.Time, X: k.Vals[0], Y: k.Vals[1], Curve: k.Curve})
		}
	}

	if tl.Translate == nil && tl.Rotate == nil && tl.Scale == nil {
		return nil
	}
	return &tl
}

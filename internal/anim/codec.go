// Package anim reconstructs output keyframe timelines from sparse source
// F-curves without baking: Bezier tangent handles are re-encoded as
// absolute-seconds/absolute-value control arrays, constant segments become
// stepped records, everything else stays linear (no curve tag).
package anim

import (
	"math"
	"sort"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/mathutil"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

type valueXform func(float64) float64

// sampled is one record of the union timeline before channel-specific
// field mapping.
type sampled struct {
	Time  float64
	Vals  []float64
	Curve any
}

func seconds(frame, fps float64) float64 {
	if fps > 0 {
		return frame / fps
	}
	return frame
}

// handlesToCurve converts the right handle of the start key and the left
// handle of the end key into a 4-number absolute-time control array.
// Returns nil unless both endpoints are smooth, the values actually change
// and the time span is non-degenerate.
func handlesToCurve(ki, kj *scene.Keyframe, fps float64, xf valueXform) []float64 {
	if ki == nil || kj == nil {
		return nil
	}
	if ki.Interpolation != scene.InterpBezier || kj.Interpolation != scene.InterpBezier {
		return nil
	}
	if math.Abs(kj.Co[0]-ki.Co[0]) <= 1e-12 {
		return nil
	}
	if math.Abs(kj.Co[1]-ki.Co[1]) <= 1e-12 {
		return nil
	}
	vx := func(v float64) float64 {
		if xf != nil {
			return xf(v)
		}
		return v
	}
	return []float64{
		mathutil.Round6(seconds(ki.HandleRight[0], fps)),
		mathutil.Round6(vx(ki.HandleRight[1])),
		mathutil.Round6(seconds(kj.HandleLeft[0], fps)),
		mathutil.Round6(vx(kj.HandleLeft[1])),
	}
}

// emitTimelines samples every channel at the sorted union of keyframe
// frames and tags each interval: stepped when the start key is constant,
// a curve array when both endpoints are smooth, linear otherwise.
func emitTimelines(fcs []*scene.FCurve, fps float64, xforms []valueXform) []sampled {
	if len(fcs) == 0 {
		return nil
	}

	frameSet := make(map[int]bool)
	for _, fc := range fcs {
		for _, kp := range fc.Keyframes {
			frameSet[int(math.Round(kp.Co[0]))] = true
		}
	}
	if len(frameSet) == 0 {
		return nil
	}
	frames := make([]int, 0, len(frameSet))
	for f := range frameSet {
		frames = append(frames, f)
	}
	sort.Ints(frames)

	keys := make([]sampled, 0, len(frames))
	for idx, f := range frames {
		rec := sampled{Time: mathutil.Round6(seconds(float64(f), fps))}
		for ch, fc := range fcs {
			v := fc.Evaluate(float64(f))
			if ch < len(xforms) && xforms[ch] != nil {
				v = xforms[ch](v)
			}
			rec.Vals = append(rec.Vals, v)
		}

		if idx < len(frames)-1 {
			next := frames[idx+1]
			kiRef := fcs[0].KeyframeAt(f)
			kjRef := fcs[0].KeyframeAt(next)
			if kiRef != nil && kiRef.Interpolation == scene.InterpConstant {
				rec.Curve = "stepped"
			} else if len(fcs) == 1 {
				if c := handlesToCurve(kiRef, kjRef, fps, xf(xforms, 0)); c != nil {
					rec.Curve = c
				}
			} else {
				cx := handlesToCurve(fcs[0].KeyframeAt(f), fcs[0].KeyframeAt(next), fps, xf(xforms, 0))
				cy := handlesToCurve(fcs[1].KeyframeAt(f), fcs[1].KeyframeAt(next), fps, xf(xforms, 1))
				if cx != nil && cy != nil {
					rec.Curve = append(cx, cy...)
				}
			}
		}
		keys = append(keys, rec)
	}
	return keys
}

func xf(xforms []valueXform, ch int) valueXform {
	if ch < len(xforms) {
		return xforms[ch]
	}
	return nil
}

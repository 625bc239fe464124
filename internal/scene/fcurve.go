package scene

import "math"

// KeyframeAt returns the keyframe whose frame rounds to the given integer
// frame, or nil.
func (fc *FCurve) KeyframeAt(frame int) *Keyframe {
	for i := range fc.Keyframes {
		if int(math.Round(fc.Keyframes[i].Co[0])) == frame {
			return &fc.Keyframes[i]
		}
	}
	return nil
}

// Evaluate samples the channel at an arbitrary frame. Outside the keyed
// range the endpoint value holds. Within a segment the start keyframe's
// interpolation mode decides: CONSTANT holds, LINEAR lerps, BEZIER solves
// the cubic through the tangent handles.
func (fc *FCurve) Evaluate(frame float64) float64 {
	kps := fc.Keyframes
	if len(kps) == 0 {
		return 0
	}
	if frame <= kps[0].Co[0] {
		return kps[0].Co[1]
	}
	last := kps[len(kps)-1]
	if frame >= last.Co[0] {
		return last.Co[1]
	}

	for i := 0; i < len(kps)-1; i++ {
		k0, k1 := &kps[i], &kps[i+1]
		if frame < k0.Co[0] || frame > k1.Co[0] {
			continue
		}
		switch k0.Interpolation {
		case InterpConstant:
			return k0.Co[1]
		case InterpLinear:
			return lerpSegment(k0, k1, frame)
		default:
			return bezierSegment(k0, k1, frame)
		}
	}
	return last.Co[1]
}

func lerpSegment(k0, k1 *Keyframe, frame float64) float64 {
	span := k1.Co[0] - k0.Co[0]
	if span <= 1e-12 {
		return k0.Co[1]
	}
	t := (frame - k0.Co[0]) / span
	return k0.Co[1] + t*(k1.Co[1]-k0.Co[1])
}

// bezierSegment evaluates the 2-D cubic through (co, handleRight) of the
// start key and (handleLeft, co) of the end key. Handle X positions are
// clamped into the segment so x(t) stays monotonic, then t is found for the
// requested frame by bisection.
func bezierSegment(k0, k1 *Keyframe, frame float64) float64 {
	x0, y0 := k0.Co[0], k0.Co[1]
	x3, y3 := k1.Co[0], k1.Co[1]
	x1, y1 := k0.HandleRight[0], k0.HandleRight[1]
	x2, y2 := k1.HandleLeft[0], k1.HandleLeft[1]

	x1 = clamp(x1, x0, x3)
	x2 = clamp(x2, x0, x3)

	if x3-x0 <= 1e-12 {
		return y0
	}

	lo, hi := 0.0, 1.0
	t := 0.5
	for i := 0; i < 64; i++ {
		t = 0.5 * (lo + hi)
		x := cubic(x0, x1, x2, x3, t)
		if math.Abs(x-frame) < 1e-9 {
			break
		}
		if x < frame {
			lo = t
		} else {
			hi = t
		}
	}
	return cubic(y0, y1, y2, y3, t)
}

func cubic(p0, p1, p2, p3, t float64) float64 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

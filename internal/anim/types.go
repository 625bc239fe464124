package anim

import "github.com/SimonHeggie/Blender-Spine-IO/internal/jsonmap"

// Animation is one named animation's payload.
type Animation struct {
	Bones *jsonmap.Map[*BoneTimelines] `json:"bones,omitempty"`
}

// BoneTimelines groups one bone's transform timelines.
type BoneTimelines struct {
	Translate []TranslateKey `json:"translate,omitempty"`
	Rotate    []RotateKey    `json:"rotate,omitempty"`
	Scale     []ScaleKey     `json:"scale,omitempty"`
}

// TranslateKey always writes both axes so the runtime shows motion even
// when one stays zero. Curve is "stepped", an 8-number control array, or
// absent (linear).
type TranslateKey struct {
	Time  float64 `json:"time"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Curve any     `json:"curve,omitempty"`
}

// RotateKey omits near-zero values rather than writing zeros.
type RotateKey struct {
	Time  float64  `json:"time"`
	Value *float64 `json:"value,omitempty"`
	Curve any      `json:"curve,omitempty"`
}

// ScaleKey always writes both axes.
type ScaleKey struct {
	Time  float64 `json:"time"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Curve any     `json:"curve,omitempty"`
}

package scene

import "github.com/go-gl/mathgl/mgl64"

// Object types as tagged in the scene document.
const (
	TypeArmature = "ARMATURE"
	TypeMesh     = "MESH"
	TypeEmpty    = "EMPTY"
)

// Keyframe interpolation modes.
const (
	InterpBezier   = "BEZIER"
	InterpConstant = "CONSTANT"
	InterpLinear   = "LINEAR"
)

// Scene is a read-only dump of the authoring tool's scene: object hierarchy,
// armature bones, mesh loop data and keyframed channels.
type Scene struct {
	FPS     float64   `json:"fps"`
	Objects []*Object `json:"objects"`
}

// Object is one scene object. Mesh and bone data are present only for the
// matching type; Parent/ParentBone describe the scene hierarchy.
type Object struct {
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Parent      string     `json:"parent,omitempty"`
	ParentBone  string     `json:"parent_bone,omitempty"`
	MatrixWorld Matrix     `json:"matrix_world"`
	Dimensions  [3]float64 `json:"dimensions"`

	Image *ImageRef `json:"image,omitempty"`
	Mesh  *Mesh     `json:"mesh,omitempty"`

	// Armature payload.
	Bones  []*Bone `json:"bones,omitempty"`
	Action *Action `json:"action,omitempty"`
}

// ImageRef points at the first texture image bound to a mesh's material.
// Width/Height may be zero; the texture package probes the file then.
type ImageRef struct {
	Name     string `json:"name"`
	Filepath string `json:"filepath,omitempty"`
	UVMap    string `json:"uv_map,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Mesh carries the triangulated loop structure of one mesh object.
type Mesh struct {
	Armature      string         `json:"armature,omitempty"` // armature-modifier target object
	Vertices      []Vertex       `json:"vertices"`
	VertexGroups  []string       `json:"vertex_groups,omitempty"`
	Loops         []Loop         `json:"loops"`
	UVLayers      []UVLayer      `json:"uv_layers,omitempty"`
	LoopTriangles []LoopTriangle `json:"loop_triangles"`
	Edges         []Edge         `json:"edges,omitempty"`
}

// Vertex is a source mesh vertex with its deform-group memberships.
type Vertex struct {
	Co     mgl64.Vec3    `json:"co"`
	Groups []GroupWeight `json:"groups,omitempty"`
}

// GroupWeight is one vertex-group membership (index into Mesh.VertexGroups).
type GroupWeight struct {
	Group  int     `json:"group"`
	Weight float64 `json:"weight"`
}

// Loop is one face corner referencing a source vertex.
type Loop struct {
	VertexIndex int `json:"vertex_index"`
}

// UVLayer holds per-loop UV coordinates.
type UVLayer struct {
	Name   string       `json:"name"`
	Active bool         `json:"active,omitempty"`
	Data   [][2]float64 `json:"data"`
}

// LoopTriangle is one triangle of the triangulated mesh, with both vertex
// and loop indices per corner.
type LoopTriangle struct {
	Vertices [3]int `json:"vertices"`
	Loops    [3]int `json:"loops"`
}

// Edge is a source mesh edge with its artist markings.
type Edge struct {
	Vertices [2]int `json:"vertices"`
	UseSeam  bool   `json:"use_seam,omitempty"`
	UseSharp bool   `json:"use_sharp,omitempty"`
}

// Bone is one armature bone in object space.
type Bone struct {
	Name      string     `json:"name"`
	Parent    string     `json:"parent,omitempty"`
	HeadLocal mgl64.Vec3 `json:"head_local"`
	TailLocal mgl64.Vec3 `json:"tail_local"`
	Deform    *bool      `json:"use_deform,omitempty"`
}

// UseDeform reports whether the bone receives vertex weights. Absent in the
// document means deform, matching the authoring tool's default.
func (b *Bone) UseDeform() bool {
	return b.Deform == nil || *b.Deform
}

// Action is the armature's keyframed action.
type Action struct {
	Name    string    `json:"name"`
	FCurves []*FCurve `json:"fcurves"`
}

// FCurve is one keyframed transform channel.
type FCurve struct {
	DataPath   string     `json:"data_path"`
	ArrayIndex int        `json:"array_index"`
	Keyframes  []Keyframe `json:"keyframes"`
}

// Keyframe is one knot with its tangent handles in (frame, value) space.
type Keyframe struct {
	Co            [2]float64 `json:"co"`
	HandleLeft    [2]float64 `json:"handle_left"`
	HandleRight   [2]float64 `json:"handle_right"`
	Interpolation string     `json:"interpolation"`
}

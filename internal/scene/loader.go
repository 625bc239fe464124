package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a scene document from a JSON file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	if err := s.normalize(); err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return &s, nil
}

// normalize applies document defaults and rejects structurally broken input.
// A dumped fps of exactly -1 means "no scene fps": times stay in raw frames.
func (s *Scene) normalize() error {
	if s.FPS == 0 {
		s.FPS = 24
	}
	for _, o := range s.Objects {
		if o.Name == "" {
			return fmt.Errorf("object with empty name")
		}
		if o.MatrixWorld.IsZero() {
			o.MatrixWorld = Identity()
		}
		if o.Type == TypeMesh && o.Mesh == nil {
			return fmt.Errorf("mesh object %q has no mesh block", o.Name)
		}
		if o.Mesh != nil {
			if err := o.Mesh.check(o.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (me *Mesh) check(owner string) error {
	nVerts := len(me.Vertices)
	nLoops := len(me.Loops)
	for _, l := range me.Loops {
		if l.VertexIndex < 0 || l.VertexIndex >= nVerts {
			return fmt.Errorf("mesh %q: loop vertex index %d out of range", owner, l.VertexIndex)
		}
	}
	for _, lt := range me.LoopTriangles {
		for c := 0; c < 3; c++ {
			if lt.Vertices[c] < 0 || lt.Vertices[c] >= nVerts {
				return fmt.Errorf("mesh %q: triangle vertex %d out of range", owner, lt.Vertices[c])
			}
			if lt.Loops[c] < 0 || lt.Loops[c] >= nLoops {
				return fmt.Errorf("mesh %q: triangle loop %d out of range", owner, lt.Loops[c])
			}
		}
	}
	for _, v := range me.Vertices {
		for _, g := range v.Groups {
			if g.Group < 0 || g.Group >= len(me.VertexGroups) {
				return fmt.Errorf("mesh %q: vertex group index %d out of range", owner, g.Group)
			}
		}
	}
	return nil
}

package scene

import "github.com/go-gl/mathgl/mgl64"

// ObjectByName returns the named object, or nil.
func (s *Scene) ObjectByName(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// ActiveArmature returns the first armature object in the scene, or nil.
func (s *Scene) ActiveArmature() *Object {
	for _, o := range s.Objects {
		if o.Type == TypeArmature {
			return o
		}
	}
	return nil
}

// ArmatureForMesh resolves which armature drives a mesh object: the
// armature-modifier target first, then the parent chain.
func (s *Scene) ArmatureForMesh(o *Object) *Object {
	if o.Mesh != nil && o.Mesh.Armature != "" {
		if a := s.ObjectByName(o.Mesh.Armature); a != nil && a.Type == TypeArmature {
			return a
		}
	}
	for p := s.ObjectByName(o.Parent); p != nil; p = s.ObjectByName(p.Parent) {
		if p.Type == TypeArmature {
			return p
		}
	}
	return nil
}

// MeshesFor returns every mesh object driven by the given armature.
func (s *Scene) MeshesFor(arm *Object) []*Object {
	var out []*Object
	for _, o := range s.Objects {
		if o.Type == TypeMesh && s.ArmatureForMesh(o) == arm {
			out = append(out, o)
		}
	}
	return out
}

// wellKnownRootNames are tried in order when no reference empty is configured.
var wellKnownRootNames = []string{"Root", "root", "ROOT", "RigRoot", "SceneRoot", "ArmatureRoot"}

// FindRootEmpty locates the designated root-reference empty: the configured
// name first, then the armature's EMPTY parent, then well-known names.
func (s *Scene) FindRootEmpty(arm *Object, configuredName string) *Object {
	if configuredName != "" {
		if o := s.ObjectByName(configuredName); o != nil && o.Type == TypeEmpty {
			return o
		}
	}
	if p := s.ObjectByName(arm.Parent); p != nil && p.Type == TypeEmpty {
		return p
	}
	for _, name := range wellKnownRootNames {
		if o := s.ObjectByName(name); o != nil && o.Type == TypeEmpty {
			return o
		}
	}
	return nil
}

// WorldTranslation returns the object's world-space position.
func (o *Object) WorldTranslation() mgl64.Vec3 {
	return mgl64.Vec3{o.MatrixWorld[3], o.MatrixWorld[7], o.MatrixWorld[11]}
}

// ActiveUVLayer returns the layer flagged active, else the first, else nil.
func (me *Mesh) ActiveUVLayer() *UVLayer {
	for i := range me.UVLayers {
		if me.UVLayers[i].Active {
			return &me.UVLayers[i]
		}
	}
	if len(me.UVLayers) > 0 {
		return &me.UVLayers[0]
	}
	return nil
}

// UVLayerByName returns the named layer, or nil.
func (me *Mesh) UVLayerByName(name string) *UVLayer {
	for i := range me.UVLayers {
		if me.UVLayers[i].Name == name {
			return &me.UVLayers[i]
		}
	}
	return nil
}

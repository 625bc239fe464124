package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Edge derivation modes for attachment topology.
const (
	EdgesBoundary = "boundary"
	EdgesManual   = "manual"
	EdgesMixed    = "mixed"
	EdgesAll      = "all"
	EdgesOff      = "off"
)

// Rig scale modes.
const (
	ScaleAuto     = "auto"
	ScaleConstant = "constant"
)

// AxisMap fixes how source transform channels map onto output axes. It is
// resolved once at pipeline start, never per sample.
type AxisMap struct {
	LocX     int `json:"loc_x" yaml:"loc_x"` // source location index feeding output x
	LocY     int `json:"loc_y" yaml:"loc_y"`
	RotEuler int `json:"rot_euler" yaml:"rot_euler"` // Euler axis driving rotation
	ScaleX   int `json:"scale_x" yaml:"scale_x"`
	ScaleY   int `json:"scale_y" yaml:"scale_y"`

	// Per-bone Euler axis overrides, keyed by bone name.
	RotEulerByBone map[string]int `json:"rot_euler_by_bone,omitempty" yaml:"rot_euler_by_bone,omitempty"`
}

// DefaultAxisMap matches the reference rig convention: output x from
// location index 1, output y from index 0, rotation from Euler Z, scale
// from source indexes 0 and 2.
func DefaultAxisMap() AxisMap {
	return AxisMap{LocX: 1, LocY: 0, RotEuler: 2, ScaleX: 0, ScaleY: 2}
}

// Config holds all exporter settings. Booleans are named so that the zero
// value is the reference behavior.
type Config struct {
	SpineVersion string `json:"spine_version" yaml:"spine_version"`
	OutputDir    string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	RigScaleMode     string  `json:"rig_scale_mode" yaml:"rig_scale_mode"`
	RigScaleConstant float64 `json:"rig_scale_constant" yaml:"rig_scale_constant"`
	AutoScaleMin     float64 `json:"auto_scale_min" yaml:"auto_scale_min"`
	AutoScaleMax     float64 `json:"auto_scale_max" yaml:"auto_scale_max"`

	RootRotationDeg float64 `json:"root_rotation_deg" yaml:"root_rotation_deg"`
	VerticalTolDeg  float64 `json:"vertical_tol_deg" yaml:"vertical_tol_deg"`

	WeightEps     float64 `json:"weight_eps" yaml:"weight_eps"`
	MaxInfluences int     `json:"max_influences" yaml:"max_influences"`

	EdgesMode        string `json:"edges_mode" yaml:"edges_mode"`
	OmitNonessential bool   `json:"omit_nonessential" yaml:"omit_nonessential"` // skip hull/edges output

	MeshRotateDeg      float64            `json:"mesh_rotate_deg" yaml:"mesh_rotate_deg"`
	MeshRotateByObject map[string]float64 `json:"mesh_rotate_by_object,omitempty" yaml:"mesh_rotate_by_object,omitempty"`

	RootEmptyName string `json:"root_empty_name" yaml:"root_empty_name"`
	NoRootFrame   bool   `json:"no_root_frame" yaml:"no_root_frame"` // force identity frame

	NoTextureCopy      bool `json:"no_texture_copy" yaml:"no_texture_copy"`
	PreserveParentDirs int  `json:"preserve_parent_dirs" yaml:"preserve_parent_dirs"`

	PreviewSize int `json:"preview_size" yaml:"preview_size"`
	Supersample int `json:"supersample" yaml:"supersample"`

	Workers int `json:"workers" yaml:"workers"`

	Axis *AxisMap `json:"axis_map,omitempty" yaml:"axis_map,omitempty"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Workers   int
	EdgesMode string
}

// Load reads a JSON or YAML config file, by extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Resolve fills empty fields with defaults and applies CLI overrides.
func (c *Config) Resolve(flags Flags) error {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.EdgesMode != "" {
		c.EdgesMode = flags.EdgesMode
	}

	if c.SpineVersion == "" {
		c.SpineVersion = "4.2.43"
	}
	if c.RigScaleMode == "" {
		c.RigScaleMode = ScaleAuto
	}
	c.RigScaleMode = strings.ToLower(c.RigScaleMode)
	if c.RigScaleMode != ScaleAuto && c.RigScaleMode != ScaleConstant {
		return fmt.Errorf("config: unknown rig_scale_mode %q", c.RigScaleMode)
	}
	if c.RigScaleConstant <= 0 {
		c.RigScaleConstant = 100
	}
	if c.AutoScaleMin <= 0 {
		c.AutoScaleMin = 0.01
	}
	if c.AutoScaleMax <= 0 {
		c.AutoScaleMax = 10000
	}
	if c.VerticalTolDeg <= 0 {
		c.VerticalTolDeg = 10
	}
	if c.WeightEps <= 0 {
		c.WeightEps = 1e-4
	}
	if c.MaxInfluences <= 0 {
		c.MaxInfluences = 4
	}
	if c.EdgesMode == "" {
		c.EdgesMode = EdgesAll
	}
	c.EdgesMode = strings.ToLower(strings.TrimSpace(c.EdgesMode))
	switch c.EdgesMode {
	case EdgesBoundary, EdgesManual, EdgesMixed, EdgesAll, EdgesOff:
	default:
		return fmt.Errorf("config: unknown edges_mode %q", c.EdgesMode)
	}
	if c.PreserveParentDirs <= 0 {
		c.PreserveParentDirs = 1
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Axis == nil {
		a := DefaultAxisMap()
		c.Axis = &a
	}
	return nil
}

// MeshRotation returns the pre-rotation angle for the named mesh object.
func (c *Config) MeshRotation(name string) float64 {
	if v, ok := c.MeshRotateByObject[name]; ok {
		return v
	}
	return c.MeshRotateDeg
}

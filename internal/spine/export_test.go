package spine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/config"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/texture"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Config{
		RigScaleMode:     config.ScaleConstant,
		RigScaleConstant: 100,
	}
	if err := cfg.Resolve(config.Flags{}); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func quadMeshObject(name string, weighted bool) *scene.Object {
	me := &scene.Mesh{
		Vertices: []scene.Vertex{
			{Co: mgl64.Vec3{-0.5, 0, -0.5}},
			{Co: mgl64.Vec3{0.5, 0, -0.5}},
			{Co: mgl64.Vec3{0.5, 0, 0.5}},
			{Co: mgl64.Vec3{-0.5, 0, 0.5}},
		},
		Loops: []scene.Loop{
			{VertexIndex: 0}, {VertexIndex: 1}, {VertexIndex: 2}, {VertexIndex: 3},
		},
		UVLayers: []scene.UVLayer{{
			Name:   "UVMap",
			Active: true,
			Data:   [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		}},
		LoopTriangles: []scene.LoopTriangle{
			{Vertices: [3]int{0, 1, 2}, Loops: [3]int{0, 1, 2}},
			{Vertices: [3]int{0, 2, 3}, Loops: [3]int{0, 2, 3}},
		},
		Edges: []scene.Edge{
			{Vertices: [2]int{0, 1}},
			{Vertices: [2]int{1, 2}},
			{Vertices: [2]int{2, 3}},
			{Vertices: [2]int{3, 0}},
			{Vertices: [2]int{0, 2}},
		},
	}
	if weighted {
		me.VertexGroups = []string{"up"}
		for i := range me.Vertices {
			me.Vertices[i].Groups = []scene.GroupWeight{{Group: 0, Weight: 1}}
		}
	}
	return &scene.Object{
		Name:        name,
		Type:        scene.TypeMesh,
		Parent:      "Armature",
		MatrixWorld: scene.Identity(),
		Dimensions:  [3]float64{1, 0, 1},
		Image:       &scene.ImageRef{Name: name + ".png", Width: 100, Height: 100},
		Mesh:        me,
	}
}

func testScene(weighted bool) *scene.Scene {
	arm := &scene.Object{
		Name:        "Armature",
		Type:        scene.TypeArmature,
		Parent:      "Root",
		MatrixWorld: scene.Identity(),
		Bones: []*scene.Bone{
			{Name: "root", HeadLocal: mgl64.Vec3{0, 0, 0}, TailLocal: mgl64.Vec3{1, 0, 0}},
			{Name: "up", Parent: "root", HeadLocal: mgl64.Vec3{0, 0, 0}, TailLocal: mgl64.Vec3{0, 0, 1}},
		},
	}
	root := &scene.Object{Name: "Root", Type: scene.TypeEmpty, MatrixWorld: scene.Identity()}
	return &scene.Scene{
		FPS:     24,
		Objects: []*scene.Object{root, arm, quadMeshObject("Body", weighted)},
	}
}

func TestExportFatalErrors(t *testing.T) {
	cfg := testConfig(t)
	opts := Options{Config: cfg, OutDir: t.TempDir(), Sizes: texture.NewSizeCache()}
	ctx := NewContext()
	ctx.Quiet = true

	s := &scene.Scene{Objects: []*scene.Object{}}
	if _, _, err := Export(s, opts, ctx); err == nil {
		t.Error("armatureless scene accepted")
	}

	s = &scene.Scene{Objects: []*scene.Object{
		{Name: "Armature", Type: scene.TypeArmature, MatrixWorld: scene.Identity()},
	}}
	if _, _, err := Export(s, opts, ctx); err == nil {
		t.Error("meshless armature accepted")
	}
}

func TestExportUnweighted(t *testing.T) {
	cfg := testConfig(t)
	ctx := NewContext()
	ctx.Quiet = true
	doc, prepared, err := Export(testScene(false), Options{
		Config: cfg,
		OutDir: t.TempDir(),
		Sizes:  texture.NewSizeCache(),
	}, ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if len(doc.Bones) != 2 {
		t.Fatalf("bones=%d; expected 2", len(doc.Bones))
	}
	if len(doc.Slots) != 1 || doc.Slots[0].Bone != "root" {
		t.Errorf("slots=%+v; expected one slot on root", doc.Slots)
	}

	slotAtts, ok := doc.Skins[0].Attachments.Get("Body")
	if !ok {
		t.Fatal("Body attachment missing")
	}
	att, _ := slotAtts.Get("Body")
	if att.Type != "mesh" || att.Path != "Body" {
		t.Errorf("attachment=%+v", att)
	}
	if len(att.UVs) != 8 {
		t.Errorf("uvs=%d; expected 8", len(att.UVs))
	}
	// Unweighted: plain coordinate pairs.
	if len(att.Vertices) != 8 {
		t.Errorf("vertices=%d floats; expected 8 for the unweighted quad", len(att.Vertices))
	}
	if att.Hull != 4 {
		t.Errorf("hull=%d; expected 4", att.Hull)
	}
	if len(att.Edges) == 0 || len(att.Edges)%2 != 0 {
		t.Errorf("edges=%v; expected a non-empty even stream", att.Edges)
	}
	for _, e := range att.Edges {
		if e%2 != 0 || e < 0 || e >= 8 {
			t.Errorf("edge index %d outside the even stream range", e)
		}
	}

	if len(prepared) != 1 || prepared[0].Slot != "Body" {
		t.Errorf("prepared=%+v", prepared)
	}

	var sawOK bool
	for _, line := range ctx.Lines() {
		if strings.HasPrefix(line, "[OK] Body:") {
			sawOK = true
		}
	}
	if !sawOK {
		t.Errorf("no per-attachment OK line in %v", ctx.Lines())
	}
}

func TestExportWeighted(t *testing.T) {
	cfg := testConfig(t)
	ctx := NewContext()
	ctx.Quiet = true
	doc, _, err := Export(testScene(true), Options{
		Config: cfg,
		OutDir: t.TempDir(),
		Sizes:  texture.NewSizeCache(),
	}, ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	slotAtts, _ := doc.Skins[0].Attachments.Get("Body")
	att, _ := slotAtts.Get("Body")

	// Every vertex has exactly one full-weight influence: the stream is
	// [1, boneIndex, x, y, 1.0] per vertex.
	if len(att.Vertices) != 4*5 {
		t.Fatalf("vertices=%d floats; expected 20", len(att.Vertices))
	}
	upIndex := -1
	for i, b := range doc.Bones {
		if b.Name == "up" {
			upIndex = i
		}
	}
	for i := 0; i < len(att.Vertices); i += 5 {
		if att.Vertices[i] != 1 {
			t.Fatalf("vertex %d influence count=%v; expected 1", i/5, att.Vertices[i])
		}
		if int(att.Vertices[i+1]) != upIndex {
			t.Errorf("vertex %d bone=%v; expected the up bone", i/5, att.Vertices[i+1])
		}
		if att.Vertices[i+4] != 1 {
			t.Errorf("vertex %d weight=%v; expected 1", i/5, att.Vertices[i+4])
		}
	}
}

func TestExportEdgesOff(t *testing.T) {
	cfg := testConfig(t)
	cfg.EdgesMode = config.EdgesOff
	ctx := NewContext()
	ctx.Quiet = true
	doc, _, err := Export(testScene(false), Options{
		Config: cfg,
		OutDir: t.TempDir(),
		Sizes:  texture.NewSizeCache(),
	}, ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	slotAtts, _ := doc.Skins[0].Attachments.Get("Body")
	att, _ := slotAtts.Get("Body")
	if att.Edges != nil || att.Hull != 0 {
		t.Errorf("edges=%v hull=%d; expected no topology block", att.Edges, att.Hull)
	}
}

func TestDocumentWrite(t *testing.T) {
	cfg := testConfig(t)
	ctx := NewContext()
	ctx.Quiet = true
	doc, _, err := Export(testScene(false), Options{
		Config: cfg,
		OutDir: t.TempDir(),
		Sizes:  texture.NewSizeCache(),
	}, ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := doc.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	for _, key := range []string{"skeleton", "bones", "slots", "skins", "animations"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("output missing %q block", key)
		}
	}
}

func TestContextFlush(t *testing.T) {
	ctx := NewContext()
	ctx.Quiet = true
	ctx.Logf("line %d", 1)
	ctx.Logf("line %d", 2)

	path := filepath.Join(t.TempDir(), "export.log")
	if err := ctx.Flush(path); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "line 1\nline 2\n" {
		t.Errorf("log content %q", data)
	}
}

// Package spine assembles and serializes the output skeleton document.
package spine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/anim"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/jsonmap"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/skeleton"
)

// Header is the document's skeleton block.
type Header struct {
	Hash   string  `json:"hash"`
	Spine  string  `json:"spine"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Images string  `json:"images"`
}

// Slot binds one attachment to a bone.
type Slot struct {
	Name       string `json:"name"`
	Bone       string `json:"bone"`
	Attachment string `json:"attachment"`
}

// Attachment is one mesh attachment. Vertices is either a flat [x,y,...]
// list (unweighted) or the self-describing weighted stream
// [count,(boneIndex,x,y,weight)...]; the reader tells them apart by length
// relative to UVs.
type Attachment struct {
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	UVs       []float64 `json:"uvs"`
	Triangles []int     `json:"triangles"`
	Vertices  []float64 `json:"vertices"`
	Hull      int       `json:"hull,omitempty"`
	Edges     []int     `json:"edges,omitempty"`
}

// Skin maps slot name → attachment name → attachment.
type Skin struct {
	Name        string                                  `json:"name"`
	Attachments *jsonmap.Map[*jsonmap.Map[*Attachment]] `json:"attachments"`
}

// Document is the complete output file.
type Document struct {
	Skeleton   Header                        `json:"skeleton"`
	Bones      []skeleton.Bone               `json:"bones"`
	Slots      []Slot                        `json:"slots"`
	Skins      []Skin                        `json:"skins"`
	Animations *jsonmap.Map[*anim.Animation] `json:"animations"`
}

// Write serializes the document as indented JSON.
func (d *Document) Write(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("spine: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("spine: write %s: %w", path, err)
	}
	return nil
}

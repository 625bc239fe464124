// Package preview renders compiled attachment regions as wireframe WebP
// images for visual inspection: triangles faint, the edge stream bright,
// the hull outline on top.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/HugoSmits86/nativewebp"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/region"
)

var (
	triColor  = color.NRGBA{90, 90, 90, 255}
	edgeColor = color.NRGBA{255, 170, 0, 255}
	hullColor = color.NRGBA{0, 200, 120, 255}
	vertColor = color.NRGBA{230, 230, 230, 255}
)

// Render draws a region into a square canvas. size is the final pixel
// size; drawing happens at size×supersample and is downsampled.
func Render(reg *region.Region, edges []int, size, supersample int) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	canvas := size * supersample
	img := image.NewNRGBA(image.Rect(0, 0, canvas, canvas))

	place := placement(reg, canvas)

	// Triangle wireframe first, everything else over it.
	for i := 0; i+2 < len(reg.Triangles); i += 3 {
		a, b, c := reg.Triangles[i], reg.Triangles[i+1], reg.Triangles[i+2]
		line(img, place(a), place(b), triColor)
		line(img, place(b), place(c), triColor)
		line(img, place(c), place(a), triColor)
	}

	// Edge stream indexes the [x,y,...] stream; halve to vertex indices.
	for i := 0; i+1 < len(edges); i += 2 {
		line(img, place(edges[i]/2), place(edges[i+1]/2), edgeColor)
	}

	for i := range reg.Hull {
		a := reg.Hull[i]
		b := reg.Hull[(i+1)%len(reg.Hull)]
		line(img, place(a), place(b), hullColor)
	}

	for i := range reg.Coords {
		p := place(i)
		dot(img, p, vertColor)
	}

	if supersample > 1 {
		img = Downsample(img, size)
	}
	return img
}

type point struct{ x, y float64 }

// placement maps NEW indices to canvas pixels: region space fitted into
// the canvas with a margin, Y flipped back to screen-down.
func placement(reg *region.Region, canvas int) func(int) point {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range reg.Coords {
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span < 1e-9 || len(reg.Coords) == 0 {
		return func(int) point {
			return point{float64(canvas) / 2, float64(canvas) / 2}
		}
	}
	margin := 0.05 * float64(canvas)
	s := (float64(canvas) - 2*margin) / span
	cx := 0.5 * (minX + maxX)
	cy := 0.5 * (minY + maxY)
	half := float64(canvas) / 2
	return func(i int) point {
		p := reg.Coords[i]
		return point{
			x: half + (p[0]-cx)*s,
			y: half - (p[1]-cy)*s,
		}
	}
}

// line draws with a simple DDA; preview quality does not need
// anti-aliasing before the supersampled downscale.
func line(img *image.NRGBA, a, b point, c color.NRGBA) {
	dx := b.x - a.x
	dy := b.y - a.y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		img.SetNRGBA(int(a.x+dx*t+0.5), int(a.y+dy*t+0.5), c)
	}
}

// dot marks a vertex with a small cross.
func dot(img *image.NRGBA, p point, c color.NRGBA) {
	x, y := int(p.x+0.5), int(p.y+0.5)
	for d := -1; d <= 1; d++ {
		img.SetNRGBA(x+d, y, c)
		img.SetNRGBA(x, y+d, c)
	}
}

// WriteWebP encodes the preview image to a WebP file.
func WriteWebP(img *image.NRGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	return nil
}

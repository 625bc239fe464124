// Package texture resolves the image behind each mesh's material: pixel
// size for UV→pixel conversion, and optional copying into the output's
// textures directory.
package texture

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// ImageExts are the texture file extensions the exporter accepts.
var ImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".tga": true, ".webp": true, ".bmp": true,
}

// ProbeSize reads a texture's pixel dimensions from the file header.
// Decoders are dispatched by extension rather than through the image
// registry: the tga package registers itself with an empty magic pattern,
// which hijacks sniffing for every other format.
func ProbeSize(path string) (w, h int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	var cfg image.Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		cfg, err = png.DecodeConfig(f)
	case ".jpg", ".jpeg":
		cfg, err = jpeg.DecodeConfig(f)
	case ".bmp":
		cfg, err = bmp.DecodeConfig(f)
	case ".webp":
		cfg, err = webp.DecodeConfig(f)
	case ".tga":
		// TGA has no header-only config path.
		img, derr := tga.Decode(f)
		if derr != nil {
			return 0, 0, fmt.Errorf("texture: decode %s: %w", path, derr)
		}
		b := img.Bounds()
		return b.Dx(), b.Dy(), nil
	default:
		return 0, 0, fmt.Errorf("texture: unsupported image format %s", path)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

package texture

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
)

// Info describes the first image bound to a mesh object's material.
type Info struct {
	Stem   string // image name without extension
	Path   string // resolvable file path, or ""
	UVMap  string // UV layer the material samples, or ""
	Width  int
	Height int
}

// Discover resolves a mesh object's image reference. Sizes missing from
// the scene document are probed from the file; an unreadable or missing
// file leaves Path empty (the stem still names the region). Returns nil
// when the object has no image at all.
func Discover(o *scene.Object, sizes *SizeCache) *Info {
	ref := o.Image
	if ref == nil {
		return nil
	}

	info := &Info{
		Stem:   strings.TrimSuffix(filepath.Base(ref.Name), filepath.Ext(ref.Name)),
		UVMap:  ref.UVMap,
		Width:  ref.Width,
		Height: ref.Height,
	}

	if ref.Filepath != "" {
		ext := strings.ToLower(filepath.Ext(ref.Filepath))
		if ImageExts[ext] {
			if _, err := os.Stat(ref.Filepath); err == nil {
				info.Path = ref.Filepath
			}
		}
	}

	if (info.Width <= 0 || info.Height <= 0) && info.Path != "" {
		if w, h, ok := sizes.Probe(info.Path); ok {
			info.Width = w
			info.Height = h
		}
	}
	return info
}

// CopyInto copies a source texture into outDir/textures/, preserving up to
// preserveParents trailing parent directories of the source path. Returns
// the path relative to outDir, slash-separated. An already present
// destination is left untouched.
func CopyInto(outDir, srcPath string, preserveParents int) (string, error) {
	if srcPath == "" {
		return "", fmt.Errorf("texture: empty source path")
	}

	var parents []string
	p := filepath.Dir(srcPath)
	for i := 0; i < preserveParents; i++ {
		name := filepath.Base(p)
		if name == "" || name == "." || name == string(filepath.Separator) {
			break
		}
		parents = append([]string{name}, parents...)
		p = filepath.Dir(p)
	}

	relParts := append([]string{"textures"}, parents...)
	relParts = append(relParts, filepath.Base(srcPath))
	dst := filepath.Join(append([]string{outDir}, relParts...)...)

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("texture: mkdir %s: %w", filepath.Dir(dst), err)
	}
	if _, err := os.Stat(dst); os.IsNotExist(err) {
		if err := copyFile(srcPath, dst); err != nil {
			return "", err
		}
	}
	return strings.Join(relParts, "/"), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("texture: open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("texture: create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("texture: copy %s: %w", dst, err)
	}
	return nil
}

// RelInside returns abs relative to base when abs lives inside it, slash
// separated, or ("", false).
func RelInside(base, abs string) (string, bool) {
	rel, err := filepath.Rel(base, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// RegionPath converts a textures-relative path into the attachment path:
// the leading "textures" component and the extension are dropped.
func RegionPath(rel string) string {
	parts := strings.Split(rel, "/")
	if len(parts) > 0 && parts[0] == "textures" {
		parts = parts[1:]
	}
	joined := strings.Join(parts, "/")
	return strings.TrimSuffix(joined, filepath.Ext(joined))
}

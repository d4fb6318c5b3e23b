package pubcontent

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// CoverImage describes a local cover image file referenced by an entry.
type CoverImage struct {
	Path   string
	Format string
	Width  int
	Height int
}

// resolveCoverPath maps a coverImage reference to a file on disk.
// Root-relative references ("/img/a.png") resolve inside publicDir and may
// not escape it; other references resolve next to the document.
func resolveCoverPath(publicDir, docPath, ref string) string {
	if strings.HasPrefix(ref, "/") {
		return filepath.Join(publicDir, filepath.FromSlash(path.Clean(ref)))
	}
	return filepath.Join(filepath.Dir(docPath), filepath.FromSlash(ref))
}

// inspectCoverImage decodes only the image header of the referenced file.
func inspectCoverImage(publicDir, docPath, ref string) (CoverImage, error) {
	p := resolveCoverPath(publicDir, docPath, ref)
	f, err := os.Open(p)
	if err != nil {
		return CoverImage{}, fmt.Errorf("open cover image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return CoverImage{}, fmt.Errorf("decode cover image %s: %w", p, err)
	}
	return CoverImage{
		Path:   p,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

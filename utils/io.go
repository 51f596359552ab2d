// Package utils adapts files on disk to pixel buffers and extracts color
// palettes.
package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/setanarut/imagelab"
)

// ReadImage decodes an image file into a buffer. EXIF orientation is
// applied. PNG, JPEG, GIF, BMP, TIFF and WebP are recognized.
func ReadImage(path string) (*imagelab.PixelBuffer, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return imagelab.FromImage(img), nil
}

// SaveImage encodes b, choosing the format from the file extension.
func SaveImage(b *imagelab.PixelBuffer, path string) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := imaging.Save(b.Image(), path, imaging.JPEGQuality(92)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// OutputPath derives the output file for src: the base name gets suffix
// appended before the extension and is placed in dir. An empty dir keeps
// the source directory.
func OutputPath(src, dir, suffix string) string {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + "_" + suffix + ext
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, name)
}

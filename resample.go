package imagelab

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Interpolation selects the resampling kernel used by Resample.
type Interpolation int

const (
	NearestNeighbor Interpolation = iota
	Bilinear
)

func (i Interpolation) scaler() draw.Scaler {
	if i == Bilinear {
		return draw.ApproxBiLinear
	}
	return draw.NearestNeighbor
}

// Resample scales b to w x h. A buffer that already has the requested size
// is cloned untouched.
func Resample(b *PixelBuffer, w, h int, interp Interpolation) (*PixelBuffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("resample to %dx%d: %w", w, h, ErrInvalidParameter)
	}
	if b.W == w && b.H == h {
		return b.Clone(), nil
	}

	rect := image.Rect(0, 0, w, h)
	var dst draw.Image
	if b.Format == Gray8 {
		dst = image.NewGray(rect)
	} else {
		dst = image.NewNRGBA(rect)
	}
	src := b.Image()
	interp.scaler().Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
	return FromImage(dst), nil
}

// Reconcile returns b resampled to ref's dimensions so both can be combined
// pixel by pixel.
func Reconcile(ref, b *PixelBuffer, interp Interpolation) (*PixelBuffer, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	out, err := Resample(b, ref.W, ref.H, interp)
	if err != nil {
		return nil, fmt.Errorf("reconcile %dx%d to %dx%d: %w: %w", b.W, b.H, ref.W, ref.H, ErrDimensionMismatch, err)
	}
	return out, nil
}

// Fit downscales b to fit inside maxW x maxH keeping its aspect ratio.
// Buffers already within bounds are cloned.
func Fit(b *PixelBuffer, maxW, maxH int) (*PixelBuffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if maxW < 1 || maxH < 1 {
		return nil, fmt.Errorf("fit into %dx%d: %w", maxW, maxH, ErrInvalidParameter)
	}
	if b.W <= maxW && b.H <= maxH {
		return b.Clone(), nil
	}
	scale := min(float64(maxW)/float64(b.W), float64(maxH)/float64(b.H))
	w := max(1, int(float64(b.W)*scale))
	h := max(1, int(float64(b.H)*scale))
	return Resample(b, w, h, Bilinear)
}

package binarize

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/setanarut/imagelab"
)

// Luma weights applied to R, G and B.
const (
	lumaR = 0.2125
	lumaG = 0.7154
	lumaB = 0.0721
)

// Grayscale converts img to a Gray8 buffer using luma weights, truncating
// to 8 bits. Gray8 input is cloned.
func Grayscale(img *imagelab.PixelBuffer) (*imagelab.PixelBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if img.Format == imagelab.Gray8 {
		return img.Clone(), nil
	}

	out, err := imagelab.New(img.W, img.H, imagelab.Gray8)
	if err != nil {
		return nil, err
	}
	w := img.W
	parallel.Line(img.H, func(start, end int) {
		for y := start; y < end; y++ {
			for x := range w {
				b, g, r, _ := img.BGRA(x, y)
				out.Pix[y*w+x] = uint8(lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b))
			}
		}
	})
	return out, nil
}

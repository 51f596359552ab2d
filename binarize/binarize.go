// Package binarize converts images to strictly black and white buffers using
// global and locally adaptive thresholds.
package binarize

import (
	"fmt"

	"github.com/setanarut/imagelab"
)

type grayImage struct {
	w, h int
	pix  []uint8
}

// Binarize converts img to gray and thresholds it with m. The result is a
// Gray8 buffer holding only 0 (foreground) and 255 (background).
func Binarize(img *imagelab.PixelBuffer, m Method) (*imagelab.PixelBuffer, error) {
	if m == nil {
		return nil, fmt.Errorf("nil binarization method: %w", imagelab.ErrInvalidMethod)
	}
	gray, err := Grayscale(img)
	if err != nil {
		return nil, err
	}
	out, err := imagelab.New(gray.W, gray.H, imagelab.Gray8)
	if err != nil {
		return nil, err
	}

	g := &grayImage{w: gray.W, h: gray.H, pix: gray.Pix}
	// A constant image carries no contrast to threshold.
	if lo, hi := g.bounds(); lo == hi {
		v := uint8(0)
		if lo >= 128 {
			v = 255
		}
		for i := range out.Pix {
			out.Pix[i] = v
		}
		return out, nil
	}

	if err := m.apply(g, out.Pix); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name(), err)
	}
	return out, nil
}

// BinarizeNamed resolves name with the default options and the given
// sensitivity, then calls Binarize.
func BinarizeNamed(img *imagelab.PixelBuffer, name string, sensitivity float64) (*imagelab.PixelBuffer, error) {
	opt := DefaultOptions()
	opt.Sensitivity = sensitivity
	m, err := ParseMethod(name, opt)
	if err != nil {
		return nil, err
	}
	return Binarize(img, m)
}

func (g *grayImage) bounds() (lo, hi uint8) {
	lo, hi = 255, 0
	for _, v := range g.pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func (g *grayImage) histogram() [256]int {
	var hist [256]int
	for _, v := range g.pix {
		hist[v]++
	}
	return hist
}

// thresholdAll maps pixels <= t to 0 and the rest to 255.
func thresholdAll(pix []uint8, t float64, out []uint8) {
	for i, v := range pix {
		if float64(v) <= t {
			out[i] = 0
		} else {
			out[i] = 255
		}
	}
}
